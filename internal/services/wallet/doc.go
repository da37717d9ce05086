/*
Package wallet maintains the materialized coin balance per user.

The balance is a cache of the user's user_coin_wallet ledger account and
never goes negative. Every mutation is a compare-and-swap conditional
update retried up to three times, and commits in the same database
transaction as the balancing two-entry ledger record, so the cache and
the source of truth cannot diverge on partial failure.
*/
package wallet
