/*
Package ledger is the double-entry accounting engine, the single source
of truth for all money movement on the platform.

Every Record call appends one immutable, balanced transaction: at least
two entries, each touching exactly one side (debit or credit), with
debits equal to credits per currency. Validation failures write nothing.
Committed entries are never updated or deleted; corrections are new
offsetting transactions.

Account balances are derived, never stored: balance = sum(credit) -
sum(debit) over the account's entries. Mixed-currency transactions (coin
to diamond on gifts, diamond to fiat on payouts) route each currency leg
through a conversion clearing account so the balance invariant holds per
currency, which also makes floored rounding remainders auditable.
*/
package ledger
