package models

import (
	"fmt"
	"time"
)

// Currencies are closed: two virtual denominations plus the fiat
// settlement currency, all in integer minor units.
const (
	CurrencyCoin    = "coin"
	CurrencyDiamond = "diamond"
	CurrencyUSD     = "usd" // cents
)

// Ledger accounts are logical namespaces, not rows. Balances are derived:
// sum(credit) - sum(debit) over all entries for the account.
const (
	AccountPlatformCoinLiability = "platform_coin_liability"
	AccountPlatformRevenue       = "platform_revenue"

	// Clearing accounts for mixed-currency transactions. Rounding
	// remainders from floor conversions accumulate here.
	AccountConversionCoin    = "conversion:coin"
	AccountConversionDiamond = "conversion:diamond"
	AccountConversionUSD     = "conversion:usd"
)

// UserCoinWalletAccount returns the ledger account backing a user's
// materialized coin balance.
func UserCoinWalletAccount(userID uint) string {
	return fmt.Sprintf("user_coin_wallet:%d", userID)
}

// CreatorEarningsAccount returns a creator's diamond earnings account.
func CreatorEarningsAccount(creatorID uint) string {
	return fmt.Sprintf("creator_earnings:%d", creatorID)
}

// CreatorPayoutPayableAccount returns the fiat payable account earnings
// are moved into when a payout is requested.
func CreatorPayoutPayableAccount(creatorID uint) string {
	return fmt.Sprintf("creator_payout_payable:%d", creatorID)
}

// Reference types linking ledger transactions back to their origin.
const (
	ReferenceWalletTopup = "wallet_topup"
	ReferenceWalletDebit = "wallet_debit"
	ReferenceGift        = "gift"
	ReferenceEntitlement = "entitlement"
	ReferencePayout      = "payout"
)

// LedgerEntry is one side of a double-entry transaction. Entries are
// append-only: never updated or deleted. Exactly one of Debit/Credit is
// non-zero, and all entries sharing a TransactionID balance per currency.
type LedgerEntry struct {
	ID            uint   `gorm:"primarykey"`
	TransactionID string `gorm:"index;not null"`
	Account       string `gorm:"index;not null"`
	UserID        *uint  `gorm:"index"`
	Currency      string `gorm:"not null"`
	Debit         int64  `gorm:"not null;default:0"`
	Credit        int64  `gorm:"not null;default:0"`
	ReferenceType string
	ReferenceID   string
	Metadata      JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time
}
