package models

import "time"

// Payout statuses. pending_review is the only state this system assigns;
// later states mirror whatever the external processor reports.
const (
	PayoutStatusPendingReview = "pending_review"
	PayoutStatusInTransit     = "in_transit"
	PayoutStatusPaid          = "paid"
	PayoutStatusFailed        = "failed"
)

// Payout is a creator's request to settle accrued diamonds into fiat.
// Creation is always paired with the ledger transaction that zeroes the
// creator's earnings balance, so the same diamonds cannot be paid twice.
type Payout struct {
	ID          uint   `gorm:"primarykey"`
	CreatorID   uint   `gorm:"index;not null"`
	Provider    string `gorm:"not null;default:'stripe'"`
	Status      string `gorm:"not null;default:'pending_review'"`
	AmountCents int64  `gorm:"not null"`
	Currency    string `gorm:"not null;default:'usd'"`
	Diamonds    int64  `gorm:"not null"`
	LedgerTxID  string `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
