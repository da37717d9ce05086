package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is the materialized coin balance for one user. It caches the
// user_coin_wallet ledger account and must never go negative. The balance
// is only ever mutated through the wallet store's compare-and-swap path.
type Wallet struct {
	ID          uint  `gorm:"primarykey"`
	UserID      uint  `gorm:"uniqueIndex;not null"`
	CoinBalance int64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Wallets are created lazily with a zero balance; credits come later.
	w.CoinBalance = 0
	return nil
}
