package models

import "time"

// Gift is a catalog entry. Static reference data seeded by admin tooling.
type Gift struct {
	ID           uint   `gorm:"primarykey"`
	Code         string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	PriceCoins   int64  `gorm:"not null"`
	DiamondValue int64  `gorm:"not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GiftTransaction is a denormalized receipt written best-effort after a
// gift settles. The ledger is authoritative; absence of a receipt is not
// proof the gift didn't happen.
type GiftTransaction struct {
	ID             uint   `gorm:"primarykey"`
	LedgerTxID     string `gorm:"index"`
	GiftID         uint   `gorm:"not null"`
	SenderID       uint   `gorm:"index;not null"`
	CreatorID      uint   `gorm:"index;not null"`
	StoryID        *uint
	Quantity       int64 `gorm:"not null"`
	CoinsSpent     int64 `gorm:"not null"`
	DiamondsEarned int64 `gorm:"not null"`
	PlatformFeePpm int64 `gorm:"not null"`
	CreatedAt      time.Time
}
