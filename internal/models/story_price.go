package models

import "time"

// StoryPrice is the platform-side price list for premium unlocks. The
// price a purchase charges comes from this table, never from the client;
// rows are maintained by admin tooling in sync with the content catalog.
type StoryPrice struct {
	ID         uint  `gorm:"primarykey"`
	StoryID    uint  `gorm:"uniqueIndex;not null"`
	PriceCoins int64 `gorm:"not null"`
	IsActive   bool  `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
