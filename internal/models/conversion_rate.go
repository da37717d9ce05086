package models

import "time"

// ConversionRate is one row of the exchange table, e.g. coin->diamond 0.5
// or diamond->usd 0.02 (dollars per diamond). Read-heavy and rarely
// updated; cached in-process for the lifetime of the process.
type ConversionRate struct {
	ID        uint    `gorm:"primarykey"`
	FromUnit  string  `gorm:"uniqueIndex:idx_rate_pair;not null"`
	ToUnit    string  `gorm:"uniqueIndex:idx_rate_pair;not null"`
	Rate      float64 `gorm:"not null"`
	UpdatedAt time.Time
}
