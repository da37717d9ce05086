package models

import "time"

// Entitlement types and sources
const (
	EntitlementTypePremiumUnlock = "premium_unlock"

	EntitlementSourcePurchase = "coin_purchase"
	EntitlementSourceGrant    = "manual_grant"
)

// Entitlement grants a user access to a piece of premium content.
// Existence plus non-expiry means access. Unique per (user, story, type).
type Entitlement struct {
	ID              uint   `gorm:"primarykey"`
	UserID          uint   `gorm:"uniqueIndex:idx_entitlement_unique;not null"`
	StoryID         uint   `gorm:"uniqueIndex:idx_entitlement_unique;not null"`
	EntitlementType string `gorm:"uniqueIndex:idx_entitlement_unique;not null;default:'premium_unlock'"`
	Source          string `gorm:"not null"`
	ExpiresAt       *time.Time
	CreatedAt       time.Time
}

// Expired reports whether the entitlement has lapsed.
func (e *Entitlement) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}
