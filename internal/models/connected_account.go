package models

import "time"

// ConnectedAccount tracks a creator's payee account with the external
// payout processor. Only the opaque account id and the readiness flags are
// persisted; onboarding UI and KYC live entirely on the processor's side.
type ConnectedAccount struct {
	ID               uint   `gorm:"primarykey"`
	UserID           uint   `gorm:"uniqueIndex;not null"`
	Provider         string `gorm:"not null;default:'stripe'"`
	AccountID        string `gorm:"uniqueIndex;not null"`
	DetailsSubmitted bool   `gorm:"not null;default:false"`
	PayoutsEnabled   bool   `gorm:"not null;default:false"`
	RequirementsDue  JSON   `gorm:"type:jsonb"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
