package repositories

import (
	"errors"
	"fmt"

	"lumora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEntitlementNotFound = errors.New("entitlement not found")

// EntitlementRepository persists premium-content unlock grants.
type EntitlementRepository interface {
	Get(userID, storyID uint, entitlementType string) (*models.Entitlement, error)

	// Upsert inserts the entitlement, treating a duplicate of the unique
	// (user, story, type) key as a no-op.
	Upsert(e *models.Entitlement) error

	ListByUser(userID uint) ([]models.Entitlement, error)
}

type entitlementRepository struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

func (r *entitlementRepository) Get(userID, storyID uint, entitlementType string) (*models.Entitlement, error) {
	var e models.Entitlement
	err := r.db.Where("user_id = ? AND story_id = ? AND entitlement_type = ?",
		userID, storyID, entitlementType).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntitlementNotFound
		}
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}
	return &e, nil
}

func (r *entitlementRepository) Upsert(e *models.Entitlement) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "story_id"}, {Name: "entitlement_type"}},
		DoNothing: true,
	}).Create(e).Error
	if err != nil {
		return fmt.Errorf("failed to grant entitlement: %w", err)
	}
	return nil
}

func (r *entitlementRepository) ListByUser(userID uint) ([]models.Entitlement, error) {
	var list []models.Entitlement
	if err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}
	return list, nil
}
