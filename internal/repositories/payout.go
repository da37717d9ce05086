package repositories

import (
	"fmt"

	"lumora/internal/models"

	"gorm.io/gorm"
)

// PayoutRepository persists payout requests. Creating a payout and
// appending its earnings-zeroing ledger transaction happen inside
// ExecuteInTransaction so neither can exist without the other.
type PayoutRepository interface {
	Create(p *models.Payout) error
	ListByCreator(creatorID uint, limit, offset int) ([]models.Payout, error)
	AppendLedgerEntries(entries []*models.LedgerEntry) error
	ExecuteInTransaction(fn func(PayoutRepository) error) error
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(p *models.Payout) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}
	return nil
}

func (r *payoutRepository) ListByCreator(creatorID uint, limit, offset int) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Where("creator_id = ?", creatorID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&payouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return payouts, nil
}

func (r *payoutRepository) AppendLedgerEntries(entries []*models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.Create(entries).Error; err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", err)
	}
	return nil
}

func (r *payoutRepository) ExecuteInTransaction(fn func(PayoutRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&payoutRepository{db: tx})
	})
}
