package repositories

import (
	"errors"
	"fmt"

	"lumora/internal/models"

	"gorm.io/gorm"
)

var ErrConnectedAccountNotFound = errors.New("connected account not found")

// ConnectedAccountRepository persists the opaque processor account id and
// payout-readiness flags for creators.
type ConnectedAccountRepository interface {
	GetByUserID(userID uint) (*models.ConnectedAccount, error)
	Create(account *models.ConnectedAccount) error
	Update(account *models.ConnectedAccount) error
}

type connectedAccountRepository struct {
	db *gorm.DB
}

func NewConnectedAccountRepository(db *gorm.DB) ConnectedAccountRepository {
	return &connectedAccountRepository{db: db}
}

func (r *connectedAccountRepository) GetByUserID(userID uint) (*models.ConnectedAccount, error) {
	var account models.ConnectedAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectedAccountNotFound
		}
		return nil, fmt.Errorf("failed to get connected account: %w", err)
	}
	return &account, nil
}

func (r *connectedAccountRepository) Create(account *models.ConnectedAccount) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create connected account: %w", err)
	}
	return nil
}

func (r *connectedAccountRepository) Update(account *models.ConnectedAccount) error {
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update connected account: %w", err)
	}
	return nil
}
