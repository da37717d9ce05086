package repositories

import (
	"errors"
	"fmt"

	"lumora/internal/models"

	"gorm.io/gorm"
)

var ErrGiftNotFound = errors.New("gift not found")

// GiftRepository serves the static gift catalog and the best-effort
// GiftTransaction receipts.
type GiftRepository interface {
	GetActiveByCode(code string) (*models.Gift, error)
	ListActive() ([]models.Gift, error)
	Create(gift *models.Gift) error
	CreateTransaction(tx *models.GiftTransaction) error
	ListTransactionsBySender(senderID uint, limit, offset int) ([]models.GiftTransaction, error)
}

type giftRepository struct {
	db *gorm.DB
}

func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &giftRepository{db: db}
}

func (r *giftRepository) GetActiveByCode(code string) (*models.Gift, error) {
	var gift models.Gift
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&gift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, fmt.Errorf("failed to get gift %s: %w", code, err)
	}
	return &gift, nil
}

func (r *giftRepository) ListActive() ([]models.Gift, error) {
	var gifts []models.Gift
	if err := r.db.Where("is_active = ?", true).Order("price_coins").Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	return gifts, nil
}

func (r *giftRepository) Create(gift *models.Gift) error {
	if err := r.db.Create(gift).Error; err != nil {
		return fmt.Errorf("failed to create gift: %w", err)
	}
	return nil
}

func (r *giftRepository) CreateTransaction(tx *models.GiftTransaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create gift receipt: %w", err)
	}
	return nil
}

func (r *giftRepository) ListTransactionsBySender(senderID uint, limit, offset int) ([]models.GiftTransaction, error) {
	var txs []models.GiftTransaction
	err := r.db.Where("sender_id = ?", senderID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list gift receipts: %w", err)
	}
	return txs, nil
}
