package repositories

import (
	"errors"
	"fmt"

	"lumora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStoryPriceNotFound = errors.New("story price not found")

// StoryPriceRepository serves the premium-unlock price list.
type StoryPriceRepository interface {
	GetActive(storyID uint) (*models.StoryPrice, error)
	Upsert(price *models.StoryPrice) error
}

type storyPriceRepository struct {
	db *gorm.DB
}

func NewStoryPriceRepository(db *gorm.DB) StoryPriceRepository {
	return &storyPriceRepository{db: db}
}

func (r *storyPriceRepository) GetActive(storyID uint) (*models.StoryPrice, error) {
	var price models.StoryPrice
	err := r.db.Where("story_id = ? AND is_active = ?", storyID, true).First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryPriceNotFound
		}
		return nil, fmt.Errorf("failed to get story price %d: %w", storyID, err)
	}
	return &price, nil
}

func (r *storyPriceRepository) Upsert(price *models.StoryPrice) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "story_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_coins", "is_active", "updated_at"}),
	}).Create(price).Error
	if err != nil {
		return fmt.Errorf("failed to upsert story price: %w", err)
	}
	return nil
}
