package repositories

import (
	"errors"
	"fmt"

	"lumora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRateNotFound = errors.New("conversion rate not found")

// RateRepository serves the conversion_rates table.
type RateRepository interface {
	Get(fromUnit, toUnit string) (*models.ConversionRate, error)
	Upsert(rate *models.ConversionRate) error
}

type rateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Get(fromUnit, toUnit string) (*models.ConversionRate, error) {
	var rate models.ConversionRate
	err := r.db.Where("from_unit = ? AND to_unit = ?", fromUnit, toUnit).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to get rate %s->%s: %w", fromUnit, toUnit, err)
	}
	return &rate, nil
}

func (r *rateRepository) Upsert(rate *models.ConversionRate) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_unit"}, {Name: "to_unit"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
	}).Create(rate).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rate: %w", err)
	}
	return nil
}
