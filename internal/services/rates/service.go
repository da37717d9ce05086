// Package rates holds the exchange table between the platform's
// currencies: coins to diamonds and diamonds to fiat. All conversions
// floor so the platform never over-credits on rounding; the fractional
// remainder stays with the platform.
package rates

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"lumora/internal/models"
	"lumora/internal/repositories"
)

// ErrRateNotFound means the pair is missing from the table, which is a
// configuration error, not user input.
var ErrRateNotFound = errors.New("conversion rate not found")

// Service converts between currency units.
type Service interface {
	Rate(ctx context.Context, from, to string) (float64, error)
	SetRate(ctx context.Context, from, to string, rate float64) error
	CoinsToDiamonds(ctx context.Context, coins int64) (int64, error)
	DiamondsToUsdCents(ctx context.Context, diamonds int64) (int64, error)
}

type service struct {
	repo repositories.RateRepository

	// Rates are assumed to change only on redeploy, so the read-through
	// cache lives for the life of the process with no TTL.
	mu    sync.RWMutex
	cache map[string]float64
}

// NewService creates a rate service over the conversion_rates table.
func NewService(repo repositories.RateRepository) Service {
	if repo == nil {
		panic("rate repository is required")
	}
	return &service{
		repo:  repo,
		cache: make(map[string]float64),
	}
}

func (s *service) Rate(ctx context.Context, from, to string) (float64, error) {
	key := from + "->" + to

	s.mu.RLock()
	rate, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return rate, nil
	}

	row, err := s.repo.Get(from, to)
	if err != nil {
		if errors.Is(err, repositories.ErrRateNotFound) {
			return 0, fmt.Errorf("%w: %s->%s", ErrRateNotFound, from, to)
		}
		return 0, err
	}

	s.mu.Lock()
	s.cache[key] = row.Rate
	s.mu.Unlock()
	return row.Rate, nil
}

// SetRate upserts a pair and refreshes the process cache. Other
// processes keep their old rate until restart.
func (s *service) SetRate(ctx context.Context, from, to string, rate float64) error {
	if rate <= 0 {
		return errors.New("rate must be positive")
	}
	if err := s.repo.Upsert(&models.ConversionRate{FromUnit: from, ToUnit: to, Rate: rate}); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[from+"->"+to] = rate
	s.mu.Unlock()
	return nil
}

func (s *service) CoinsToDiamonds(ctx context.Context, coins int64) (int64, error) {
	rate, err := s.Rate(ctx, models.CurrencyCoin, models.CurrencyDiamond)
	if err != nil {
		return 0, err
	}
	return int64(math.Floor(float64(coins) * rate)), nil
}

func (s *service) DiamondsToUsdCents(ctx context.Context, diamonds int64) (int64, error) {
	rate, err := s.Rate(ctx, models.CurrencyDiamond, models.CurrencyUSD)
	if err != nil {
		return 0, err
	}
	// Rate is dollars per diamond; settle in cents.
	return int64(math.Floor(float64(diamonds) * rate * 100)), nil
}
