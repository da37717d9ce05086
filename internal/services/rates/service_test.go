package rates

import (
	"context"
	"testing"

	"lumora/internal/models"
	"lumora/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateRepo struct {
	mock.Mock
}

func (m *MockRateRepo) Get(from, to string) (*models.ConversionRate, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversionRate), args.Error(1)
}

func (m *MockRateRepo) Upsert(rate *models.ConversionRate) error {
	args := m.Called(rate)
	return args.Error(0)
}

func TestService_Rate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing pair is a configuration error", func(t *testing.T) {
		repo := new(MockRateRepo)
		repo.On("Get", "coin", "gold").Return(nil, repositories.ErrRateNotFound)

		_, err := NewService(repo).Rate(ctx, "coin", "gold")
		assert.ErrorIs(t, err, ErrRateNotFound)
	})

	t.Run("caches for process lifetime, single repo read", func(t *testing.T) {
		repo := new(MockRateRepo)
		repo.On("Get", models.CurrencyCoin, models.CurrencyDiamond).
			Return(&models.ConversionRate{Rate: 0.5}, nil).Once()

		svc := NewService(repo)
		for i := 0; i < 3; i++ {
			rate, err := svc.Rate(ctx, models.CurrencyCoin, models.CurrencyDiamond)
			require.NoError(t, err)
			assert.Equal(t, 0.5, rate)
		}
		repo.AssertExpectations(t)
	})
}

func TestService_Conversions(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRateRepo)
	repo.On("Get", models.CurrencyCoin, models.CurrencyDiamond).Return(&models.ConversionRate{Rate: 0.5}, nil)
	repo.On("Get", models.CurrencyDiamond, models.CurrencyUSD).Return(&models.ConversionRate{Rate: 0.02}, nil)
	svc := NewService(repo)

	t.Run("zero in, zero out", func(t *testing.T) {
		cents, err := svc.DiamondsToUsdCents(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), cents)
	})

	t.Run("always floors, never rounds up", func(t *testing.T) {
		diamonds, err := svc.CoinsToDiamonds(ctx, 101) // 50.5
		require.NoError(t, err)
		assert.Equal(t, int64(50), diamonds)

		cents, err := svc.DiamondsToUsdCents(ctx, 10) // 10 * 0.02 * 100 = 20
		require.NoError(t, err)
		assert.Equal(t, int64(20), cents)
	})

	t.Run("monotonic non-decreasing", func(t *testing.T) {
		var prev int64 = -1
		for coins := int64(0); coins <= 200; coins++ {
			d, err := svc.CoinsToDiamonds(ctx, coins)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, d, prev)
			prev = d
		}
	})
}
