package entitlement

import (
	"context"
	"testing"
	"time"

	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEntitlementRepo struct {
	mock.Mock
}

func (m *MockEntitlementRepo) Get(userID, storyID uint, entitlementType string) (*models.Entitlement, error) {
	args := m.Called(userID, storyID, entitlementType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entitlement), args.Error(1)
}

func (m *MockEntitlementRepo) Upsert(e *models.Entitlement) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockEntitlementRepo) ListByUser(userID uint) ([]models.Entitlement, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Entitlement), args.Error(1)
}

type MockStoryPriceRepo struct {
	mock.Mock
}

func (m *MockStoryPriceRepo) GetActive(storyID uint) (*models.StoryPrice, error) {
	args := m.Called(storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoryPrice), args.Error(1)
}

func (m *MockStoryPriceRepo) Upsert(price *models.StoryPrice) error {
	args := m.Called(price)
	return args.Error(0)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) CreditCoins(ctx context.Context, userID uint, amount int64, ref wallet.Reference) error {
	args := m.Called(ctx, userID, amount, ref)
	return args.Error(0)
}

func (m *MockWalletService) DebitCoins(ctx context.Context, userID uint, amount int64, ref wallet.Reference) error {
	args := m.Called(ctx, userID, amount, ref)
	return args.Error(0)
}

func TestService_HasEntitlement(t *testing.T) {
	ctx := context.Background()

	t.Run("absent means no access", func(t *testing.T) {
		repo := new(MockEntitlementRepo)
		repo.On("Get", uint(1), uint(10), models.EntitlementTypePremiumUnlock).
			Return(nil, repositories.ErrEntitlementNotFound)

		has, err := NewService(repo, new(MockStoryPriceRepo), new(MockWalletService)).
			HasEntitlement(ctx, 1, 10, "")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("expired means no access", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		repo := new(MockEntitlementRepo)
		repo.On("Get", uint(1), uint(10), models.EntitlementTypePremiumUnlock).
			Return(&models.Entitlement{UserID: 1, StoryID: 10, ExpiresAt: &past}, nil)

		has, err := NewService(repo, new(MockStoryPriceRepo), new(MockWalletService)).
			HasEntitlement(ctx, 1, 10, models.EntitlementTypePremiumUnlock)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("live grant means access", func(t *testing.T) {
		repo := new(MockEntitlementRepo)
		repo.On("Get", uint(1), uint(10), models.EntitlementTypePremiumUnlock).
			Return(&models.Entitlement{UserID: 1, StoryID: 10}, nil)

		has, err := NewService(repo, new(MockStoryPriceRepo), new(MockWalletService)).
			HasEntitlement(ctx, 1, 10, models.EntitlementTypePremiumUnlock)
		require.NoError(t, err)
		assert.True(t, has)
	})
}

func TestService_PurchaseWithCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("debits then grants", func(t *testing.T) {
		repo := new(MockEntitlementRepo)
		wallets := new(MockWalletService)
		repo.On("Get", uint(1), uint(10), models.EntitlementTypePremiumUnlock).
			Return(nil, repositories.ErrEntitlementNotFound)
		wallets.On("DebitCoins", ctx, uint(1), int64(250), mock.Anything).Return(nil)
		repo.On("Upsert", mock.MatchedBy(func(e *models.Entitlement) bool {
			return e.UserID == 1 && e.StoryID == 10 &&
				e.Source == models.EntitlementSourcePurchase
		})).Return(nil)

		err := NewService(repo, new(MockStoryPriceRepo), wallets).PurchaseWithCoins(ctx, 1, 10, 250)
		require.NoError(t, err)
		repo.AssertExpectations(t)
		wallets.AssertExpectations(t)
	})

	t.Run("already unlocked never charges", func(t *testing.T) {
		repo := new(MockEntitlementRepo)
		wallets := new(MockWalletService)
		repo.On("Get", uint(1), uint(10), models.EntitlementTypePremiumUnlock).
			Return(&models.Entitlement{UserID: 1, StoryID: 10}, nil)

		err := NewService(repo, new(MockStoryPriceRepo), wallets).PurchaseWithCoins(ctx, 1, 10, 250)
		assert.ErrorIs(t, err, ErrAlreadyUnlocked)
		wallets.AssertNotCalled(t, "DebitCoins", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient balance leaves no grant", func(t *testing.T) {
		repo := new(MockEntitlementRepo)
		wallets := new(MockWalletService)
		repo.On("Get", uint(1), uint(10), models.EntitlementTypePremiumUnlock).
			Return(nil, repositories.ErrEntitlementNotFound)
		wallets.On("DebitCoins", ctx, uint(1), int64(250), mock.Anything).
			Return(wallet.ErrInsufficientBalance)

		err := NewService(repo, new(MockStoryPriceRepo), wallets).PurchaseWithCoins(ctx, 1, 10, 250)
		assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)
		repo.AssertNotCalled(t, "Upsert", mock.Anything)
	})
}

func TestService_UnlockStory(t *testing.T) {
	ctx := context.Background()

	t.Run("charges the listed price", func(t *testing.T) {
		repo := new(MockEntitlementRepo)
		prices := new(MockStoryPriceRepo)
		wallets := new(MockWalletService)
		prices.On("GetActive", uint(10)).
			Return(&models.StoryPrice{StoryID: 10, PriceCoins: 120, IsActive: true}, nil)
		repo.On("Get", uint(1), uint(10), models.EntitlementTypePremiumUnlock).
			Return(nil, repositories.ErrEntitlementNotFound)
		wallets.On("DebitCoins", ctx, uint(1), int64(120), mock.Anything).Return(nil)
		repo.On("Upsert", mock.MatchedBy(func(e *models.Entitlement) bool {
			return e.UserID == 1 && e.StoryID == 10 &&
				e.Source == models.EntitlementSourcePurchase
		})).Return(nil)

		err := NewService(repo, prices, wallets).UnlockStory(ctx, 1, 10)
		require.NoError(t, err)
		wallets.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("unpriced story cannot be bought", func(t *testing.T) {
		repo := new(MockEntitlementRepo)
		prices := new(MockStoryPriceRepo)
		wallets := new(MockWalletService)
		prices.On("GetActive", uint(10)).
			Return(nil, repositories.ErrStoryPriceNotFound)

		err := NewService(repo, prices, wallets).UnlockStory(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrStoryNotPriced)
		wallets.AssertNotCalled(t, "DebitCoins", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Upsert", mock.Anything)
	})
}

func TestService_SetStoryPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts the price row", func(t *testing.T) {
		prices := new(MockStoryPriceRepo)
		prices.On("Upsert", mock.MatchedBy(func(p *models.StoryPrice) bool {
			return p.StoryID == 10 && p.PriceCoins == 75 && p.IsActive
		})).Return(nil)

		err := NewService(new(MockEntitlementRepo), prices, new(MockWalletService)).
			SetStoryPrice(ctx, 10, 75, true)
		require.NoError(t, err)
		prices.AssertExpectations(t)
	})

	t.Run("rejects non-positive prices", func(t *testing.T) {
		prices := new(MockStoryPriceRepo)

		svc := NewService(new(MockEntitlementRepo), prices, new(MockWalletService))
		assert.ErrorIs(t, svc.SetStoryPrice(ctx, 10, 0, true), ErrInvalidPrice)
		assert.ErrorIs(t, svc.SetStoryPrice(ctx, 10, -5, true), ErrInvalidPrice)
		prices.AssertNotCalled(t, "Upsert", mock.Anything)
	})
}
