package wallet

import (
	"context"
	"sync"
	"testing"

	"lumora/internal/models"
	"lumora/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(w *models.Wallet) error {
	args := m.Called(w)
	return args.Error(0)
}

func (m *MockWalletRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepo) UpdateBalance(userID uint, expected, newBalance int64) error {
	args := m.Called(userID, expected, newBalance)
	return args.Error(0)
}

func (m *MockWalletRepo) AppendLedgerEntries(entries []*models.LedgerEntry) error {
	args := m.Called(entries)
	return args.Error(0)
}

func (m *MockWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	m.Called()
	return fn(m)
}

type noopCache struct{}

func (noopCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, repositories.ErrWalletNotFound
}
func (noopCache) CacheWallet(context.Context, *models.Wallet) error { return nil }
func (noopCache) InvalidateWallet(context.Context, uint) error      { return nil }

func TestService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns existing wallet", func(t *testing.T) {
		repo := new(MockWalletRepo)
		repo.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, CoinBalance: 42}, nil)

		w, err := NewService(repo, noopCache{}).GetOrCreate(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), w.CoinBalance)
	})

	t.Run("creates lazily with zero balance", func(t *testing.T) {
		repo := new(MockWalletRepo)
		repo.On("GetByUserID", uint(2)).Return(nil, repositories.ErrWalletNotFound).Once()
		repo.On("Create", mock.Anything).Return(nil)

		w, err := NewService(repo, noopCache{}).GetOrCreate(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.CoinBalance)
	})

	t.Run("lost create race re-reads the winner's row", func(t *testing.T) {
		repo := new(MockWalletRepo)
		repo.On("GetByUserID", uint(3)).Return(nil, repositories.ErrWalletNotFound).Once()
		repo.On("Create", mock.Anything).Return(repositories.ErrDuplicateWallet)
		repo.On("GetByUserID", uint(3)).Return(&models.Wallet{UserID: 3, CoinBalance: 5}, nil).Once()

		w, err := NewService(repo, noopCache{}).GetOrCreate(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(5), w.CoinBalance)
		repo.AssertExpectations(t)
	})
}

func TestService_CreditCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := NewService(new(MockWalletRepo), noopCache{})
		assert.ErrorIs(t, svc.CreditCoins(ctx, 1, 0, Reference{}), ErrInvalidAmount)
		assert.ErrorIs(t, svc.CreditCoins(ctx, 1, -10, Reference{}), ErrInvalidAmount)
	})

	t.Run("writes CAS update and balancing ledger entries together", func(t *testing.T) {
		repo := new(MockWalletRepo)
		repo.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, CoinBalance: 0}, nil)
		repo.On("ExecuteInTransaction").Return(nil)
		repo.On("UpdateBalance", uint(1), int64(0), int64(500)).Return(nil)
		repo.On("AppendLedgerEntries", mock.MatchedBy(func(entries []*models.LedgerEntry) bool {
			if len(entries) != 2 {
				return false
			}
			debit, credit := entries[0], entries[1]
			return debit.Account == models.AccountPlatformCoinLiability &&
				debit.Debit == 500 &&
				credit.Account == models.UserCoinWalletAccount(1) &&
				credit.Credit == 500 &&
				debit.TransactionID == credit.TransactionID &&
				debit.TransactionID != ""
		})).Return(nil)

		err := NewService(repo, noopCache{}).CreditCoins(ctx, 1, 500, Reference{Type: models.ReferenceWalletTopup})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_DebitCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient balance is fatal, no write attempted", func(t *testing.T) {
		repo := new(MockWalletRepo)
		repo.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, CoinBalance: 50}, nil)

		err := NewService(repo, noopCache{}).DebitCoins(ctx, 1, 100, Reference{})
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		repo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("retries a lost race with the re-read balance", func(t *testing.T) {
		repo := new(MockWalletRepo)
		repo.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, CoinBalance: 200}, nil).Once()
		repo.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, CoinBalance: 150}, nil).Once()
		repo.On("ExecuteInTransaction").Return(nil)
		repo.On("UpdateBalance", uint(1), int64(200), int64(100)).Return(repositories.ErrStaleBalance).Once()
		repo.On("UpdateBalance", uint(1), int64(150), int64(50)).Return(nil).Once()
		repo.On("AppendLedgerEntries", mock.Anything).Return(nil)

		err := NewService(repo, noopCache{}).DebitCoins(ctx, 1, 100, Reference{})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("gives up after three lost races", func(t *testing.T) {
		repo := new(MockWalletRepo)
		repo.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, CoinBalance: 200}, nil)
		repo.On("ExecuteInTransaction").Return(nil)
		repo.On("UpdateBalance", uint(1), int64(200), int64(100)).Return(repositories.ErrStaleBalance).Times(3)

		err := NewService(repo, noopCache{}).DebitCoins(ctx, 1, 100, Reference{})
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		repo.AssertExpectations(t)
	})
}

// fakeWalletRepo is an in-memory CAS store for concurrency tests.
type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
	entries []*models.LedgerEntry
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uint]*models.Wallet)}
}

func (f *fakeWalletRepo) Create(w *models.Wallet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wallets[w.UserID]; ok {
		return repositories.ErrDuplicateWallet
	}
	cp := *w
	f.wallets[w.UserID] = &cp
	return nil
}

func (f *fakeWalletRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWalletRepo) UpdateBalance(userID uint, expected, newBalance int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[userID]
	if !ok || w.CoinBalance != expected {
		return repositories.ErrStaleBalance
	}
	w.CoinBalance = newBalance
	return nil
}

func (f *fakeWalletRepo) AppendLedgerEntries(entries []*models.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(f)
}

func TestService_ConcurrentDebits(t *testing.T) {
	ctx := context.Background()
	const balance = 30
	const workers = 50

	repo := newFakeWalletRepo()
	repo.wallets[1] = &models.Wallet{UserID: 1, CoinBalance: balance}
	svc := NewService(repo, noopCache{})

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.DebitCoins(ctx, 1, 1, Reference{})
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			// Losers fail loudly, never silently drop a debit.
			assert.Contains(t, []error{ErrInsufficientBalance, ErrConcurrentUpdate}, err)
		}
	}

	w, err := repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(balance-successes), w.CoinBalance, "no lost updates")
	assert.LessOrEqual(t, successes, balance)
	// Each success produced one balanced two-entry ledger transaction.
	assert.Len(t, repo.entries, successes*2)
}

func TestService_TwoConcurrentDebitsDrainBalanceOnce(t *testing.T) {
	ctx := context.Background()

	repo := newFakeWalletRepo()
	repo.wallets[1] = &models.Wallet{UserID: 1, CoinBalance: 100}
	svc := NewService(repo, noopCache{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.DebitCoins(ctx, 1, 100, Reference{})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 1, successes)

	w, err := repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.CoinBalance)
}
