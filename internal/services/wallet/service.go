package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/ledger"

	"github.com/google/uuid"
)

// Service is the wallet store: lazy creation plus concurrency-safe coin
// credits and debits.
type Service interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CreditCoins(ctx context.Context, userID uint, amount int64, ref Reference) error
	DebitCoins(ctx context.Context, userID uint, amount int64, ref Reference) error
}

type service struct {
	repo  repositories.WalletRepository
	cache Cache
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, cache Cache) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error) {
	w, err := s.repo.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	w = &models.Wallet{UserID: userID}
	if err := s.repo.Create(w); err != nil {
		// A concurrent create winning the race is success: re-read.
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return s.repo.GetByUserID(userID)
		}
		return nil, err
	}
	return w, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if w, err := s.cache.GetWallet(ctx, userID); err == nil {
		return w, nil
	}

	w, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.CacheWallet(ctx, w); err != nil {
		// Cache trouble never fails a read.
		log.Printf("failed to cache wallet %d: %v", userID, err)
	}
	return w, nil
}

func (s *service) CreditCoins(ctx context.Context, userID uint, amount int64, ref Reference) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.mutate(ctx, userID, amount, ref)
}

func (s *service) DebitCoins(ctx context.Context, userID uint, amount int64, ref Reference) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.mutate(ctx, userID, -amount, ref)
}

// mutate applies a signed delta via compare-and-swap. Each attempt
// re-reads the balance, issues the conditional update, and appends the
// balancing ledger entries in the same database transaction. A lost race
// retries; anything else is final.
func (s *service) mutate(ctx context.Context, userID uint, delta int64, ref Reference) error {
	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		w, err := s.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		newBalance := w.CoinBalance + delta
		if newBalance < 0 {
			return ErrInsufficientBalance
		}

		entries := balancingEntries(userID, delta, ref)
		if err := ledger.Validate(entries); err != nil {
			return err
		}

		expected := w.CoinBalance
		err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
			if err := tx.UpdateBalance(userID, expected, newBalance); err != nil {
				return err
			}
			return tx.AppendLedgerEntries(entries)
		})
		if errors.Is(err, repositories.ErrStaleBalance) {
			continue
		}
		if err != nil {
			return fmt.Errorf("wallet mutation failed for user %d: %w", userID, err)
		}

		if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
			log.Printf("failed to invalidate wallet cache %d: %v", userID, err)
		}
		return nil
	}
	return ErrConcurrentUpdate
}

// balancingEntries builds the two-sided ledger record mirroring a wallet
// mutation: the user's coin account moves one way, the platform's coin
// liability the other.
func balancingEntries(userID uint, delta int64, ref Reference) []*models.LedgerEntry {
	userAccount := models.UserCoinWalletAccount(userID)
	txID := uuid.NewString()

	var entries []*models.LedgerEntry
	if delta > 0 {
		entries = []*models.LedgerEntry{
			ledger.Debit(models.AccountPlatformCoinLiability, models.CurrencyCoin, delta),
			ledger.Credit(userAccount, models.CurrencyCoin, delta),
		}
	} else {
		entries = []*models.LedgerEntry{
			ledger.Debit(userAccount, models.CurrencyCoin, -delta),
			ledger.Credit(models.AccountPlatformCoinLiability, models.CurrencyCoin, -delta),
		}
	}

	for _, e := range entries {
		uid := userID
		e.TransactionID = txID
		e.UserID = &uid
		e.ReferenceType = ref.Type
		e.ReferenceID = ref.ID
		if ref.Metadata != nil {
			e.Metadata = models.NewJSON(ref.Metadata)
		}
	}
	return entries
}
