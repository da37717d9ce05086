// Package payout aggregates a creator's ledger-derived diamond earnings
// and turns them into payout requests against the external processor.
package payout

import (
	"context"
	"fmt"
	"time"

	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/ledger"
	"lumora/internal/services/rates"

	"github.com/google/uuid"
)

// Summary is a creator's earnings view.
type Summary struct {
	CreatorID         uint            `json:"creator_id"`
	DiamondBalance    int64           `json:"diamond_balance"`
	EstimatedUsdCents int64           `json:"estimated_usd_cents"`
	Payouts           []models.Payout `json:"payouts"`
}

// Config holds payout parameters.
type Config struct {
	// MinimumCents is the smallest payout the platform will raise.
	MinimumCents int64
	// LockTTL bounds how long a crashed request can hold a creator's
	// payout lock.
	LockTTL time.Duration
}

// DefaultConfig matches platform policy: $1.00 minimum.
func DefaultConfig() Config {
	return Config{MinimumCents: 100, LockTTL: 30 * time.Second}
}

// Locker serializes payout requests per creator.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// ReadinessChecker reports whether the processor will accept payouts for
// a creator. Satisfied by the connect service.
type ReadinessChecker interface {
	PayoutReady(ctx context.Context, userID uint) (bool, error)
}

// Service serves earnings summaries and payout requests.
type Service interface {
	GetSummary(ctx context.Context, creatorID uint) (*Summary, error)
	RequestPayout(ctx context.Context, creatorID uint) (*models.Payout, error)
}

type service struct {
	repo      repositories.PayoutRepository
	engine    ledger.Engine
	rates     rates.Service
	locker    Locker
	readiness ReadinessChecker
	config    Config
}

// NewService creates the earnings and payout service.
func NewService(
	repo repositories.PayoutRepository,
	engine ledger.Engine,
	rateSvc rates.Service,
	locker Locker,
	readiness ReadinessChecker,
	config Config,
) Service {
	if repo == nil {
		panic("payout repository is required")
	}
	if engine == nil {
		panic("ledger engine is required")
	}
	if rateSvc == nil {
		panic("rates service is required")
	}
	if locker == nil {
		panic("locker is required")
	}
	if readiness == nil {
		panic("readiness checker is required")
	}
	if config.MinimumCents <= 0 {
		config = DefaultConfig()
	}
	return &service{
		repo:      repo,
		engine:    engine,
		rates:     rateSvc,
		locker:    locker,
		readiness: readiness,
		config:    config,
	}
}

func (s *service) GetSummary(ctx context.Context, creatorID uint) (*Summary, error) {
	diamonds, err := s.engine.AccountBalance(ctx, models.CreatorEarningsAccount(creatorID))
	if err != nil {
		return nil, err
	}
	if diamonds < 0 {
		// Display only; the raw balance still governs payouts.
		diamonds = 0
	}

	cents, err := s.rates.DiamondsToUsdCents(ctx, diamonds)
	if err != nil {
		return nil, err
	}

	payouts, err := s.repo.ListByCreator(creatorID, 50, 0)
	if err != nil {
		return nil, err
	}

	return &Summary{
		CreatorID:         creatorID,
		DiamondBalance:    diamonds,
		EstimatedUsdCents: cents,
		Payouts:           payouts,
	}, nil
}

// RequestPayout converts the creator's whole diamond balance into a
// pending payout. The per-creator lock plus the shared database
// transaction for the payout row and the earnings-zeroing ledger entries
// make a concurrent double payout impossible: the second request either
// fails the lock or recomputes a zero balance.
func (s *service) RequestPayout(ctx context.Context, creatorID uint) (*models.Payout, error) {
	lockKey := fmt.Sprintf("payout:lock:%d", creatorID)
	ok, err := s.locker.AcquireLock(ctx, lockKey, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("payout lock unavailable: %w", err)
	}
	if !ok {
		return nil, ErrPayoutInProgress
	}
	defer func() {
		_ = s.locker.ReleaseLock(ctx, lockKey)
	}()

	ready, err := s.readiness.PayoutReady(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, ErrPayoutNotReady
	}

	diamonds, err := s.engine.AccountBalance(ctx, models.CreatorEarningsAccount(creatorID))
	if err != nil {
		return nil, err
	}
	if diamonds <= 0 {
		return nil, ErrNoEarnings
	}

	cents, err := s.rates.DiamondsToUsdCents(ctx, diamonds)
	if err != nil {
		return nil, err
	}
	if cents < s.config.MinimumCents {
		return nil, ErrBelowMinimum
	}

	txID := uuid.NewString()
	entries := settlementEntries(creatorID, diamonds, cents, txID)
	if err := ledger.Validate(entries); err != nil {
		return nil, err
	}

	p := &models.Payout{
		CreatorID:   creatorID,
		Provider:    "stripe",
		Status:      models.PayoutStatusPendingReview,
		AmountCents: cents,
		Currency:    models.CurrencyUSD,
		Diamonds:    diamonds,
		LedgerTxID:  txID,
	}

	// The payout row and the ledger transaction that zeroes the earnings
	// commit together or not at all.
	err = s.repo.ExecuteInTransaction(func(tx repositories.PayoutRepository) error {
		if err := tx.Create(p); err != nil {
			return err
		}
		return tx.AppendLedgerEntries(entries)
	})
	if err != nil {
		return nil, fmt.Errorf("payout request failed: %w", err)
	}
	return p, nil
}

// settlementEntries moves the full diamond balance out of creator
// earnings and the fiat value into the creator's payable account, each
// leg balanced through its conversion clearing account.
func settlementEntries(creatorID uint, diamonds, cents int64, txID string) []*models.LedgerEntry {
	entries := []*models.LedgerEntry{
		ledger.Debit(models.CreatorEarningsAccount(creatorID), models.CurrencyDiamond, diamonds),
		ledger.Credit(models.AccountConversionDiamond, models.CurrencyDiamond, diamonds),
		ledger.Debit(models.AccountConversionUSD, models.CurrencyUSD, cents),
		ledger.Credit(models.CreatorPayoutPayableAccount(creatorID), models.CurrencyUSD, cents),
	}
	for _, e := range entries {
		uid := creatorID
		e.TransactionID = txID
		e.UserID = &uid
		e.ReferenceType = models.ReferencePayout
	}
	return entries
}
