package ledger

import (
	"context"
	"fmt"

	"lumora/internal/models"
	"lumora/internal/repositories"

	"github.com/google/uuid"
)

// Engine records balanced double-entry transactions and derives account
// balances from them.
type Engine interface {
	// Record validates and appends entries as one atomic transaction,
	// returning its id. Pass txID "" to have one generated.
	Record(ctx context.Context, entries []*models.LedgerEntry, txID string) (string, error)

	// AccountBalance is sum(credit) - sum(debit) for the account.
	AccountBalance(ctx context.Context, account string) (int64, error)

	EntriesByAccount(ctx context.Context, account string, limit, offset int) ([]models.LedgerEntry, error)
	EntriesByTransaction(ctx context.Context, txID string) ([]models.LedgerEntry, error)

	// VerifyBalanced sweeps the whole store and returns the ids of any
	// transactions whose debits and credits diverge. An empty slice means
	// the aggregate balance invariant holds.
	VerifyBalanced(ctx context.Context) ([]string, error)
}

type engine struct {
	repo repositories.LedgerRepository
}

// NewEngine creates the ledger engine.
func NewEngine(repo repositories.LedgerRepository) Engine {
	if repo == nil {
		panic("ledger repository is required")
	}
	return &engine{repo: repo}
}

// Validate checks the double-entry preconditions without writing
// anything. Exported so the wallet store can vet its balancing entries
// before committing them alongside a balance update.
func Validate(entries []*models.LedgerEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a transaction needs at least 2 entries, got %d", ErrInvalidEntry, len(entries))
	}

	perCurrency := make(map[string][2]int64, 2)
	for i, e := range entries {
		if e == nil {
			return fmt.Errorf("%w: entry %d is nil", ErrInvalidEntry, i)
		}
		if e.Account == "" {
			return fmt.Errorf("%w: entry %d has no account", ErrInvalidEntry, i)
		}
		if e.Currency == "" {
			return fmt.Errorf("%w: entry %d has no currency", ErrInvalidEntry, i)
		}
		if e.Debit < 0 || e.Credit < 0 {
			return fmt.Errorf("%w: entry %d has a negative amount", ErrInvalidEntry, i)
		}
		if (e.Debit == 0) == (e.Credit == 0) {
			return fmt.Errorf("%w: entry %d must set exactly one of debit/credit", ErrInvalidEntry, i)
		}
		sums := perCurrency[e.Currency]
		sums[0] += e.Debit
		sums[1] += e.Credit
		perCurrency[e.Currency] = sums
	}

	for currency, sums := range perCurrency {
		if sums[0] != sums[1] {
			return fmt.Errorf("%w: %s debits %d != credits %d", ErrImbalance, currency, sums[0], sums[1])
		}
	}
	return nil
}

func (e *engine) Record(ctx context.Context, entries []*models.LedgerEntry, txID string) (string, error) {
	if err := Validate(entries); err != nil {
		return "", err
	}

	if txID == "" {
		txID = uuid.NewString()
	}
	for _, entry := range entries {
		entry.TransactionID = txID
	}

	if err := e.repo.AppendBatch(ctx, entries); err != nil {
		return "", fmt.Errorf("failed to record ledger transaction %s: %w", txID, err)
	}
	return txID, nil
}

func (e *engine) AccountBalance(ctx context.Context, account string) (int64, error) {
	return e.repo.AccountBalance(ctx, account)
}

func (e *engine) EntriesByAccount(ctx context.Context, account string, limit, offset int) ([]models.LedgerEntry, error) {
	return e.repo.EntriesByAccount(ctx, account, limit, offset)
}

func (e *engine) EntriesByTransaction(ctx context.Context, txID string) ([]models.LedgerEntry, error) {
	return e.repo.EntriesByTransactionID(ctx, txID)
}

func (e *engine) VerifyBalanced(ctx context.Context) ([]string, error) {
	sums, err := e.repo.TransactionSums(ctx)
	if err != nil {
		return nil, err
	}

	var unbalanced []string
	seen := make(map[string]bool)
	for _, s := range sums {
		if s.TotalDebit != s.TotalCredit && !seen[s.TransactionID] {
			seen[s.TransactionID] = true
			unbalanced = append(unbalanced, s.TransactionID)
		}
	}
	return unbalanced, nil
}

// Debit builds a debit-side entry.
func Debit(account, currency string, amount int64) *models.LedgerEntry {
	return &models.LedgerEntry{Account: account, Currency: currency, Debit: amount}
}

// Credit builds a credit-side entry.
func Credit(account, currency string, amount int64) *models.LedgerEntry {
	return &models.LedgerEntry{Account: account, Currency: currency, Credit: amount}
}
