package repositories

import (
	"context"
	"fmt"

	"lumora/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository persists double-entry ledger batches. Entries are
// append-only; the only write path is AppendBatch, which commits all rows
// of one transaction atomically.
type LedgerRepository interface {
	AppendBatch(ctx context.Context, entries []*models.LedgerEntry) error
	AccountBalance(ctx context.Context, account string) (int64, error)
	EntriesByAccount(ctx context.Context, account string, limit, offset int) ([]models.LedgerEntry, error)
	EntriesByTransactionID(ctx context.Context, txID string) ([]models.LedgerEntry, error)

	// TransactionSums returns per-transaction debit/credit totals, used by
	// the aggregate audit sweep.
	TransactionSums(ctx context.Context) ([]TransactionSum, error)
}

// TransactionSum is the aggregated debit/credit total for one ledger
// transaction in one currency.
type TransactionSum struct {
	TransactionID string
	Currency      string
	TotalDebit    int64
	TotalCredit   int64
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) AppendBatch(ctx context.Context, entries []*models.LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entries).Error; err != nil {
			return fmt.Errorf("failed to append ledger batch: %w", err)
		}
		return nil
	})
}

func (r *ledgerRepository) AccountBalance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("account = ?", account).
		Select("COALESCE(SUM(credit) - SUM(debit), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum account %s: %w", account, err)
	}
	return balance, nil
}

func (r *ledgerRepository) EntriesByAccount(ctx context.Context, account string, limit, offset int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for %s: %w", account, err)
	}
	return entries, nil
}

func (r *ledgerRepository) EntriesByTransactionID(ctx context.Context, txID string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", txID).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", txID, err)
	}
	return entries, nil
}

func (r *ledgerRepository) TransactionSums(ctx context.Context) ([]TransactionSum, error) {
	var sums []TransactionSum
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("transaction_id, currency, SUM(debit) AS total_debit, SUM(credit) AS total_credit").
		Group("transaction_id, currency").
		Scan(&sums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	return sums, nil
}
