package repositories

import (
	"errors"
	"fmt"
	"strings"

	"lumora/internal/models"

	"gorm.io/gorm"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrDuplicateWallet = errors.New("wallet already exists")
	// ErrStaleBalance means the conditional balance update matched no row:
	// another writer won the race since our read.
	ErrStaleBalance = errors.New("wallet balance changed concurrently")
)

// WalletRepository defines wallet persistence operations. Balance writes
// go exclusively through UpdateBalance, a compare-and-swap conditional
// update; there is no blind increment path.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByUserID(userID uint) (*models.Wallet, error)

	// UpdateBalance performs `UPDATE ... WHERE user_id = ? AND
	// coin_balance = ?`. Returns ErrStaleBalance when no row matched.
	UpdateBalance(userID uint, expected, newBalance int64) error

	// AppendLedgerEntries writes the balancing ledger rows for a wallet
	// mutation. Inside ExecuteInTransaction they commit atomically with
	// the balance update.
	AppendLedgerEntries(entries []*models.LedgerEntry) error

	ExecuteInTransaction(fn func(WalletRepository) error) error
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	result := r.db.Create(wallet)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateWallet
		}
		return fmt.Errorf("failed to create wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) UpdateBalance(userID uint, expected, newBalance int64) error {
	result := r.db.Model(&models.Wallet{}).
		Where("user_id = ? AND coin_balance = ?", userID, expected).
		Update("coin_balance", newBalance)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleBalance
	}
	return nil
}

func (r *walletRepository) AppendLedgerEntries(entries []*models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.Create(entries).Error; err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", err)
	}
	return nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&walletRepository{db: tx})
	})
}

// isUniqueViolation detects duplicate-key errors without importing the
// driver; "23505" is the Postgres unique_violation SQLSTATE.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "23505")
}
