package wallet

import (
	"context"

	"lumora/internal/models"
)

// Reference links a wallet mutation's ledger transaction back to the
// operation that caused it (top-up, gift, unlock).
type Reference struct {
	Type     string
	ID       string
	Metadata map[string]interface{}
}

// Cache is the wallet read-cache the service consumes. Mutations
// invalidate; reads go cache-first.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

// Number of compare-and-swap attempts before giving up with
// ErrConcurrentUpdate.
const maxBalanceRetries = 3
