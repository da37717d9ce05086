// Package gifting composes the velocity limiter, wallet store and ledger
// engine into the coin-to-diamond gift pipeline.
package gifting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/ledger"
	"lumora/internal/services/velocity"
	"lumora/internal/services/wallet"

	"github.com/google/uuid"
)

// Service sends gifts from spenders to creators.
type Service interface {
	SendGift(ctx context.Context, req SendGiftRequest) (*models.GiftTransaction, error)
	ListGifts(ctx context.Context) ([]models.Gift, error)
}

type service struct {
	gifts   repositories.GiftRepository
	wallets wallet.Service
	limiter velocity.Limiter
	engine  ledger.Engine
	config  Config
}

// NewService creates the gifting pipeline.
func NewService(
	gifts repositories.GiftRepository,
	wallets wallet.Service,
	limiter velocity.Limiter,
	engine ledger.Engine,
	config Config,
) Service {
	if gifts == nil {
		panic("gift repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if limiter == nil {
		panic("velocity limiter is required")
	}
	if engine == nil {
		panic("ledger engine is required")
	}
	if config.PlatformFeePpm < 0 || config.PlatformFeePpm > PpmDenominator {
		config = DefaultConfig()
	}
	return &service{
		gifts:   gifts,
		wallets: wallets,
		limiter: limiter,
		engine:  engine,
		config:  config,
	}
}

func (s *service) ListGifts(ctx context.Context) ([]models.Gift, error) {
	return s.gifts.ListActive()
}

// SendGift runs the pipeline: catalog lookup, velocity check, wallet
// debit, fee split, conversion ledger transaction, best-effort receipt.
// Failures before the debit leave no financial trace. A ledger failure
// after the debit means sender coins are gone with no conversion record;
// that divergence is alert-logged for reconciliation and surfaced as a
// failed gift.
func (s *service) SendGift(ctx context.Context, req SendGiftRequest) (*models.GiftTransaction, error) {
	if req.Quantity < 1 || req.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if req.SenderID == req.CreatorID {
		return nil, ErrGiftToSelf
	}

	gift, err := s.gifts.GetActiveByCode(req.GiftCode)
	if err != nil {
		if errors.Is(err, repositories.ErrGiftNotFound) {
			return nil, ErrInvalidGift
		}
		return nil, err
	}

	// Both products must be computed overflow-checked before the limiter
	// sees them: a wrapped coin amount would pass every downstream check
	// and a wrapped diamond amount would mint value out of thin air.
	coinsToSpend, err := scaleByQuantity(gift.PriceCoins, req.Quantity)
	if err != nil {
		return nil, err
	}
	if coinsToSpend <= 0 {
		return nil, ErrInvalidGift
	}
	totalDiamonds, err := scaleByQuantity(gift.DiamondValue, req.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.CheckAndConsume(ctx, req.SenderID, coinsToSpend); err != nil {
		return nil, err
	}

	giftTxID := uuid.NewString()
	if err := s.wallets.DebitCoins(ctx, req.SenderID, coinsToSpend, wallet.Reference{
		Type: models.ReferenceGift,
		ID:   giftTxID,
	}); err != nil {
		return nil, err
	}

	creatorShare, platformShare := SplitDiamonds(totalDiamonds, s.config.PlatformFeePpm)

	entries := conversionEntries(req, coinsToSpend, totalDiamonds, creatorShare, platformShare)
	if _, err := s.engine.Record(ctx, entries, giftTxID); err != nil {
		// The sender's coins are debited but the conversion never landed.
		// The ledger is the source of truth, so this must be reconciled
		// by hand; never swallow it.
		log.Printf("ALERT: gift ledger write failed after wallet debit: sender=%d tx=%s coins=%d: %v",
			req.SenderID, giftTxID, coinsToSpend, err)
		return nil, fmt.Errorf("gift failed after debit, flagged for reconciliation: %w", err)
	}

	receipt := &models.GiftTransaction{
		LedgerTxID:     giftTxID,
		GiftID:         gift.ID,
		SenderID:       req.SenderID,
		CreatorID:      req.CreatorID,
		StoryID:        req.StoryID,
		Quantity:       req.Quantity,
		CoinsSpent:     coinsToSpend,
		DiamondsEarned: creatorShare,
		PlatformFeePpm: s.config.PlatformFeePpm,
	}
	if err := s.gifts.CreateTransaction(receipt); err != nil {
		// Best-effort: the ledger already holds the truth.
		log.Printf("gift receipt write failed for tx %s: %v", giftTxID, err)
	}
	return receipt, nil
}

// scaleByQuantity multiplies a per-unit catalog amount by the send
// quantity. Products that would wrap int64 are rejected, and a negative
// catalog row never produces a spendable amount.
func scaleByQuantity(perUnit, quantity int64) (int64, error) {
	if perUnit < 0 {
		return 0, ErrInvalidGift
	}
	if perUnit > 0 && perUnit > math.MaxInt64/quantity {
		return 0, ErrInvalidQuantity
	}
	return perUnit * quantity, nil
}

// conversionEntries moves the spent coins out of the platform's coin
// liability and the earned diamonds into creator earnings and platform
// revenue. Each currency leg balances through its clearing account.
func conversionEntries(req SendGiftRequest, coins, totalDiamonds, creatorShare, platformShare int64) []*models.LedgerEntry {
	senderID := req.SenderID
	entries := []*models.LedgerEntry{
		ledger.Debit(models.AccountPlatformCoinLiability, models.CurrencyCoin, coins),
		ledger.Credit(models.AccountConversionCoin, models.CurrencyCoin, coins),
	}
	if totalDiamonds > 0 {
		entries = append(entries,
			ledger.Debit(models.AccountConversionDiamond, models.CurrencyDiamond, totalDiamonds))
		if creatorShare > 0 {
			e := ledger.Credit(models.CreatorEarningsAccount(req.CreatorID), models.CurrencyDiamond, creatorShare)
			e.UserID = &req.CreatorID
			entries = append(entries, e)
		}
		if platformShare > 0 {
			entries = append(entries,
				ledger.Credit(models.AccountPlatformRevenue, models.CurrencyDiamond, platformShare))
		}
	}

	for _, e := range entries {
		e.ReferenceType = models.ReferenceGift
		if e.UserID == nil {
			e.UserID = &senderID
		}
	}
	return entries
}
