// Package entitlement manages premium-content unlock rights.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/wallet"
)

var (
	// ErrAlreadyUnlocked rejects a purchase for content the user already
	// has, so an accidental double-click cannot double-charge.
	ErrAlreadyUnlocked = errors.New("content already unlocked")

	// ErrStoryNotPriced means the story has no active row in the price
	// list, so it cannot be purchased.
	ErrStoryNotPriced = errors.New("story is not available for purchase")

	ErrInvalidPrice = errors.New("price must be greater than zero")
)

// Service grants and checks unlock rights.
type Service interface {
	HasEntitlement(ctx context.Context, userID, storyID uint, entitlementType string) (bool, error)
	Grant(ctx context.Context, userID, storyID uint, entitlementType, source string, expiresAt *time.Time) error

	// UnlockStory purchases a premium unlock at the platform's listed
	// price. The price is resolved server-side from the story price
	// table; callers never supply an amount.
	UnlockStory(ctx context.Context, userID, storyID uint) error

	PurchaseWithCoins(ctx context.Context, userID, storyID uint, priceCoins int64) error
	SetStoryPrice(ctx context.Context, storyID uint, priceCoins int64, active bool) error
	ListByUser(ctx context.Context, userID uint) ([]models.Entitlement, error)
}

type service struct {
	repo    repositories.EntitlementRepository
	prices  repositories.StoryPriceRepository
	wallets wallet.Service
}

// NewService creates the entitlements service.
func NewService(repo repositories.EntitlementRepository, prices repositories.StoryPriceRepository, wallets wallet.Service) Service {
	if repo == nil {
		panic("entitlement repository is required")
	}
	if prices == nil {
		panic("story price repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	return &service{repo: repo, prices: prices, wallets: wallets}
}

func (s *service) HasEntitlement(ctx context.Context, userID, storyID uint, entitlementType string) (bool, error) {
	if entitlementType == "" {
		entitlementType = models.EntitlementTypePremiumUnlock
	}
	e, err := s.repo.Get(userID, storyID, entitlementType)
	if err != nil {
		if errors.Is(err, repositories.ErrEntitlementNotFound) {
			return false, nil
		}
		return false, err
	}
	return !e.Expired(time.Now()), nil
}

func (s *service) Grant(ctx context.Context, userID, storyID uint, entitlementType, source string, expiresAt *time.Time) error {
	if entitlementType == "" {
		entitlementType = models.EntitlementTypePremiumUnlock
	}
	return s.repo.Upsert(&models.Entitlement{
		UserID:          userID,
		StoryID:         storyID,
		EntitlementType: entitlementType,
		Source:          source,
		ExpiresAt:       expiresAt,
	})
}

func (s *service) UnlockStory(ctx context.Context, userID, storyID uint) error {
	price, err := s.prices.GetActive(storyID)
	if err != nil {
		if errors.Is(err, repositories.ErrStoryPriceNotFound) {
			return ErrStoryNotPriced
		}
		return fmt.Errorf("resolving story price: %w", err)
	}
	return s.PurchaseWithCoins(ctx, userID, storyID, price.PriceCoins)
}

func (s *service) SetStoryPrice(ctx context.Context, storyID uint, priceCoins int64, active bool) error {
	if priceCoins <= 0 {
		return ErrInvalidPrice
	}
	return s.prices.Upsert(&models.StoryPrice{
		StoryID:    storyID,
		PriceCoins: priceCoins,
		IsActive:   active,
	})
}

// PurchaseWithCoins debits the price and grants the unlock. The debit and
// grant are two steps; a failed grant after a successful debit is logged
// by the caller path through the returned error. Idempotency is the
// caller's responsibility beyond the already-unlocked guard.
func (s *service) PurchaseWithCoins(ctx context.Context, userID, storyID uint, priceCoins int64) error {
	has, err := s.HasEntitlement(ctx, userID, storyID, models.EntitlementTypePremiumUnlock)
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyUnlocked
	}

	ref := wallet.Reference{
		Type: models.ReferenceEntitlement,
		ID:   fmt.Sprintf("story:%d", storyID),
	}
	if err := s.wallets.DebitCoins(ctx, userID, priceCoins, ref); err != nil {
		return err
	}

	return s.Grant(ctx, userID, storyID, models.EntitlementTypePremiumUnlock, models.EntitlementSourcePurchase, nil)
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.Entitlement, error) {
	return s.repo.ListByUser(userID)
}
