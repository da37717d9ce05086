// Package connect is a thin wrapper around the external payout
// processor's connected-account API. Only the opaque account id and the
// payout-readiness flags are persisted; onboarding UI and KYC stay on
// the processor's side.
package connect

import (
	"context"
	"errors"
	"fmt"

	"lumora/internal/models"
	"lumora/internal/repositories"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/account"
	"github.com/stripe/stripe-go/v72/accountlink"
)

// ErrNotOnboarded means the creator has no connected account yet.
var ErrNotOnboarded = errors.New("creator has not started payout onboarding")

// Service manages creator payee accounts with the processor.
type Service interface {
	// OnboardCreator creates a connected account for the creator if one
	// does not exist and returns the stored record.
	OnboardCreator(ctx context.Context, userID uint, email string) (*models.ConnectedAccount, error)

	// OnboardingLink returns a fresh hosted-onboarding URL.
	OnboardingLink(ctx context.Context, userID uint, refreshURL, returnURL string) (string, error)

	// RefreshStatus pulls the current readiness flags from the processor
	// and persists them.
	RefreshStatus(ctx context.Context, userID uint) (*models.ConnectedAccount, error)

	// PayoutReady reports whether the processor will accept payouts for
	// this creator.
	PayoutReady(ctx context.Context, userID uint) (bool, error)
}

type service struct {
	repo repositories.ConnectedAccountRepository
}

// NewService creates the connected-account service. The Stripe API key
// must be set by the caller (stripe.Key) before use.
func NewService(repo repositories.ConnectedAccountRepository) Service {
	if repo == nil {
		panic("connected account repository is required")
	}
	return &service{repo: repo}
}

func (s *service) OnboardCreator(ctx context.Context, userID uint, email string) (*models.ConnectedAccount, error) {
	existing, err := s.repo.GetByUserID(userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrConnectedAccountNotFound) {
		return nil, err
	}

	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	acct, err := account.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create connected account: %w", err)
	}

	record := &models.ConnectedAccount{
		UserID:           userID,
		Provider:         "stripe",
		AccountID:        acct.ID,
		DetailsSubmitted: acct.DetailsSubmitted,
		PayoutsEnabled:   acct.PayoutsEnabled,
	}
	if err := s.repo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) OnboardingLink(ctx context.Context, userID uint, refreshURL, returnURL string) (string, error) {
	record, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectedAccountNotFound) {
			return "", ErrNotOnboarded
		}
		return "", err
	}

	link, err := accountlink.New(&stripe.AccountLinkParams{
		Account:    stripe.String(record.AccountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create onboarding link: %w", err)
	}
	return link.URL, nil
}

func (s *service) RefreshStatus(ctx context.Context, userID uint) (*models.ConnectedAccount, error) {
	record, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectedAccountNotFound) {
			return nil, ErrNotOnboarded
		}
		return nil, err
	}

	acct, err := account.GetByID(record.AccountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connected account: %w", err)
	}

	record.DetailsSubmitted = acct.DetailsSubmitted
	record.PayoutsEnabled = acct.PayoutsEnabled
	if acct.Requirements != nil {
		record.RequirementsDue = models.NewJSON(map[string]interface{}{
			"currently_due": acct.Requirements.CurrentlyDue,
		})
	}
	if err := s.repo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) PayoutReady(ctx context.Context, userID uint) (bool, error) {
	record, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectedAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.PayoutsEnabled, nil
}
