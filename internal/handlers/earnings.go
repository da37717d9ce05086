package handlers

import (
	"errors"

	"lumora/internal/services/payout"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type EarningsHandler struct {
	payoutService payout.Service
}

func NewEarningsHandler(payoutService payout.Service) *EarningsHandler {
	return &EarningsHandler{
		payoutService: payoutService,
	}
}

func (h *EarningsHandler) GetSummary(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	summary, err := h.payoutService.GetSummary(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to get earnings summary")
	}

	return utils.Success(c, fiber.Map{
		"summary": summary,
	})
}

func (h *EarningsHandler) RequestPayout(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p, err := h.payoutService.RequestPayout(c.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, payout.ErrNoEarnings):
			return utils.BadRequest(c, "No earnings to pay out")
		case errors.Is(err, payout.ErrBelowMinimum):
			return utils.BadRequest(c, "Earnings below the payout minimum")
		case errors.Is(err, payout.ErrPayoutInProgress):
			return utils.Conflict(c, "A payout request is already in progress")
		case errors.Is(err, payout.ErrPayoutNotReady):
			return utils.BadRequest(c, "Complete payout onboarding first")
		default:
			return utils.InternalError(c, "Payout request failed")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"payout": p,
	})
}
