package handlers

import (
	"errors"

	"lumora/internal/services/connect"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ConnectHandler struct {
	connectService connect.Service
}

func NewConnectHandler(connectService connect.Service) *ConnectHandler {
	return &ConnectHandler{
		connectService: connectService,
	}
}

// Onboard creates a connected account for the creator and returns a
// hosted onboarding URL.
func (h *ConnectHandler) Onboard(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		RefreshURL string `json:"refresh_url"`
		ReturnURL  string `json:"return_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.RefreshURL == "" || input.ReturnURL == "" {
		return utils.BadRequest(c, "refresh_url and return_url are required")
	}

	account, err := h.connectService.OnboardCreator(c.Context(), claims.UserID, claims.Email)
	if err != nil {
		return utils.InternalError(c, "Failed to create connected account")
	}

	url, err := h.connectService.OnboardingLink(c.Context(), claims.UserID, input.RefreshURL, input.ReturnURL)
	if err != nil {
		return utils.InternalError(c, "Failed to create onboarding link")
	}

	return utils.Success(c, fiber.Map{
		"account_id":     account.AccountID,
		"onboarding_url": url,
	})
}

// Status refreshes and returns the creator's payout readiness.
func (h *ConnectHandler) Status(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	account, err := h.connectService.RefreshStatus(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, connect.ErrNotOnboarded) {
			return utils.NotFound(c, "No connected account")
		}
		return utils.InternalError(c, "Failed to refresh account status")
	}

	return utils.Success(c, fiber.Map{
		"account_id":       account.AccountID,
		"details_complete": account.DetailsSubmitted,
		"payouts_enabled":  account.PayoutsEnabled,
		"requirements_due": account.RequirementsDue,
	})
}
