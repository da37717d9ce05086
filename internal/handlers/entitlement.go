package handlers

import (
	"errors"

	"lumora/internal/models"
	"lumora/internal/services/entitlement"
	"lumora/internal/services/wallet"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type EntitlementHandler struct {
	entitlementService entitlement.Service
}

func NewEntitlementHandler(entitlementService entitlement.Service) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementService: entitlementService,
	}
}

// CheckEntitlement reports whether the caller has unlocked a story.
func (h *EntitlementHandler) CheckEntitlement(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	storyID, err := c.ParamsInt("storyID")
	if err != nil || storyID <= 0 {
		return utils.BadRequest(c, "Invalid story id")
	}

	has, err := h.entitlementService.HasEntitlement(c.Context(), claims.UserID, uint(storyID), models.EntitlementTypePremiumUnlock)
	if err != nil {
		return utils.InternalError(c, "Failed to check entitlement")
	}

	return utils.Success(c, fiber.Map{
		"story_id": storyID,
		"unlocked": has,
	})
}

// Unlock purchases a premium story with coins.
func (h *EntitlementHandler) Unlock(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	storyID, err := c.ParamsInt("storyID")
	if err != nil || storyID <= 0 {
		return utils.BadRequest(c, "Invalid story id")
	}

	// The charge amount is resolved from the platform price list inside
	// the service; the request body is ignored.
	err = h.entitlementService.UnlockStory(c.Context(), claims.UserID, uint(storyID))
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrStoryNotPriced):
			return utils.NotFound(c, "Story is not available for purchase")
		case errors.Is(err, entitlement.ErrAlreadyUnlocked):
			return utils.Conflict(c, "Story already unlocked")
		case errors.Is(err, wallet.ErrInsufficientBalance):
			return utils.BadRequest(c, "Insufficient coin balance")
		case errors.Is(err, wallet.ErrConcurrentUpdate):
			return utils.Conflict(c, "Wallet busy, please retry")
		default:
			return utils.InternalError(c, "Unlock failed")
		}
	}

	return utils.Success(c, fiber.Map{
		"story_id": storyID,
		"unlocked": true,
	})
}

func (h *EntitlementHandler) ListEntitlements(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	entitlements, err := h.entitlementService.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list entitlements")
	}

	return utils.Success(c, fiber.Map{
		"entitlements": entitlements,
	})
}
