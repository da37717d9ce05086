package handlers

import (
	"errors"

	"lumora/internal/services/gifting"
	"lumora/internal/services/velocity"
	"lumora/internal/services/wallet"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type GiftHandler struct {
	giftService gifting.Service
}

func NewGiftHandler(giftService gifting.Service) *GiftHandler {
	return &GiftHandler{
		giftService: giftService,
	}
}

func (h *GiftHandler) ListGifts(c *fiber.Ctx) error {
	gifts, err := h.giftService.ListGifts(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to list gifts")
	}

	return utils.Success(c, fiber.Map{
		"gifts": gifts,
	})
}

func (h *GiftHandler) SendGift(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		CreatorID uint   `json:"creator_id"`
		StoryID   *uint  `json:"story_id"`
		GiftCode  string `json:"gift_code"`
		Quantity  int64  `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	receipt, err := h.giftService.SendGift(c.Context(), gifting.SendGiftRequest{
		SenderID:  claims.UserID,
		CreatorID: input.CreatorID,
		StoryID:   input.StoryID,
		GiftCode:  input.GiftCode,
		Quantity:  input.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, gifting.ErrInvalidGift):
			return utils.BadRequest(c, "Unknown or inactive gift")
		case errors.Is(err, gifting.ErrInvalidQuantity):
			return utils.BadRequest(c, "Quantity must be at least 1")
		case errors.Is(err, gifting.ErrGiftToSelf):
			return utils.BadRequest(c, "Cannot gift yourself")
		case errors.Is(err, velocity.ErrLimitExceeded):
			return utils.TooManyRequests(c, "Spending limit reached, slow down")
		case errors.Is(err, wallet.ErrInsufficientBalance):
			return utils.BadRequest(c, "Insufficient coin balance")
		case errors.Is(err, wallet.ErrConcurrentUpdate):
			return utils.Conflict(c, "Wallet busy, please retry")
		default:
			return utils.InternalError(c, "Gift failed")
		}
	}

	return utils.Success(c, fiber.Map{
		"gift": receipt,
	})
}
