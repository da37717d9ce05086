package handlers

import (
	"errors"
	"fmt"

	"lumora/internal/models"
	"lumora/internal/services/wallet"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to get wallet")
	}

	return utils.Success(c, fiber.Map{
		"wallet": w,
	})
}

// TopUpWallet credits purchased coins. The store transaction id is
// recorded on the ledger entries so a purchase can be traced end to end.
func (h *WalletHandler) TopUpWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Coins              int64  `json:"coins"`
		StoreTransactionID string `json:"store_transaction_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Coins <= 0 {
		return utils.BadRequest(c, "Coins must be greater than 0")
	}

	refID := input.StoreTransactionID
	if refID == "" {
		refID = uuid.NewString()
	}

	err = h.walletService.CreditCoins(c.Context(), claims.UserID, input.Coins, wallet.Reference{
		Type: models.ReferenceWalletTopup,
		ID:   refID,
		Metadata: map[string]interface{}{
			"source": "store",
		},
	})
	if err != nil {
		if errors.Is(err, wallet.ErrConcurrentUpdate) {
			return utils.Conflict(c, "Wallet busy, please retry")
		}
		return utils.InternalError(c, "Top up failed")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to get updated wallet")
	}

	return utils.Success(c, fiber.Map{
		"message":     fmt.Sprintf("Credited %d coins", input.Coins),
		"new_balance": w.CoinBalance,
	})
}
