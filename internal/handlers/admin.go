package handlers

import (
	"errors"
	"time"

	"lumora/internal/services/entitlement"
	"lumora/internal/services/ledger"
	"lumora/internal/services/rates"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	engine             ledger.Engine
	rateService        rates.Service
	entitlementService entitlement.Service
}

func NewAdminHandler(engine ledger.Engine, rateService rates.Service, entitlementService entitlement.Service) *AdminHandler {
	return &AdminHandler{
		engine:             engine,
		rateService:        rateService,
		entitlementService: entitlementService,
	}
}

// AuditLedger scans for unbalanced transactions. A non-empty list means
// the double-entry invariant was violated and needs investigation.
func (h *AdminHandler) AuditLedger(c *fiber.Ctx) error {
	unbalanced, err := h.engine.VerifyBalanced(c.Context())
	if err != nil {
		return utils.InternalError(c, "Ledger audit failed")
	}

	return utils.Success(c, fiber.Map{
		"balanced":   len(unbalanced) == 0,
		"unbalanced": unbalanced,
		"checked_at": time.Now().UTC(),
	})
}

// AccountBalance returns the derived balance of any ledger account.
func (h *AdminHandler) AccountBalance(c *fiber.Ctx) error {
	account := c.Query("account")
	if account == "" {
		return utils.BadRequest(c, "account query parameter is required")
	}

	balance, err := h.engine.AccountBalance(c.Context(), account)
	if err != nil {
		return utils.InternalError(c, "Failed to compute balance")
	}

	return utils.Success(c, fiber.Map{
		"account": account,
		"balance": balance,
	})
}

// AccountEntries pages through an account's ledger entries.
func (h *AdminHandler) AccountEntries(c *fiber.Ctx) error {
	account := c.Query("account")
	if account == "" {
		return utils.BadRequest(c, "account query parameter is required")
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	entries, err := h.engine.EntriesByAccount(c.Context(), account, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list entries")
	}

	return utils.Success(c, fiber.Map{
		"account": account,
		"entries": entries,
	})
}

// TransactionEntries returns every leg of one ledger transaction.
func (h *AdminHandler) TransactionEntries(c *fiber.Ctx) error {
	txID := c.Params("txID")
	if txID == "" {
		return utils.BadRequest(c, "transaction id is required")
	}

	entries, err := h.engine.EntriesByTransaction(c.Context(), txID)
	if err != nil {
		return utils.InternalError(c, "Failed to list entries")
	}

	return utils.Success(c, fiber.Map{
		"transaction_id": txID,
		"entries":        entries,
	})
}

// SetRate upserts a conversion rate pair.
func (h *AdminHandler) SetRate(c *fiber.Ctx) error {
	var input struct {
		From string  `json:"from"`
		To   string  `json:"to"`
		Rate float64 `json:"rate"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.From == "" || input.To == "" {
		return utils.BadRequest(c, "from and to are required")
	}
	if input.Rate <= 0 {
		return utils.BadRequest(c, "Rate must be positive")
	}

	if err := h.rateService.SetRate(c.Context(), input.From, input.To, input.Rate); err != nil {
		return utils.InternalError(c, "Failed to set rate")
	}

	return utils.Success(c, fiber.Map{
		"from": input.From,
		"to":   input.To,
		"rate": input.Rate,
	})
}

// SetStoryPrice upserts the platform price for a premium unlock. Unlock
// purchases charge whatever this table says, never a client-sent amount.
func (h *AdminHandler) SetStoryPrice(c *fiber.Ctx) error {
	var input struct {
		StoryID    uint  `json:"story_id"`
		PriceCoins int64 `json:"price_coins"`
		IsActive   *bool `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.StoryID == 0 {
		return utils.BadRequest(c, "story_id is required")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	if err := h.entitlementService.SetStoryPrice(c.Context(), input.StoryID, input.PriceCoins, active); err != nil {
		if errors.Is(err, entitlement.ErrInvalidPrice) {
			return utils.BadRequest(c, "Price must be greater than 0")
		}
		return utils.InternalError(c, "Failed to set story price")
	}

	return utils.Success(c, fiber.Map{
		"story_id":    input.StoryID,
		"price_coins": input.PriceCoins,
		"is_active":   active,
	})
}
