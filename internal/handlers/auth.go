package handlers

import (
	"errors"

	"lumora/internal/models"
	"lumora/internal/services/auth"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// extractUserClaims is a helper to pull validated claims out of the
// request context.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	user, err := h.authService.Register(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return utils.Conflict(c, "Email already registered")
		case errors.Is(err, auth.ErrWeakPassword):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.BadRequest(c, err.Error())
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"user": user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalError(c, "Login failed")
	}

	return utils.Success(c, fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
