// Package middleware provides HTTP middleware for the fiber application,
// covering JWT authentication and permission checks.
package middleware

import (
	"log"
	"strings"

	"lumora/internal/models"
	"lumora/internal/services/auth"
	"lumora/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer tokens and stores the user claims in the
// request context under "claims" and the user id under "userID".
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	// Tokens outlive account deletion; reject claims for users that no
	// longer exist.
	if _, err := m.authService.GetUserByID(claims.UserID); err != nil {
		log.Printf("user %d from token not found", claims.UserID)
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request carries admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	if claims.Role != "admin" {
		log.Printf("admin access denied for user %d with role %s", claims.UserID, claims.Role)
		return utils.Forbidden(c, "insufficient permissions")
	}

	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
// Admins pass every check.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return utils.Unauthorized(c, "unauthorized")
		}

		if claims.Role == "admin" {
			return c.Next()
		}

		if claims.HasPermission(permission) {
			return c.Next()
		}

		return utils.Forbidden(c, "insufficient permissions")
	}
}
