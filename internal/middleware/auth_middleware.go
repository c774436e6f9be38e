package middleware

import (
	"strings"

	"go-bookstore-backoffice/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const LocalService = "service"

// RequireServiceToken validates the caller's bearer token and records the calling service.
func RequireServiceToken(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(secret, parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(LocalService, claims.Service)
		return c.Next()
	}
}

// CallerService returns the service recorded by RequireServiceToken, or "" on open routes.
func CallerService(c *fiber.Ctx) string {
	service, _ := c.Locals(LocalService).(string)
	return service
}
