package middleware

import (
	"strings"

	"boq-analysis-backend/config"
	"boq-analysis-backend/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireServiceToken guards mutating routes with a paseto service token
// carried in the Authorization header as a bearer token.
func RequireServiceToken(maker token.Maker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}

		fields := strings.Fields(authHeader)
		if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Invalid authorization header format",
			})
		}

		payload, err := maker.VerifyToken(fields[1])
		if err != nil {
			config.Logger.Debug("Service token verification failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Invalid or expired token",
			})
		}

		c.Locals("service", payload)
		return c.Next()
	}
}
