package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/utils"
)

const staffContextKey = "currentStaffID"

// StaffAuth validates kitchen staff JWTs and loads the staff ID into context.
func StaffAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		staffID, err := utils.ParseStaffToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(staffContextKey, staffID)
		return c.Next()
	}
}

// GetCurrentStaffID extracts the authenticated staff ID from context.
func GetCurrentStaffID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(staffContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
