package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/utils"
)

const adminSessionCookie = "admin_session"

// AdminAuth validates the stateless admin session token on every call. The
// token is read from the X-Admin-Token header or the admin_session cookie.
func AdminAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Admin-Token")
		if token == "" {
			token = c.Cookies(adminSessionCookie)
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing admin session token")
		}

		expires, err := utils.ValidateSessionToken(cfg.SessionSecret, token, cfg.AdminSessionTTL, time.Now())
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "session expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
		}

		c.Locals("adminSessionExpires", expires)
		return c.Next()
	}
}
