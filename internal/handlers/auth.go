package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/utils"
)

// AuthHandler issues admin session tokens.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLogin compares the submitted password against the configured bcrypt
// hash and returns a stateless HMAC session token.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "password is required")
	}

	if !utils.CheckPassword(h.cfg.AdminPasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid password")
	}

	token := utils.MintSessionToken(h.cfg.SessionSecret, time.Now())

	c.Cookie(&fiber.Cookie{
		Name:     "admin_session",
		Value:    token,
		Expires:  time.Now().Add(h.cfg.AdminSessionTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})

	return c.JSON(fiber.Map{"success": true, "token": token})
}
