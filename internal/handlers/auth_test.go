package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/utils"
)

func newAuthApp(t *testing.T, password string) (*fiber.App, *config.Config) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	cfg := &config.Config{
		SessionSecret:     "secret",
		AdminPasswordHash: hash,
		AdminSessionTTL:   8 * time.Hour,
	}

	app := fiber.New()
	app.Post("/api/admin/login", NewAuthHandler(cfg).AdminLogin)
	return app, cfg
}

func TestAdminLoginSuccess(t *testing.T) {
	app, cfg := newAuthApp(t, "hummus-123")

	resp, decoded := postJSON(t, app, "/api/admin/login", map[string]any{"password": "hummus-123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, decoded["success"])
	token, _ := decoded["token"].(string)
	require.NotEmpty(t, token)

	// The issued token validates against the shared session verifier.
	_, err := utils.ValidateSessionToken(cfg.SessionSecret, token, cfg.AdminSessionTTL, time.Now())
	assert.NoError(t, err)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	app, _ := newAuthApp(t, "hummus-123")

	resp, _ := postJSON(t, app, "/api/admin/login", map[string]any{"password": "falafel"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminLoginMissingPassword(t *testing.T) {
	app, _ := newAuthApp(t, "hummus-123")

	resp, _ := postJSON(t, app, "/api/admin/login", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
