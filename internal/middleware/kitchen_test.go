package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/utils"
)

func newStaffApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(StaffAuth(&config.Config{JWTSecret: secret}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		staffID, ok := GetCurrentStaffID(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "no staff id in context")
		}
		return c.SendString(staffID.String())
	})
	return app
}

func TestStaffAuthCarriesStaffID(t *testing.T) {
	const secret = "kitchen-secret"
	staffID := uuid.New()

	token, err := utils.GenerateStaffToken(secret, staffID, "Rustam", time.Hour)
	require.NoError(t, err)

	app := newStaffApp(secret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, staffID.String(), string(body))
}

func TestStaffAuthRejects(t *testing.T) {
	const secret = "kitchen-secret"
	staffID := uuid.New()

	goodToken, err := utils.GenerateStaffToken(secret, staffID, "Rustam", time.Hour)
	require.NoError(t, err)
	foreignToken, err := utils.GenerateStaffToken("other-secret", staffID, "Rustam", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic " + goodToken},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreignToken},
	}

	app := newStaffApp(secret)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}
