package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntentSuccess(t *testing.T) {
	var gotBody createIntentRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payment_intent", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":           "pi_123",
			"status":       "requires_payment_instrument",
			"amount":       5500,
			"redirect_url": "https://pay.ziina.com/pi_123",
		})
	}))
	defer srv.Close()

	svc := NewZiinaService(srv.URL, "secret-key", true)
	intent, gerr := svc.CreatePaymentIntent(5500, "Sahara order ORD-1", "https://s.example/ok", "https://s.example/cancel")
	require.Nil(t, gerr)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, int64(5500), gotBody.Amount)
	assert.Equal(t, "AED", gotBody.CurrencyCode)
	assert.True(t, gotBody.Test)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "https://pay.ziina.com/pi_123", intent.RedirectURL)
	assert.False(t, intent.Completed())
	assert.False(t, intent.Terminal())
}

func TestCreatePaymentIntentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    "insufficient_funds",
				"message": "The card has insufficient funds",
			},
		})
	}))
	defer srv.Close()

	svc := NewZiinaService(srv.URL, "secret-key", false)
	intent, gerr := svc.CreatePaymentIntent(100, "", "https://s.example/ok", "https://s.example/cancel")

	assert.Nil(t, intent)
	require.NotNil(t, gerr)
	assert.Equal(t, "ziina", gerr.Provider)
	assert.Equal(t, http.StatusPaymentRequired, gerr.Status)
	assert.Equal(t, "insufficient_funds", gerr.Code)
	assert.Equal(t, "The card has insufficient funds", gerr.Message)
}

func TestCreatePaymentIntentFlatErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "invalid_amount",
			"message": "amount must be at least 200 fils",
		})
	}))
	defer srv.Close()

	svc := NewZiinaService(srv.URL, "k", false)
	_, gerr := svc.CreatePaymentIntent(1, "", "https://s.example/ok", "https://s.example/cancel")

	require.NotNil(t, gerr)
	assert.Equal(t, "invalid_amount", gerr.Code)
	assert.Equal(t, "amount must be at least 200 fils", gerr.Message)
}

func TestGetPaymentIntentStatuses(t *testing.T) {
	status := "pending"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment_intent/pi_42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": "pi_42", "status": status})
	}))
	defer srv.Close()

	svc := NewZiinaService(srv.URL, "k", false)

	intent, gerr := svc.GetPaymentIntent("pi_42")
	require.Nil(t, gerr)
	assert.False(t, intent.Completed())
	assert.False(t, intent.Terminal())

	status = "completed"
	intent, gerr = svc.GetPaymentIntent("pi_42")
	require.Nil(t, gerr)
	assert.True(t, intent.Completed())

	status = "failed"
	intent, gerr = svc.GetPaymentIntent("pi_42")
	require.Nil(t, gerr)
	assert.True(t, intent.Terminal())
}

func TestGatewayErrorNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	svc := NewZiinaService(srv.URL, "k", false)
	_, gerr := svc.GetPaymentIntent("pi_x")

	require.NotNil(t, gerr)
	assert.Equal(t, http.StatusBadGateway, gerr.Status)
	assert.Equal(t, "upstream unavailable", gerr.Message)
}

func TestGatewayUnreachable(t *testing.T) {
	svc := NewZiinaService("http://127.0.0.1:1", "k", false)
	_, gerr := svc.GetPaymentIntent("pi_x")

	require.NotNil(t, gerr)
	assert.Equal(t, "ziina", gerr.Provider)
	assert.Zero(t, gerr.Status)
	assert.NotEmpty(t, gerr.Message)
}
