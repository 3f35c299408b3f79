package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sahara/internal/models"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderNumber:  "ORD-000000042",
		CustomerName: "Amel",
		PhoneNumber:  "+971500000000",
		OrderType:    models.OrderTakeaway,
		TotalAmount:  55,
		Items: []models.OrderItem{
			{Name: "Shawarma", Quantity: 2, UnitPrice: 20, LineTotal: 40},
			{Name: "Fresh Juice", Quantity: 1, UnitPrice: 15, LineTotal: 15},
		},
	}
}

func TestCheckoutStartedPostsWebhook(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "", "")
	require.NoError(t, n.CheckoutStarted(sampleOrder()))

	assert.Equal(t, "checkout.started", got.Event)
	assert.Equal(t, "ORD-000000042", got.OrderNumber)
	assert.Equal(t, 3, got.ItemCount)
	assert.InDelta(t, 55, got.Total, 1e-9)
	assert.Equal(t, "AED", got.Currency)
}

func TestWebhookFailureIsReturnedNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "", "")
	// The caller logs this error; it must never propagate to a customer
	// response path.
	assert.Error(t, n.CheckoutStarted(sampleOrder()))
}

func TestWebhookUnconfiguredIsNoop(t *testing.T) {
	n := NewNotifier("", "", "")
	assert.NoError(t, n.CheckoutStarted(sampleOrder()))
}

func TestTelegramUnconfiguredIsNoop(t *testing.T) {
	n := NewNotifier("", "", "")
	assert.NoError(t, n.NewOrder(sampleOrder()))
}

func TestFormatMessages(t *testing.T) {
	order := sampleOrder()

	msg := formatNewOrderMessage(order)
	assert.Contains(t, msg, "ORD-000000042")
	assert.Contains(t, msg, "Takeaway")
	assert.Contains(t, msg, "Shawarma")
	assert.Contains(t, msg, "55.00 AED")

	order.OrderType = models.OrderDineIn
	paid := formatPaidMessage(order)
	assert.Contains(t, paid, "Dine-in")
	assert.Contains(t, paid, "PAYMENT CONFIRMED")
}
