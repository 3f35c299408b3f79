package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/sahara/internal/models"
)

// Notifier sends best-effort order notifications: a JSON webhook for the ops
// workflow and a Telegram message for the admin chat. All methods return an
// error only so callers can log it; a notification failure must never fail a
// customer request.
type Notifier struct {
	webhookURL  string
	botToken    string
	adminChatID string
	client      *http.Client
}

// NewNotifier constructs a Notifier.
func NewNotifier(webhookURL, botToken, adminChatID string) *Notifier {
	return &Notifier{
		webhookURL:  webhookURL,
		botToken:    botToken,
		adminChatID: adminChatID,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Event       string  `json:"event"`
	OrderNumber string  `json:"order_number"`
	OrderID     string  `json:"order_id"`
	Customer    string  `json:"customer"`
	Phone       string  `json:"phone"`
	OrderType   string  `json:"order_type"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
	ItemCount   int     `json:"item_count"`
}

// CheckoutStarted posts a checkout-initiated event to the ops webhook.
func (n *Notifier) CheckoutStarted(order models.Order) error {
	return n.postWebhook("checkout.started", order)
}

// OrderPaid posts a payment-confirmed event to the ops webhook and notifies
// the admin Telegram chat.
func (n *Notifier) OrderPaid(order models.Order) error {
	if err := n.postWebhook("order.paid", order); err != nil {
		log.Printf("[Notify] webhook order.paid failed for %s: %v", order.OrderNumber, err)
	}
	return n.sendTelegram(formatPaidMessage(order))
}

// NewOrder notifies the admin Telegram chat about a freshly created order.
func (n *Notifier) NewOrder(order models.Order) error {
	return n.sendTelegram(formatNewOrderMessage(order))
}

func (n *Notifier) postWebhook(event string, order models.Order) error {
	if n.webhookURL == "" {
		return nil
	}

	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}

	body, err := json.Marshal(webhookPayload{
		Event:       event,
		OrderNumber: order.OrderNumber,
		OrderID:     order.ID.String(),
		Customer:    order.CustomerName,
		Phone:       order.PhoneNumber,
		OrderType:   order.OrderType,
		Total:       order.TotalAmount,
		Currency:    "AED",
		ItemCount:   count,
	})
	if err != nil {
		return err
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (n *Notifier) sendTelegram(text string) error {
	if n.botToken == "" || n.adminChatID == "" {
		log.Println("[Notify] Telegram not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	body, err := json.Marshal(telegramMessage{
		ChatID:    n.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

func orderTypeLabel(orderType string) string {
	if orderType == models.OrderDineIn {
		return "Dine-in"
	}
	return "Takeaway"
}

func formatNewOrderMessage(order models.Order) string {
	var items strings.Builder
	for i, item := range order.Items {
		items.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %.2f AED = %.2f AED\n",
			i+1, item.Name, item.Quantity, item.UnitPrice, item.LineTotal))
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>Order:</b> %s
<b>Customer:</b> %s
<b>Phone:</b> %s
<b>Type:</b> %s
<b>Items:</b>
%s<b>Total:</b> %.2f AED
<b>Status:</b> ⏳ awaiting payment`,
		order.OrderNumber,
		order.CustomerName,
		order.PhoneNumber,
		orderTypeLabel(order.OrderType),
		items.String(),
		order.TotalAmount,
	)

	return strings.TrimSpace(message)
}

func formatPaidMessage(order models.Order) string {
	message := fmt.Sprintf(`<b>✅ PAYMENT CONFIRMED</b>
<b>Order:</b> %s
<b>Customer:</b> %s
<b>Type:</b> %s
<b>Total:</b> %.2f AED
<i>Sent to kitchen</i>`,
		order.OrderNumber,
		order.CustomerName,
		orderTypeLabel(order.OrderType),
		order.TotalAmount,
	)

	return strings.TrimSpace(message)
}
