package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sahara/internal/cart"
	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/models"
	"github.com/example/sahara/internal/repository"
	"github.com/example/sahara/internal/services"
	"github.com/example/sahara/internal/utils"
)

// CheckoutHandler manages the payment-intent lifecycle: intent creation
// against the gateway, order persistence, and verification/reconciliation.
type CheckoutHandler struct {
	store   repository.OrderStore
	ziina   *services.ZiinaService
	notify  *services.Notifier
	kitchen *services.KitchenPublisher
	cfg     *config.Config
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(store repository.OrderStore, ziina *services.ZiinaService, notify *services.Notifier, kitchen *services.KitchenPublisher, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{store: store, ziina: ziina, notify: notify, kitchen: kitchen, cfg: cfg}
}

type createCheckoutRequest struct {
	Amount          float64     `json:"amount"`
	CustomerName    string      `json:"customerName"`
	PhoneNumber     string      `json:"phoneNumber"`
	Email           string      `json:"email"`
	OrderType       string      `json:"orderType"`
	OrderItems      []cart.Line `json:"orderItems"`
	AdditionalNotes string      `json:"additionalNotes"`
	VisitorID       string      `json:"visitorId"`
}

// Checkout errors are reported in-band with HTTP 200 so existing clients can
// always read the structured payload; only transport-level problems surface
// as HTTP errors.
func checkoutError(c *fiber.Ctx, ge *services.GatewayError) error {
	return c.JSON(fiber.Map{"error": ge})
}

func validationError(c *fiber.Ctx, message string) error {
	return checkoutError(c, &services.GatewayError{
		Provider: "sahara",
		Code:     "invalid_request",
		Message:  message,
	})
}

// CreateCheckout creates a payment intent with the gateway and persists a
// pending Order snapshot, returning the gateway redirect URL.
func (h *CheckoutHandler) CreateCheckout(c *fiber.Ctx) error {
	var req createCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return validationError(c, "invalid request body")
	}

	if req.CustomerName == "" {
		return validationError(c, "customerName is required")
	}
	if req.PhoneNumber == "" {
		return validationError(c, "phoneNumber is required")
	}
	if len(req.OrderItems) == 0 {
		return validationError(c, "orderItems must not be empty")
	}
	if req.Amount <= 0 {
		return validationError(c, "amount must be positive")
	}
	if req.OrderType == "" {
		req.OrderType = models.OrderTakeaway
	}
	if !models.ValidOrderType(req.OrderType) {
		return validationError(c, "orderType must be dine_in or takeaway")
	}

	// Re-total server-side; the submitted amount must match the line items.
	basket := cart.FromLines(req.OrderItems)
	amountFils := basket.TotalFils()
	if amountFils <= 0 {
		return validationError(c, "order total must be positive")
	}
	if utils.ToFils(req.Amount) != amountFils {
		return validationError(c, "amount does not match order items")
	}

	orderNumber := generateOrderNumber()

	intent, gerr := h.ziina.CreatePaymentIntent(
		amountFils,
		fmt.Sprintf("Sahara order %s", orderNumber),
		h.cfg.SuccessURL,
		h.cfg.CancelURL,
	)
	if gerr != nil {
		log.Printf("[Checkout] gateway rejected intent for %s: %v", orderNumber, gerr)
		return checkoutError(c, gerr)
	}

	order := models.Order{
		OrderNumber:      orderNumber,
		VisitorID:        req.VisitorID,
		CustomerName:     req.CustomerName,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		OrderType:        req.OrderType,
		Subtotal:         basket.Total(),
		TotalAmount:      basket.Total(),
		Notes:            req.AdditionalNotes,
		PaymentProvider:  "ziina",
		PaymentReference: intent.ID,
		PaymentStatus:    models.PaymentPending,
		KitchenStatus:    models.KitchenReceived,
	}

	for _, line := range basket.Lines() {
		item := models.OrderItem{
			Name:      line.Name,
			Category:  line.Category,
			UnitPrice: line.Price,
			Quantity:  line.Quantity,
			LineTotal: line.Price * float64(line.Quantity),
			Extras:    line.Extras,
			Notes:     line.Notes,
		}
		if id, err := uuid.Parse(line.ItemID); err == nil {
			item.MenuItemID = &id
		}
		order.Items = append(order.Items, item)
	}

	// Availability over bookkeeping: the customer already holds a valid
	// payment URL, so a failed insert is logged and the checkout proceeds.
	// The orphaned intent remains recoverable from the gateway's side.
	if err := h.store.Create(&order); err != nil {
		log.Printf("[Checkout] failed to persist order %s (intent %s): %v", orderNumber, intent.ID, err)
	}

	go h.notifyCheckoutStarted(order)

	return c.JSON(fiber.Map{
		"url":             intent.RedirectURL,
		"paymentIntentId": intent.ID,
		"orderNumber":     orderNumber,
	})
}

func (h *CheckoutHandler) notifyCheckoutStarted(order models.Order) {
	if err := h.notify.CheckoutStarted(order); err != nil {
		log.Printf("[Checkout] webhook notification failed for %s: %v", order.OrderNumber, err)
	}
	if err := h.notify.NewOrder(order); err != nil {
		log.Printf("[Checkout] telegram notification failed for %s: %v", order.OrderNumber, err)
	}
}

type verifyPaymentRequest struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
}

// Verify hard errors keep the {success:false, error} JSON shape on every
// status code, including 500s.
func verifyError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

// VerifyPayment reconciles the gateway's payment state into the Order row.
// The pending-to-paid edge is a single conditional update, so concurrent
// verification calls (client polling plus webhook) settle exactly once.
func (h *CheckoutHandler) VerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return verifyError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.PaymentID == "" || req.OrderID == "" {
		return verifyError(c, fiber.StatusBadRequest, "payment_id and order_id are required")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return verifyError(c, fiber.StatusBadRequest, "invalid order_id")
	}

	order, err := h.store.FindByID(orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return verifyError(c, fiber.StatusNotFound, "Order not found")
		}
		log.Printf("[Verify] order lookup failed for %s: %v", orderID, err)
		return verifyError(c, fiber.StatusInternalServerError, "internal error")
	}

	// One order's confirmation must not be replayable onto another: the
	// stored reference has to match before anything mutates.
	if order.PaymentReference != req.PaymentID {
		log.Printf("[Verify] payment reference mismatch for order %s", order.OrderNumber)
		return verifyError(c, fiber.StatusBadRequest, "Payment reference mismatch")
	}

	// Paid is terminal; repeat verifications short-circuit to success.
	if order.PaymentStatus == models.PaymentPaid {
		return c.JSON(verifySuccess(order.OrderNumber))
	}

	intent, gerr := h.ziina.GetPaymentIntent(req.PaymentID)
	if gerr != nil {
		log.Printf("[Verify] gateway lookup failed for %s: %v", order.OrderNumber, gerr)
		return verifyError(c, fiber.StatusInternalServerError, gerr.Message)
	}

	if !intent.Completed() {
		return c.JSON(fiber.Map{
			"success":        false,
			"error":          "Payment not completed",
			"payment_status": intent.Status,
		})
	}

	now := time.Now()
	won, err := h.store.MarkPaid(order.ID, now)
	if err != nil {
		log.Printf("[Verify] paid transition failed for %s: %v", order.OrderNumber, err)
		return verifyError(c, fiber.StatusInternalServerError, "internal error")
	}

	if won {
		order.PaymentStatus = models.PaymentPaid
		order.PaidAt = &now
		go h.dispatchPaid(order)
		return c.JSON(verifySuccess(order.OrderNumber))
	}

	// Zero rows affected: the row left pending behind our back. Usually a
	// concurrent verify already settled it to paid, but a refund or
	// cancellation also drops out of pending, so re-read before claiming
	// paid.
	current, err := h.store.FindByID(order.ID)
	if err != nil {
		log.Printf("[Verify] re-read failed for %s: %v", order.OrderNumber, err)
		return verifyError(c, fiber.StatusInternalServerError, "internal error")
	}
	if current.PaymentStatus != models.PaymentPaid {
		return c.JSON(fiber.Map{
			"success":        false,
			"error":          "Order is no longer pending",
			"payment_status": current.PaymentStatus,
		})
	}

	return c.JSON(verifySuccess(order.OrderNumber))
}

func verifySuccess(orderNumber string) fiber.Map {
	return fiber.Map{
		"success":        true,
		"order_number":   orderNumber,
		"payment_status": models.PaymentPaid,
	}
}

func (h *CheckoutHandler) dispatchPaid(order models.Order) {
	if h.kitchen != nil {
		if err := h.kitchen.PublishPaidOrder(order); err != nil {
			log.Printf("[Verify] kitchen queue publish failed for %s: %v", order.OrderNumber, err)
		}
	}
	if err := h.notify.OrderPaid(order); err != nil {
		log.Printf("[Verify] paid notification failed for %s: %v", order.OrderNumber, err)
	}
}

// GetOrderByNumber serves the customer-facing order status page after the
// gateway redirects back. The visitor id must match unless the order has
// none recorded.
func (h *CheckoutHandler) GetOrderByNumber(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	order, err := h.store.FindByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.VisitorID != "" && order.VisitorID != c.Query("visitor_id") {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%09d", time.Now().UnixNano()%1000000000)
}
