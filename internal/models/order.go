package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses. Pending is the only state verification may leave; paid is
// terminal against any later "pending" signal from the gateway.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
	PaymentCancelled = "cancelled"
)

// Kitchen workflow statuses.
const (
	KitchenReceived  = "received"
	KitchenPreparing = "preparing"
	KitchenReady     = "ready"
	KitchenServed    = "served"
	KitchenCancelled = "cancelled"
)

// Order types.
const (
	OrderDineIn   = "dine_in"
	OrderTakeaway = "takeaway"
)

// Order is the server-side snapshot of a checkout. The browser owns the cart
// until checkout creates this row; the payment gateway owns the authoritative
// payment state, mirrored here by verification.
type Order struct {
	BaseModel
	OrderNumber      string      `gorm:"uniqueIndex" json:"order_number"`
	VisitorID        string      `gorm:"index" json:"visitor_id"`
	CustomerName     string      `json:"customer_name"`
	PhoneNumber      string      `json:"phone_number"`
	Email            string      `json:"email"`
	OrderType        string      `json:"order_type"`
	Subtotal         float64     `json:"subtotal"`
	TotalAmount      float64     `json:"total_amount"`
	Notes            string      `json:"notes"`
	PaymentProvider  string      `json:"payment_provider"`
	PaymentReference string      `gorm:"index" json:"payment_reference"`
	PaymentMethod    string      `json:"payment_method"`
	PaymentStatus    string      `gorm:"index;default:pending" json:"payment_status"`
	PaidAt           *time.Time  `json:"paid_at"`
	KitchenStatus    string      `gorm:"index;default:received" json:"kitchen_status"`
	HandledBy        *uuid.UUID  `gorm:"type:uuid" json:"handled_by"`
	Items            []OrderItem `json:"items,omitempty"`
}

// OrderItem is a denormalized line snapshot taken at checkout time, so
// historical orders stay stable when the live menu changes.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	MenuItemID *uuid.UUID `gorm:"type:uuid" json:"menu_item_id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	UnitPrice  float64    `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	LineTotal  float64    `json:"line_total"`
	Extras     string     `json:"extras"`
	Notes      string     `json:"notes"`
}

var kitchenTransitions = map[string][]string{
	KitchenReceived:  {KitchenPreparing, KitchenCancelled},
	KitchenPreparing: {KitchenReady, KitchenCancelled},
	KitchenReady:     {KitchenServed},
}

// CanTransitionKitchen reports whether a kitchen status change is allowed.
func CanTransitionKitchen(from, to string) bool {
	for _, next := range kitchenTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidOrderType reports whether t is a known order type.
func ValidOrderType(t string) bool {
	return t == OrderDineIn || t == OrderTakeaway
}
