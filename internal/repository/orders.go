// Package repository wraps order persistence behind a narrow store interface
// so the checkout flow stays testable without a live database.
package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sahara/internal/models"
)

// ErrOrderNotFound is returned when no order matches the lookup.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore is the persistence seam for the checkout flow.
type OrderStore interface {
	Create(order *models.Order) error
	FindByID(id uuid.UUID) (models.Order, error)
	FindByNumber(orderNumber string) (models.Order, error)
	// MarkPaid flips payment_status from pending to paid in one
	// conditional update and reports whether this call won the
	// transition. Zero rows affected means some other state holds the
	// row; callers re-read to find out which.
	MarkPaid(id uuid.UUID, paidAt time.Time) (bool, error)
}

// GormOrderStore is the Postgres-backed store.
type GormOrderStore struct {
	db *gorm.DB
}

// NewOrderStore constructs a GormOrderStore.
func NewOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

func (s *GormOrderStore) Create(order *models.Order) error {
	return s.db.Create(order).Error
}

func (s *GormOrderStore) FindByID(id uuid.UUID) (models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

func (s *GormOrderStore) FindByNumber(orderNumber string) (models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, "order_number = ?", orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

func (s *GormOrderStore) MarkPaid(id uuid.UUID, paidAt time.Time) (bool, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentPending).
		Updates(map[string]any{
			"payment_status": models.PaymentPaid,
			"payment_method": "card",
			"paid_at":        paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
