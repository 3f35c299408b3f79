package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/middleware"
	"github.com/example/sahara/internal/models"
	"github.com/example/sahara/internal/utils"
)

// KitchenHandler serves the kitchen order dashboard.
type KitchenHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewKitchenHandler constructs KitchenHandler.
func NewKitchenHandler(db *gorm.DB, cfg *config.Config) *KitchenHandler {
	return &KitchenHandler{db: db, cfg: cfg}
}

type kitchenLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Login authenticates a kitchen staff member and returns a JWT.
func (h *KitchenHandler) Login(c *fiber.Ctx) error {
	var req kitchenLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and password are required")
	}

	var staff models.KitchenStaff
	if err := h.db.First(&staff, "name = ? AND active = ?", req.Name, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(staff.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateStaffToken(h.cfg.JWTSecret, staff.ID, staff.Name, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "token": token})
}

// ListOrders returns paid orders for the dashboard, newest first. The kitchen
// only ever sees orders once payment has settled.
func (h *KitchenHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("payment_status = ?", models.PaymentPaid)

	if status := c.Query("kitchen_status"); status != "" {
		query = query.Where("kitchen_status = ?", status)
	}
	if orderType := c.Query("order_type"); orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("paid_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order with items for the dashboard detail view.
func (h *KitchenHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type kitchenStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus advances an order through the kitchen workflow, stamping the
// acting staff member on the row. Transitions are validated against the
// allowed map; the update is conditional on the current status so two
// displays racing on the same ticket cannot skip a step.
func (h *KitchenHandler) UpdateStatus(c *fiber.Ctx) error {
	staffID, ok := middleware.GetCurrentStaffID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req kitchenStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !models.CanTransitionKitchen(order.KitchenStatus, req.Status) {
		return fiber.NewError(fiber.StatusBadRequest,
			"cannot transition from "+order.KitchenStatus+" to "+req.Status)
	}

	res := h.db.Model(&models.Order{}).
		Where("id = ? AND kitchen_status = ?", order.ID, order.KitchenStatus).
		Updates(map[string]any{"kitchen_status": req.Status, "handled_by": staffID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "order status changed concurrently")
	}

	order.KitchenStatus = req.Status
	order.HandledBy = &staffID
	return c.JSON(fiber.Map{"success": true, "data": order})
}
