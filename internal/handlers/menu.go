package handlers

import (
	"fmt"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sahara/internal/models"
	"github.com/example/sahara/internal/utils"
)

// MenuHandler serves the public catalog and the admin CRUD surface.
type MenuHandler struct {
	db *gorm.DB
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// ListPublic returns published menu items in display order.
func (h *MenuHandler) ListPublic(c *fiber.Ctx) error {
	query := h.db.Model(&models.MenuItem{}).Where("published = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("category_sort asc, sort_order asc, title asc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

// GetPublic returns a single published item.
func (h *MenuHandler) GetPublic(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ? AND published = ?", id, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// ListAll returns every menu item, published or not, for the admin panel.
func (h *MenuHandler) ListAll(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.MenuItem{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.MenuItem
	if err := query.Order("category_sort asc, sort_order asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetAny returns a single item regardless of published state.
func (h *MenuHandler) GetAny(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// Create persists a new menu item.
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var payload models.MenuItem
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	if payload.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// Update updates an existing menu item.
func (h *MenuHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	var payload models.MenuItem
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = item.ID
	if err := h.db.Model(&item).Select("*").Omit("id", "created_at").Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// Delete removes a menu item. Historical order items keep their denormalized
// snapshot, so deletion never touches past orders.
func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.MenuItem{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type uploadPathRequest struct {
	Filename string `json:"filename"`
}

// GenerateUploadPath returns a unique storage object path for an image
// upload. The extension is taken from the submitted filename.
func (h *MenuHandler) GenerateUploadPath(c *fiber.Ctx) error {
	var req uploadPathRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ext := strings.ToLower(path.Ext(req.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".avif":
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unsupported image extension")
	}

	objectPath := fmt.Sprintf("menu/%s%s", uuid.NewString(), ext)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"path": objectPath}})
}
