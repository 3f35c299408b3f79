package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/sahara/internal/models"
)

// ContentHandler manages the singleton site-content row.
type ContentHandler struct {
	db *gorm.DB
}

// NewContentHandler constructs ContentHandler.
func NewContentHandler(db *gorm.DB) *ContentHandler {
	return &ContentHandler{db: db}
}

// Get returns the site content, or an empty document when none is saved yet.
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	var content models.SiteContent
	if err := h.db.First(&content).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{"success": true, "data": models.SiteContent{}})
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": content})
}

// Update upserts the singleton row.
func (h *ContentHandler) Update(c *fiber.Ctx) error {
	var payload models.SiteContent
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var existing models.SiteContent
	err := h.db.First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := h.db.Create(&payload).Error; err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
	}

	payload.ID = existing.ID
	if err := h.db.Model(&existing).Select("*").Omit("id", "created_at").Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": existing})
}
