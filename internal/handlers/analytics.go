package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/sahara/internal/models"
)

// AnalyticsHandler accepts visitor telemetry and serves the admin summary.
// Tracking endpoints are deliberately forgiving: a failed insert returns
// success:false with HTTP 200 so a telemetry hiccup never breaks the page.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// ClientIP derives the caller's IP from proxy headers, in priority order
// CF-Connecting-IP, X-Forwarded-For (first hop), X-Real-IP, then the socket.
func ClientIP(c *fiber.Ctx) string {
	if ip := c.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if ip := c.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.IP()
}

func trackOK(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func trackFailed(c *fiber.Ctx, what string, err error) error {
	log.Printf("[Analytics] %s write failed: %v", what, err)
	return c.JSON(fiber.Map{"success": false})
}

type visitorRequest struct {
	VisitorID   string `json:"visitorId"`
	UserAgent   string `json:"userAgent"`
	DeviceType  string `json:"deviceType"`
	Browser     string `json:"browser"`
	OS          string `json:"os"`
	Language    string `json:"language"`
	Referrer    string `json:"referrer"`
	Fingerprint string `json:"fingerprint"`
}

// TrackVisitor upserts the AnonymousVisitor row keyed by visitor id: first
// hit inserts, later hits refresh last-seen and bump the visit count.
func (h *AnalyticsHandler) TrackVisitor(c *fiber.Ctx) error {
	var req visitorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.VisitorID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "visitorId is required")
	}

	now := time.Now()
	visitor := models.AnonymousVisitor{
		VisitorID:   req.VisitorID,
		FirstSeenAt: now,
		LastSeenAt:  now,
		VisitCount:  1,
		IPAddress:   ClientIP(c),
		UserAgent:   req.UserAgent,
		DeviceType:  req.DeviceType,
		Browser:     req.Browser,
		OS:          req.OS,
		Language:    req.Language,
		Referrer:    req.Referrer,
		Fingerprint: req.Fingerprint,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "visitor_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_seen_at": now,
			"visit_count":  gorm.Expr("anonymous_visitors.visit_count + 1"),
			"ip_address":   visitor.IPAddress,
			"user_agent":   req.UserAgent,
		}),
	}).Create(&visitor).Error
	if err != nil {
		return trackFailed(c, "visitor", err)
	}

	return trackOK(c)
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
	VisitorID string `json:"visitorId"`
	EntryPage string `json:"entryPage"`
}

// TrackSession starts a per-tab session or refreshes its last-active time.
func (h *AnalyticsHandler) TrackSession(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == "" || req.VisitorID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "sessionId and visitorId are required")
	}

	now := time.Now()
	session := models.VisitorSession{
		SessionID:    req.SessionID,
		VisitorID:    req.VisitorID,
		StartedAt:    now,
		LastActiveAt: now,
		EntryPage:    req.EntryPage,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]any{"last_active_at": now}),
	}).Create(&session).Error
	if err != nil {
		return trackFailed(c, "session", err)
	}

	return trackOK(c)
}

type pageViewRequest struct {
	PageViewID string `json:"pageViewId"`
	VisitorID  string `json:"visitorId"`
	SessionID  string `json:"sessionId"`
	Path       string `json:"path"`
	Referrer   string `json:"referrer"`
	Duration   int    `json:"duration"`
}

// TrackPageView inserts a page view, or updates time-on-page when the client
// reports back with the page view id on leave.
func (h *AnalyticsHandler) TrackPageView(c *fiber.Ctx) error {
	var req pageViewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PageViewID != "" {
		id, err := uuid.Parse(req.PageViewID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid pageViewId")
		}
		err = h.db.Model(&models.PageView{}).
			Where("id = ?", id).
			Update("duration_seconds", req.Duration).Error
		if err != nil {
			return trackFailed(c, "pageview duration", err)
		}
		return trackOK(c)
	}

	if req.VisitorID == "" || req.Path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "visitorId and path are required")
	}

	view := models.PageView{
		VisitorID: req.VisitorID,
		SessionID: req.SessionID,
		Path:      req.Path,
		Referrer:  req.Referrer,
	}
	if err := h.db.Create(&view).Error; err != nil {
		return trackFailed(c, "pageview", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"pageViewId": view.ID}})
}

type menuViewRequest struct {
	MenuItemID string `json:"menuItemId"`
	VisitorID  string `json:"visitorId"`
	SessionID  string `json:"sessionId"`
}

// TrackMenuView records a catalog item detail view.
func (h *AnalyticsHandler) TrackMenuView(c *fiber.Ctx) error {
	var req menuViewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	itemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid menuItemId")
	}
	if req.VisitorID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "visitorId is required")
	}

	view := models.MenuItemView{
		MenuItemID: itemID,
		VisitorID:  req.VisitorID,
		SessionID:  req.SessionID,
	}
	if err := h.db.Create(&view).Error; err != nil {
		return trackFailed(c, "menu view", err)
	}

	return trackOK(c)
}

type siteEventRequest struct {
	VisitorID string          `json:"visitorId"`
	SessionID string          `json:"sessionId"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
}

// TrackEvent records a named custom event with an opaque JSON payload.
func (h *AnalyticsHandler) TrackEvent(c *fiber.Ctx) error {
	var req siteEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.VisitorID == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "visitorId and name are required")
	}

	event := models.SiteEvent{
		VisitorID: req.VisitorID,
		SessionID: req.SessionID,
		Name:      req.Name,
		Payload:   req.Payload,
	}
	if err := h.db.Create(&event).Error; err != nil {
		return trackFailed(c, "event", err)
	}

	return trackOK(c)
}

// Summary returns aggregate stats for the admin dashboard.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	var totalVisitors int64
	if err := h.db.Model(&models.AnonymousVisitor{}).Count(&totalVisitors).Error; err != nil {
		return err
	}

	var totalPageViews int64
	if err := h.db.Model(&models.PageView{}).Count(&totalPageViews).Error; err != nil {
		return err
	}

	var visitorsToday int64
	if err := h.db.Model(&models.AnonymousVisitor{}).
		Where("last_seen_at::date = CURRENT_DATE").
		Count(&visitorsToday).Error; err != nil {
		return err
	}

	type itemViews struct {
		MenuItemID uuid.UUID `json:"menu_item_id"`
		Title      string    `json:"title"`
		Views      int64     `json:"views"`
	}
	var topItems []itemViews
	if err := h.db.Model(&models.MenuItemView{}).
		Select("menu_item_views.menu_item_id, menu_items.title, count(*) as views").
		Joins("LEFT JOIN menu_items ON menu_items.id = menu_item_views.menu_item_id").
		Group("menu_item_views.menu_item_id, menu_items.title").
		Order("views desc").
		Limit(10).
		Scan(&topItems).Error; err != nil {
		return err
	}

	type statusCount struct {
		PaymentStatus string `json:"payment_status"`
		Count         int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("payment_status, count(*) as count").
		Group("payment_status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.PaymentStatus] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_visitors":   totalVisitors,
			"visitors_today":   visitorsToday,
			"total_page_views": totalPageViews,
			"top_menu_items":   topItems,
			"orders_by_status": ordersByStatus,
			"total_revenue":    totalRevenue,
		},
	})
}
