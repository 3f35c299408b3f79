package models

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousVisitor keys all telemetry to a client-generated visitor id. Rows
// are upserted: first hit inserts, later hits bump last-seen and visit count.
type AnonymousVisitor struct {
	BaseModel
	VisitorID   string    `gorm:"uniqueIndex" json:"visitor_id"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	VisitCount  int       `gorm:"default:1" json:"visit_count"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	DeviceType  string    `json:"device_type"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	Language    string    `json:"language"`
	Referrer    string    `json:"referrer"`
	Fingerprint string    `json:"fingerprint"`
}

// VisitorSession is one per-tab browsing session.
type VisitorSession struct {
	BaseModel
	SessionID    string    `gorm:"uniqueIndex" json:"session_id"`
	VisitorID    string    `gorm:"index" json:"visitor_id"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	EntryPage    string    `json:"entry_page"`
}

// PageView records a single page visit; DurationSeconds is filled in by a
// follow-up call when the visitor leaves the page.
type PageView struct {
	BaseModel
	VisitorID       string `gorm:"index" json:"visitor_id"`
	SessionID       string `gorm:"index" json:"session_id"`
	Path            string `json:"path"`
	Referrer        string `json:"referrer"`
	DurationSeconds int    `json:"duration_seconds"`
}

// MenuItemView records a catalog item detail view.
type MenuItemView struct {
	BaseModel
	MenuItemID uuid.UUID `gorm:"type:uuid;index" json:"menu_item_id"`
	VisitorID  string    `gorm:"index" json:"visitor_id"`
	SessionID  string    `json:"session_id"`
}

// SiteEvent is a named custom event with an opaque JSON payload.
type SiteEvent struct {
	BaseModel
	VisitorID string `gorm:"index" json:"visitor_id"`
	SessionID string `json:"session_id"`
	Name      string `gorm:"index" json:"name"`
	Payload   []byte `gorm:"type:jsonb" json:"payload"`
}
