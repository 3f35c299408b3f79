package models

// MenuItem is a catalog entry. Customer-facing endpoints only ever see rows
// with Published set; admin CRUD manages the rest.
type MenuItem struct {
	BaseModel
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Category     string  `gorm:"index" json:"category"`
	Subcategory  string  `json:"subcategory"`
	ImagePath    string  `json:"image_path"`
	Tags         string  `json:"tags"`
	Published    bool    `gorm:"index" json:"published"`
	CategorySort int     `json:"category_sort"`
	SortOrder    int     `json:"sort_order"`
}

// KitchenStaff is a dashboard login for kitchen displays.
type KitchenStaff struct {
	BaseModel
	Name         string `gorm:"uniqueIndex" json:"name"`
	PasswordHash string `json:"-"`
	Active       bool   `gorm:"default:true" json:"active"`
}

// SiteContent is a singleton row holding editable site copy and contact info.
type SiteContent struct {
	BaseModel
	HeroTitle    string `json:"hero_title"`
	HeroSubtitle string `json:"hero_subtitle"`
	AboutText    string `json:"about_text"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	OpeningHours string `json:"opening_hours"`
	InstagramURL string `json:"instagram_url"`
	WhatsappURL  string `json:"whatsapp_url"`
	MapsURL      string `json:"maps_url"`
}
