package models

import "time"

// Item statuses.
const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
	StatusPrivate = "private"
)

// MenuItem is one entry of a plugin content type, e.g. a dish on a restaurant menu.
type MenuItem struct {
	ID uint64 `gorm:"primaryKey"`
	// PostType is the content type the item belongs to.
	PostType string `gorm:"size:20;not null;uniqueIndex:idx_type_slug"`
	// Slug is the URL segment below <menuBase>/items/.
	Slug         string `gorm:"size:200;not null;uniqueIndex:idx_type_slug"`
	Title        string `gorm:"size:255;not null"   form:"title"`
	Content      string `gorm:"type:text"           form:"content"`
	Excerpt      string `gorm:"type:text"           form:"excerpt"`
	ThumbnailURL string `gorm:"size:2048"           form:"thumbnail_url"`
	Status       string `gorm:"size:20;not null;index" form:"status"`
	MenuOrder    int    `gorm:"default:0"           form:"menu_order"`
	AuthorID     uint64 `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the database table name for the MenuItem model.
func (MenuItem) TableName() string {
	return "menu_items"
}

// IsPublished reports whether the item is publicly visible.
func (m *MenuItem) IsPublished() bool {
	return m.Status == StatusPublish
}

// MenuItemRevision is a snapshot of an item taken before it was changed.
type MenuItemRevision struct {
	ID         uint64   `gorm:"primaryKey"`
	MenuItemID uint64   `gorm:"not null;index"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Title      string   `gorm:"size:255"`
	Content    string   `gorm:"type:text"`
	Excerpt    string   `gorm:"type:text"`
	AuthorID   uint64
	CreatedAt  time.Time
}

// TableName specifies the database table name for the MenuItemRevision model.
func (MenuItemRevision) TableName() string {
	return "menu_item_revisions"
}
