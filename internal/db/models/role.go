package models

import "time"

// Role is a named set of capabilities, e.g. "administrator" or "editor".
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role.
	Name string `gorm:"unique;size:100;not null"`
	// DisplayName is shown in the admin UI.
	DisplayName string `gorm:"size:255"`
	// IsSystem marks roles created by the seed.
	IsSystem bool `gorm:"default:false"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
