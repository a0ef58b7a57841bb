package models

import "time"

// Capability is a named permission string checked before an action,
// e.g. "manage_options" or "edit_restaurant_items".
type Capability struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"unique;size:100;not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the Capability model.
func (Capability) TableName() string {
	return "capabilities"
}

// RoleCapability grants a capability to a role.
// Deleting either side removes the grant.
type RoleCapability struct {
	RoleID       uint       `gorm:"primaryKey;column:role_id"`
	CapabilityID uint       `gorm:"primaryKey;column:capability_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Capability   Capability `gorm:"foreignKey:CapabilityID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RoleCapability model.
func (RoleCapability) TableName() string {
	return "role_capabilities"
}
