// Package models contains database model definitions.
package models

import "time"

// Setting is one named option slot. Plugins store a JSON document per slot.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"unique;size:191;not null"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}
