package model

import (
	"fmt"
	"time"
)

// Location represents a storage slot inside a warehouse.
// The four coordinates are conventionally upper-cased on entry.
type Location struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Warehouse string `gorm:"size:32;not null;index" json:"warehouse"`
	Street    string `gorm:"size:32;not null" json:"street"`
	Module    string `gorm:"size:32;not null" json:"module"`
	Bay       string `gorm:"size:32;not null" json:"bay"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DisplayKey returns the composite warehouse-street-module-bay label.
func (l Location) DisplayKey() string {
	return fmt.Sprintf("%s-%s-%s-%s", l.Warehouse, l.Street, l.Module, l.Bay)
}
