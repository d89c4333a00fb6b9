package model

import "time"

// HistoryRecord states that a vehicle was placed at a location at a point in
// time. VehicleID and ReceivedAt are immutable once created; only the
// location may be corrected afterwards.
type HistoryRecord struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	VehicleID  int64     `gorm:"not null;index" json:"vehicleId"`
	LocationID int64     `gorm:"not null;index" json:"locationId"`
	ReceivedAt time.Time `gorm:"not null;index" json:"receivedAt"`

	// Associations
	Vehicle  Vehicle  `gorm:"constraint:OnDelete:CASCADE" json:"vehicle"`
	Location Location `gorm:"constraint:OnDelete:CASCADE" json:"location"`
}
