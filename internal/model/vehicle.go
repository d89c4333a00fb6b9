package model

import "time"

// Vehicle represents a tracked vehicle in the yard.
type Vehicle struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	Plate         string `gorm:"size:16;not null;index" json:"plate"`
	ChassisNumber string `gorm:"size:32;not null;index" json:"chassisNumber"`
	Model         string `gorm:"size:128" json:"model"`
	OdometerKm    int    `json:"odometerKm"`
	ContractCode  string `gorm:"size:64;index" json:"contractCode"`
	IncidentNote  string `gorm:"size:512" json:"incidentNote"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
