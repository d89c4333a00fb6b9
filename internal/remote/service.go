package remote

import (
	"context"
	"time"
)

// Vehicle is a tracked vehicle as exposed by the service.
type Vehicle struct {
	ID            int64  `json:"id"`
	Plate         string `json:"plate"`
	ChassisNumber string `json:"chassisNumber"`
	Model         string `json:"model"`
	OdometerKm    int    `json:"odometerKm"`
	ContractCode  string `json:"contractCode"`
	IncidentNote  string `json:"incidentNote"`
}

// Location is a storage slot as exposed by the service.
type Location struct {
	ID        int64  `json:"id"`
	Warehouse string `json:"warehouse"`
	Street    string `json:"street"`
	Module    string `json:"module"`
	Bay       string `json:"bay"`
}

// DisplayKey returns the composite warehouse-street-module-bay label.
func (l Location) DisplayKey() string {
	return l.Warehouse + "-" + l.Street + "-" + l.Module + "-" + l.Bay
}

// HistoryRecord links a vehicle to a location at a point in time.
type HistoryRecord struct {
	ID         int64     `json:"id"`
	VehicleID  int64     `json:"vehicleId"`
	LocationID int64     `json:"locationId"`
	ReceivedAt time.Time `json:"receivedAt"`
	Vehicle    Vehicle   `json:"vehicle"`
	Location   Location  `json:"location"`
}

// VehicleDraft carries the fields for a vehicle registration.
type VehicleDraft struct {
	Plate         string `json:"plate"`
	ChassisNumber string `json:"chassisNumber"`
	Model         string `json:"model"`
	OdometerKm    int    `json:"odometerKm"`
	ContractCode  string `json:"contractCode"`
	IncidentNote  string `json:"incidentNote"`
}

// LocationFields carries the four slot coordinates for registration, lookup
// and location correction.
type LocationFields struct {
	Warehouse string `json:"warehouse"`
	Street    string `json:"street"`
	Module    string `json:"module"`
	Bay       string `json:"bay"`
}

// SearchResult joins a vehicle with its latest receiving location. Location
// is nil when the vehicle has no history yet.
type SearchResult struct {
	Vehicle  Vehicle   `json:"vehicle"`
	Location *Location `json:"location,omitempty"`
}

// Principal is an authenticated session.
type Principal struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"-"`
	UserName  string    `json:"-"`
}

// Service is the remote persistence collaborator consumed by the receiving
// workflow, the history ledger and the consult screen. Implementations do
// not retry; every failure surfaces to the caller.
type Service interface {
	Authenticate(ctx context.Context, email, secret string) (Principal, error)

	RegisterVehicle(ctx context.Context, draft VehicleDraft) (Vehicle, error)
	SearchVehicle(ctx context.Context, token string) (SearchResult, error)
	DeleteVehicle(ctx context.Context, id int64) error

	RegisterLocation(ctx context.Context, fields LocationFields) (Location, error)
	SearchLocation(ctx context.Context, fields LocationFields) (Location, error)
	DeleteLocation(ctx context.Context, id int64) error

	CreateHistory(ctx context.Context, vehicleID, locationID int64) (HistoryRecord, error)
	ListHistory(ctx context.Context) ([]HistoryRecord, error)
	DeleteHistory(ctx context.Context, id int64) error
	ClearHistory(ctx context.Context) error
	UpdateHistoryLocation(ctx context.Context, id int64, fields LocationFields) (HistoryRecord, error)
}
