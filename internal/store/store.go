package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"yard-tracking-backend/internal/model"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a referenced entity vanished between
	// identification and commit.
	ErrConflict = errors.New("referenced entity no longer exists")
)

// LocationFilter narrows a location lookup. Warehouse is mandatory; the
// remaining coordinates are optional refinements.
type LocationFilter struct {
	Warehouse string
	Street    string
	Module    string
	Bay       string
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, error)

	RegisterVehicle(ctx context.Context, v model.Vehicle) (model.Vehicle, error)
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	SearchVehicle(ctx context.Context, token string) (model.Vehicle, *model.Location, error)
	DeleteVehicleCascade(ctx context.Context, id int64) error

	RegisterLocation(ctx context.Context, l model.Location) (model.Location, error)
	SearchLocation(ctx context.Context, f LocationFilter) (model.Location, error)
	DeleteLocationCascade(ctx context.Context, id int64) error

	CreateHistory(ctx context.Context, vehicleID, locationID int64) (model.HistoryRecord, error)
	ListHistory(ctx context.Context) ([]model.HistoryRecord, error)
	DeleteHistory(ctx context.Context, id int64) error
	ClearHistory(ctx context.Context) error
	UpdateHistoryLocation(ctx context.Context, id int64, f LocationFilter) (model.HistoryRecord, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *gormStore) RegisterVehicle(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	v.ChassisNumber = strings.ToUpper(strings.TrimSpace(v.ChassisNumber))
	if err := s.db.WithContext(ctx).Create(&v).Error; err != nil {
		return model.Vehicle{}, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return v, nil
}

func (s *gormStore) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := s.db.WithContext(ctx).Order("id").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// SearchVehicle fuzzy-matches the token against plate, chassis number and
// contract code, and joins the vehicle's latest receiving location if it has
// any history.
func (s *gormStore) SearchVehicle(ctx context.Context, token string) (model.Vehicle, *model.Location, error) {
	pattern := "%" + strings.ToUpper(strings.TrimSpace(token)) + "%"

	var vehicle model.Vehicle
	err := s.db.WithContext(ctx).
		Where("upper(plate) LIKE ? OR upper(chassis_number) LIKE ? OR upper(contract_code) LIKE ?",
			pattern, pattern, pattern).
		Order("id").
		First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Vehicle{}, nil, ErrNotFound
	}
	if err != nil {
		return model.Vehicle{}, nil, err
	}

	// The current location is derived from the most recent history record.
	var latest model.HistoryRecord
	err = s.db.WithContext(ctx).
		Preload("Location").
		Where("vehicle_id = ?", vehicle.ID).
		Order("received_at DESC, id DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vehicle, nil, nil
	}
	if err != nil {
		return model.Vehicle{}, nil, err
	}
	return vehicle, &latest.Location, nil
}

func (s *gormStore) DeleteVehicleCascade(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle model.Vehicle
		if err := tx.First(&vehicle, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&model.HistoryRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete history for vehicle %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM subscription_vehicle_mapping WHERE vehicle_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete subscriptions for vehicle %d: %w", id, err)
		}
		if err := tx.Delete(&model.Vehicle{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete vehicle %d: %w", id, err)
		}
		return nil
	})
}

func (s *gormStore) RegisterLocation(ctx context.Context, l model.Location) (model.Location, error) {
	normalizeLocation(&l)
	if err := s.db.WithContext(ctx).Create(&l).Error; err != nil {
		return model.Location{}, fmt.Errorf("failed to create location: %w", err)
	}
	return l, nil
}

func (s *gormStore) SearchLocation(ctx context.Context, f LocationFilter) (model.Location, error) {
	q := s.db.WithContext(ctx).Where("warehouse = ?", strings.ToUpper(strings.TrimSpace(f.Warehouse)))
	if f.Street != "" {
		q = q.Where("street = ?", strings.ToUpper(strings.TrimSpace(f.Street)))
	}
	if f.Module != "" {
		q = q.Where("module = ?", strings.ToUpper(strings.TrimSpace(f.Module)))
	}
	if f.Bay != "" {
		q = q.Where("bay = ?", strings.ToUpper(strings.TrimSpace(f.Bay)))
	}

	var location model.Location
	err := q.Order("id").First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Location{}, ErrNotFound
	}
	if err != nil {
		return model.Location{}, err
	}
	return location, nil
}

func (s *gormStore) DeleteLocationCascade(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var location model.Location
		if err := tx.First(&location, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("location_id = ?", id).Delete(&model.HistoryRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete history for location %d: %w", id, err)
		}
		if err := tx.Delete(&model.Location{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete location %d: %w", id, err)
		}
		return nil
	})
}

// CreateHistory verifies both referents still exist inside the transaction so
// a record can never be created against a vanished vehicle or location.
func (s *gormStore) CreateHistory(ctx context.Context, vehicleID, locationID int64) (model.HistoryRecord, error) {
	var record model.HistoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle model.Vehicle
		if err := tx.First(&vehicle, vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConflict
			}
			return err
		}
		var location model.Location
		if err := tx.First(&location, locationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConflict
			}
			return err
		}

		record = model.HistoryRecord{
			VehicleID:  vehicleID,
			LocationID: locationID,
			ReceivedAt: time.Now().UTC(),
			Vehicle:    vehicle,
			Location:   location,
		}
		if err := tx.Omit("Vehicle", "Location").Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create history record: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.HistoryRecord{}, err
	}
	return record, nil
}

// ListHistory returns the full movement history, most recent first, joined
// with the vehicle and location summaries.
func (s *gormStore) ListHistory(ctx context.Context) ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Location").
		Order("received_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *gormStore) DeleteHistory(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.HistoryRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearHistory removes every history record. Vehicles and locations stay.
func (s *gormStore) ClearHistory(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.HistoryRecord{}).Error
}

// UpdateHistoryLocation repoints a record at the location matching the four
// given coordinates, creating that location if it does not exist yet.
// VehicleID and ReceivedAt are never touched.
func (s *gormStore) UpdateHistoryLocation(ctx context.Context, id int64, f LocationFilter) (model.HistoryRecord, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record model.HistoryRecord
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		location := model.Location{
			Warehouse: f.Warehouse,
			Street:    f.Street,
			Module:    f.Module,
			Bay:       f.Bay,
		}
		normalizeLocation(&location)
		if err := tx.Where(model.Location{
			Warehouse: location.Warehouse,
			Street:    location.Street,
			Module:    location.Module,
			Bay:       location.Bay,
		}).FirstOrCreate(&location).Error; err != nil {
			return fmt.Errorf("failed to resolve corrected location: %w", err)
		}

		return tx.Model(&model.HistoryRecord{ID: id}).
			Update("location_id", location.ID).Error
	})
	if err != nil {
		return model.HistoryRecord{}, err
	}

	var updated model.HistoryRecord
	if err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Location").
		First(&updated, id).Error; err != nil {
		return model.HistoryRecord{}, err
	}
	return updated, nil
}

func normalizeLocation(l *model.Location) {
	l.Warehouse = strings.ToUpper(strings.TrimSpace(l.Warehouse))
	l.Street = strings.ToUpper(strings.TrimSpace(l.Street))
	l.Module = strings.ToUpper(strings.TrimSpace(l.Module))
	l.Bay = strings.ToUpper(strings.TrimSpace(l.Bay))
}
