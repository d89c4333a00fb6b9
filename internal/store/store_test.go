package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"yard-tracking-backend/internal/model"
)

// newTestStore opens an isolated in-memory SQLite database per test.
func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Vehicle{},
		&model.Location{},
		&model.HistoryRecord{},
		&model.PushSubscription{},
	)
	require.NoError(t, err)
	return NewGormStore(db)
}

func seedVehicleAndLocation(t *testing.T, s Store) (model.Vehicle, model.Location) {
	t.Helper()
	ctx := context.Background()

	vehicle, err := s.RegisterVehicle(ctx, model.Vehicle{
		Plate:         "abc1234",
		ChassisNumber: "9BWZZZ377VT004251",
		Model:         "Gol 1.0",
		OdometerKm:    52300,
		ContractCode:  "CT-2024-0042",
	})
	require.NoError(t, err)

	location, err := s.RegisterLocation(ctx, model.Location{
		Warehouse: "a1", Street: "r1", Module: "m1", Bay: "c1",
	})
	require.NoError(t, err)
	return vehicle, location
}

func TestRegisterNormalizesInput(t *testing.T) {
	s := newTestStore(t)
	vehicle, location := seedVehicleAndLocation(t, s)

	assert.Equal(t, "ABC1234", vehicle.Plate)
	assert.Equal(t, "A1", location.Warehouse)
	assert.Equal(t, "A1-R1-M1-C1", location.DisplayKey())
}

func TestCreateHistoryThenList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	before := time.Now().UTC().Add(-time.Second)
	record, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)
	assert.False(t, record.ReceivedAt.Before(before))

	records, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, vehicle.ID, records[0].VehicleID)
	assert.Equal(t, location.ID, records[0].LocationID)
	assert.Equal(t, "ABC1234", records[0].Vehicle.Plate)
	assert.Equal(t, "A1", records[0].Location.Warehouse)
}

func TestCreateHistoryMissingReferent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	_, err := s.CreateHistory(ctx, vehicle.ID+999, location.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateHistory(ctx, vehicle.ID, location.ID+999)
	assert.ErrorIs(t, err, ErrConflict)

	records, err := s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListHistoryMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	first, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)
	second, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)

	records, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
}

func TestSearchVehicle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	t.Run("no history yet yields nil location", func(t *testing.T) {
		found, loc, err := s.SearchVehicle(ctx, "abc1234")
		require.NoError(t, err)
		assert.Equal(t, vehicle.ID, found.ID)
		assert.Nil(t, loc)
	})

	t.Run("matches by chassis and contract", func(t *testing.T) {
		found, _, err := s.SearchVehicle(ctx, "9bwzzz377")
		require.NoError(t, err)
		assert.Equal(t, vehicle.ID, found.ID)

		found, _, err = s.SearchVehicle(ctx, "CT-2024")
		require.NoError(t, err)
		assert.Equal(t, vehicle.ID, found.ID)
	})

	t.Run("latest location after receiving", func(t *testing.T) {
		_, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
		require.NoError(t, err)

		_, loc, err := s.SearchVehicle(ctx, "ABC1234")
		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, location.ID, loc.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, _, err := s.SearchVehicle(ctx, "ZZZ9999")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearchLocation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, location := seedVehicleAndLocation(t, s)

	found, err := s.SearchLocation(ctx, LocationFilter{Warehouse: "a1"})
	require.NoError(t, err)
	assert.Equal(t, location.ID, found.ID)

	found, err = s.SearchLocation(ctx, LocationFilter{Warehouse: "A1", Street: "r1", Module: "M1", Bay: "c1"})
	require.NoError(t, err)
	assert.Equal(t, location.ID, found.ID)

	_, err = s.SearchLocation(ctx, LocationFilter{Warehouse: "A1", Street: "R9"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteVehicleCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	_, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)
	_, err = s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteVehicleCascade(ctx, vehicle.ID))

	records, err := s.ListHistory(ctx)
	require.NoError(t, err)
	for _, r := range records {
		assert.NotEqual(t, vehicle.ID, r.VehicleID)
	}
	assert.Empty(t, records)

	// The location survives a vehicle cascade.
	_, err = s.SearchLocation(ctx, LocationFilter{Warehouse: "A1"})
	assert.NoError(t, err)

	assert.ErrorIs(t, s.DeleteVehicleCascade(ctx, vehicle.ID), ErrNotFound)
}

func TestDeleteLocationCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	_, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteLocationCascade(ctx, location.ID))

	records, err := s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The vehicle survives a location cascade.
	found, _, err := s.SearchVehicle(ctx, "ABC1234")
	require.NoError(t, err)
	assert.Equal(t, vehicle.ID, found.ID)
}

func TestDeleteHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	record, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)

	t.Run("nonexistent id leaves list unchanged", func(t *testing.T) {
		err := s.DeleteHistory(ctx, record.ID+999)
		assert.ErrorIs(t, err, ErrNotFound)

		records, err := s.ListHistory(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("removes exactly one record", func(t *testing.T) {
		require.NoError(t, s.DeleteHistory(ctx, record.ID))
		records, err := s.ListHistory(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestClearHistoryKeepsEntities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	_, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)

	require.NoError(t, s.ClearHistory(ctx))

	records, err := s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	vehicles, err := s.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)
	_, err = s.SearchLocation(ctx, LocationFilter{Warehouse: "A1"})
	assert.NoError(t, err)
}

func TestUpdateHistoryLocation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	vehicle, location := seedVehicleAndLocation(t, s)

	record, err := s.CreateHistory(ctx, vehicle.ID, location.ID)
	require.NoError(t, err)

	updated, err := s.UpdateHistoryLocation(ctx, record.ID, LocationFilter{
		Warehouse: "b2", Street: "r7", Module: "m3", Bay: "c9",
	})
	require.NoError(t, err)

	// Only the location side changed; identity fields are untouched.
	assert.Equal(t, record.ID, updated.ID)
	assert.Equal(t, record.VehicleID, updated.VehicleID)
	assert.WithinDuration(t, record.ReceivedAt, updated.ReceivedAt, time.Second)
	assert.Equal(t, "B2-R7-M3-C9", updated.Location.DisplayKey())
	assert.NotEqual(t, location.ID, updated.LocationID)

	t.Run("reuses an existing matching location", func(t *testing.T) {
		back, err := s.UpdateHistoryLocation(ctx, record.ID, LocationFilter{
			Warehouse: "A1", Street: "R1", Module: "M1", Bay: "C1",
		})
		require.NoError(t, err)
		assert.Equal(t, location.ID, back.LocationID)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := s.UpdateHistoryLocation(ctx, record.ID+999, LocationFilter{
			Warehouse: "A1", Street: "R1", Module: "M1", Bay: "C1",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
