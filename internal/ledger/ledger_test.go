package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yard-tracking-backend/internal/remote"
)

type stubService struct {
	listHistory           func(ctx context.Context) ([]remote.HistoryRecord, error)
	createHistory         func(ctx context.Context, vehicleID, locationID int64) (remote.HistoryRecord, error)
	deleteHistory         func(ctx context.Context, id int64) error
	deleteVehicle         func(ctx context.Context, id int64) error
	deleteLocation        func(ctx context.Context, id int64) error
	clearHistory          func(ctx context.Context) error
	updateHistoryLocation func(ctx context.Context, id int64, fields remote.LocationFields) (remote.HistoryRecord, error)
}

func (s *stubService) Authenticate(context.Context, string, string) (remote.Principal, error) {
	return remote.Principal{}, nil
}
func (s *stubService) RegisterVehicle(context.Context, remote.VehicleDraft) (remote.Vehicle, error) {
	return remote.Vehicle{}, nil
}
func (s *stubService) SearchVehicle(context.Context, string) (remote.SearchResult, error) {
	return remote.SearchResult{}, nil
}
func (s *stubService) DeleteVehicle(ctx context.Context, id int64) error {
	return s.deleteVehicle(ctx, id)
}
func (s *stubService) RegisterLocation(context.Context, remote.LocationFields) (remote.Location, error) {
	return remote.Location{}, nil
}
func (s *stubService) SearchLocation(context.Context, remote.LocationFields) (remote.Location, error) {
	return remote.Location{}, nil
}
func (s *stubService) DeleteLocation(ctx context.Context, id int64) error {
	return s.deleteLocation(ctx, id)
}
func (s *stubService) CreateHistory(ctx context.Context, vehicleID, locationID int64) (remote.HistoryRecord, error) {
	return s.createHistory(ctx, vehicleID, locationID)
}
func (s *stubService) ListHistory(ctx context.Context) ([]remote.HistoryRecord, error) {
	return s.listHistory(ctx)
}
func (s *stubService) DeleteHistory(ctx context.Context, id int64) error {
	return s.deleteHistory(ctx, id)
}
func (s *stubService) ClearHistory(ctx context.Context) error { return s.clearHistory(ctx) }
func (s *stubService) UpdateHistoryLocation(ctx context.Context, id int64, fields remote.LocationFields) (remote.HistoryRecord, error) {
	return s.updateHistoryLocation(ctx, id, fields)
}

func sampleRecords() []remote.HistoryRecord {
	return []remote.HistoryRecord{
		{
			ID:         2,
			VehicleID:  1,
			LocationID: 5,
			ReceivedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			Vehicle:    remote.Vehicle{ID: 1, Plate: "ABC1234"},
			Location:   remote.Location{ID: 5, Warehouse: "A1", Street: "R2", Module: "M1", Bay: "C4"},
		},
		{
			ID:         1,
			VehicleID:  1,
			LocationID: 4,
			ReceivedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Vehicle:    remote.Vehicle{ID: 1, Plate: "ABC1234"},
			Location:   remote.Location{ID: 4, Warehouse: "A1", Street: "R1", Module: "M1", Bay: "C1"},
		},
	}
}

func TestCreateValidatesIdentities(t *testing.T) {
	called := false
	svc := &stubService{
		createHistory: func(context.Context, int64, int64) (remote.HistoryRecord, error) {
			called = true
			return remote.HistoryRecord{}, nil
		},
	}
	l := New(svc)

	_, err := l.Create(context.Background(), 0, 5)
	assert.True(t, remote.IsValidation(err))
	_, err = l.Create(context.Background(), 1, -1)
	assert.True(t, remote.IsValidation(err))
	assert.False(t, called, "invalid input must not reach the service")

	_, err = l.Create(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDeleteRecordRefreshesOnSuccess(t *testing.T) {
	var deleted int64
	lists := 0
	svc := &stubService{
		deleteHistory: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
		listHistory: func(context.Context) ([]remote.HistoryRecord, error) {
			lists++
			return sampleRecords()[:1], nil
		},
	}
	l := New(svc)

	records, err := l.DeleteRecord(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, 1, lists)
	assert.Len(t, records, 1)
}

func TestDeleteRecordRefreshesOnFailureToo(t *testing.T) {
	lists := 0
	svc := &stubService{
		deleteHistory: func(context.Context, int64) error {
			return remote.NotFound("history record not found")
		},
		listHistory: func(context.Context) ([]remote.HistoryRecord, error) {
			lists++
			return sampleRecords(), nil
		},
	}
	l := New(svc)

	records, err := l.DeleteRecord(context.Background(), 99)
	assert.True(t, remote.IsNotFound(err), "the mutation error must win over the refresh")
	assert.Equal(t, 1, lists, "the list is re-fetched even when the delete failed")
	assert.Len(t, records, 2)
}

func TestCascadeDeletesRefresh(t *testing.T) {
	var deletedVehicle, deletedLocation int64
	cleared := false
	lists := 0
	svc := &stubService{
		deleteVehicle: func(_ context.Context, id int64) error {
			deletedVehicle = id
			return nil
		},
		deleteLocation: func(_ context.Context, id int64) error {
			deletedLocation = id
			return nil
		},
		clearHistory: func(context.Context) error {
			cleared = true
			return nil
		},
		listHistory: func(context.Context) ([]remote.HistoryRecord, error) {
			lists++
			return nil, nil
		},
	}
	l := New(svc)
	ctx := context.Background()

	_, err := l.DeleteVehicleCascade(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deletedVehicle)

	_, err = l.DeleteLocationCascade(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deletedLocation)

	_, err = l.ClearAll(ctx)
	require.NoError(t, err)
	assert.True(t, cleared)

	assert.Equal(t, 3, lists, "every mutation re-fetches the list")
}

func TestLoadForEditAndCommit(t *testing.T) {
	var gotID int64
	var gotFields remote.LocationFields
	svc := &stubService{
		listHistory: func(context.Context) ([]remote.HistoryRecord, error) {
			return sampleRecords(), nil
		},
		updateHistoryLocation: func(_ context.Context, id int64, fields remote.LocationFields) (remote.HistoryRecord, error) {
			gotID, gotFields = id, fields
			return remote.HistoryRecord{ID: id}, nil
		},
	}
	l := New(svc)
	ctx := context.Background()

	draft, err := l.LoadForEdit(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), draft.RecordID)
	assert.Equal(t, "ABC1234", draft.Vehicle.Plate)
	assert.Equal(t, remote.LocationFields{Warehouse: "A1", Street: "R2", Module: "M1", Bay: "C4"}, draft.Fields)

	_, err = l.LoadForEdit(ctx, 42)
	assert.True(t, remote.IsNotFound(err))

	// Partial coordinates are rejected locally.
	draft.Fields.Bay = ""
	_, err = l.CommitEdit(ctx, draft)
	assert.True(t, remote.IsValidation(err))

	draft.Fields = remote.LocationFields{Warehouse: "B2", Street: "R9", Module: "M3", Bay: "C7"}
	record, err := l.CommitEdit(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.ID)
	assert.Equal(t, int64(2), gotID)
	assert.Equal(t, draft.Fields, gotFields)
}
