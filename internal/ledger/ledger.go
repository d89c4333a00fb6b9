// Package ledger exposes the movement history operations: commit, listing,
// location correction, and the three distinct deletion choices (one record,
// a vehicle with its whole history, a location with its whole history).
package ledger

import (
	"context"

	"yard-tracking-backend/internal/remote"
)

// Ledger wraps the remote service with client-side validation and the
// refresh-after-mutation policy.
type Ledger struct {
	svc remote.Service
}

// New creates a ledger over the given remote service.
func New(svc remote.Service) *Ledger {
	return &Ledger{svc: svc}
}

// Create commits a new movement record. Both identities must be present;
// everything else is validated server-side.
func (l *Ledger) Create(ctx context.Context, vehicleID, locationID int64) (remote.HistoryRecord, error) {
	if vehicleID <= 0 || locationID <= 0 {
		return remote.HistoryRecord{}, remote.Validation("vehicle and location identities are required")
	}
	return l.svc.CreateHistory(ctx, vehicleID, locationID)
}

// List returns a point-in-time snapshot of the history, most recent first,
// joined with vehicle and location summaries. It is not a live subscription.
func (l *Ledger) List(ctx context.Context) ([]remote.HistoryRecord, error) {
	return l.svc.ListHistory(ctx)
}

// Draft is an editable copy of one record's location. Only the location may
// change; the identity fields travel along for display.
type Draft struct {
	RecordID int64
	Vehicle  remote.Vehicle
	Fields   remote.LocationFields
}

// LoadForEdit fetches the record and opens a draft for location correction.
func (l *Ledger) LoadForEdit(ctx context.Context, recordID int64) (Draft, error) {
	if recordID <= 0 {
		return Draft{}, remote.Validation("record identity is required")
	}
	records, err := l.svc.ListHistory(ctx)
	if err != nil {
		return Draft{}, err
	}
	for _, r := range records {
		if r.ID == recordID {
			return Draft{
				RecordID: r.ID,
				Vehicle:  r.Vehicle,
				Fields: remote.LocationFields{
					Warehouse: r.Location.Warehouse,
					Street:    r.Location.Street,
					Module:    r.Location.Module,
					Bay:       r.Location.Bay,
				},
			}, nil
		}
	}
	return Draft{}, remote.NotFound("history record not found")
}

// CommitEdit applies a location correction. All four coordinates are
// required; vehicleId and receivedAt are never altered.
func (l *Ledger) CommitEdit(ctx context.Context, draft Draft) (remote.HistoryRecord, error) {
	f := draft.Fields
	if f.Warehouse == "" || f.Street == "" || f.Module == "" || f.Bay == "" {
		return remote.HistoryRecord{}, remote.Validation("all four location fields are required")
	}
	return l.svc.UpdateHistoryLocation(ctx, draft.RecordID, f)
}

// DeleteRecord removes exactly one record. The returned list is always
// re-fetched, success or failure, so stale cascaded-away rows are never kept
// on display.
func (l *Ledger) DeleteRecord(ctx context.Context, recordID int64) ([]remote.HistoryRecord, error) {
	err := l.svc.DeleteHistory(ctx, recordID)
	return l.refreshAfter(ctx, err)
}

// DeleteVehicleCascade removes the vehicle and every record referencing it.
func (l *Ledger) DeleteVehicleCascade(ctx context.Context, vehicleID int64) ([]remote.HistoryRecord, error) {
	err := l.svc.DeleteVehicle(ctx, vehicleID)
	return l.refreshAfter(ctx, err)
}

// DeleteLocationCascade removes the location and every record referencing it.
func (l *Ledger) DeleteLocationCascade(ctx context.Context, locationID int64) ([]remote.HistoryRecord, error) {
	err := l.svc.DeleteLocation(ctx, locationID)
	return l.refreshAfter(ctx, err)
}

// ClearAll removes every history record, leaving vehicles and locations.
func (l *Ledger) ClearAll(ctx context.Context) ([]remote.HistoryRecord, error) {
	err := l.svc.ClearHistory(ctx)
	return l.refreshAfter(ctx, err)
}

// refreshAfter re-fetches the list after a mutation. The mutation error wins
// over a refresh error so the operator sees what actually went wrong.
func (l *Ledger) refreshAfter(ctx context.Context, opErr error) ([]remote.HistoryRecord, error) {
	records, listErr := l.svc.ListHistory(ctx)
	if opErr != nil {
		return records, opErr
	}
	return records, listErr
}
