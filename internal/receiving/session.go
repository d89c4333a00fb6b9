// Package receiving coordinates the two-sided identification of a vehicle
// and a destination slot, and gates the commit that writes the movement
// record. Either side can be satisfied by a QR scan or by a manual search,
// in any order.
package receiving

import (
	"context"
	"sync"
	"time"

	"yard-tracking-backend/internal/lastused"
	"yard-tracking-backend/internal/remote"
	"yard-tracking-backend/internal/scan"
)

// SideState is the state of one identification side.
type SideState string

const (
	SideEmpty     SideState = "empty"
	SideSearching SideState = "searching"
	SideFound     SideState = "found"
	SideNotFound  SideState = "not_found" // retryable
)

// Phase is the combined state of the session.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseReady        Phase = "ready"
	PhaseCommitting   Phase = "committing"
	PhaseCommitted    Phase = "committed"
	PhaseCommitFailed Phase = "commit_failed" // retryable without re-identifying
)

// allowCommitFrom lists the phases a commit may start from. Everything else
// rejects the request instead of queueing it.
var allowCommitFrom = map[Phase]bool{
	PhaseReady:        true,
	PhaseCommitFailed: true,
}

// Snapshot is a read-only view of the session for the display layer.
type Snapshot struct {
	Phase         Phase
	VehicleState  SideState
	Vehicle       *remote.Vehicle
	LocationState SideState
	Location      *remote.Location
	Failure       string
	LastRecord    *remote.HistoryRecord
}

// Session is a receiving workflow for one screen. Methods are safe for
// concurrent use, but the lock is never held across a network call: a side
// that is cleared while its search is in flight simply drops the late result.
type Session struct {
	svc        remote.Service
	last       *lastused.Cache // advisory, may be nil
	resetDelay time.Duration

	mu            sync.Mutex
	phase         Phase
	vehicleState  SideState
	vehicle       *remote.Vehicle
	vehicleGen    int
	locationState SideState
	location      *remote.Location
	locationGen   int
	failure       string
	lastRecord    *remote.HistoryRecord
	resetTimer    *time.Timer
}

// NewSession creates an idle session. resetDelay is how long a committed
// confirmation stays on screen before both sides clear; zero means the
// default of five seconds.
func NewSession(svc remote.Service, last *lastused.Cache, resetDelay time.Duration) *Session {
	if resetDelay <= 0 {
		resetDelay = 5 * time.Second
	}
	return &Session{
		svc:           svc,
		last:          last,
		resetDelay:    resetDelay,
		phase:         PhaseIdle,
		vehicleState:  SideEmpty,
		locationState: SideEmpty,
	}
}

// Snapshot returns the current combined state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Phase:         s.phase,
		VehicleState:  s.vehicleState,
		Vehicle:       s.vehicle,
		LocationState: s.locationState,
		Location:      s.location,
		Failure:       s.failure,
		LastRecord:    s.lastRecord,
	}
}

// recomputePhase derives the combined phase from the two sides. Only valid
// outside Committing/Committed, which are set explicitly.
func (s *Session) recomputePhase() {
	if s.vehicleState == SideFound && s.locationState == SideFound {
		if s.phase != PhaseCommitFailed {
			s.phase = PhaseReady
		}
		return
	}
	s.phase = PhaseIdle
}

// IdentifyVehicle resolves the vehicle side through the remote fuzzy search.
// A second search while one is outstanding is rejected, not queued.
func (s *Session) IdentifyVehicle(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.phase == PhaseCommitting {
		s.mu.Unlock()
		return remote.Validation("commit in progress")
	}
	if s.vehicleState == SideSearching {
		s.mu.Unlock()
		return remote.Validation("vehicle search already in progress")
	}
	s.vehicleState = SideSearching
	gen := s.vehicleGen
	s.mu.Unlock()

	result, err := s.svc.SearchVehicle(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.vehicleGen {
		// Side was cleared while the search was in flight; drop the result.
		return nil
	}
	if err != nil {
		if remote.IsValidation(err) {
			s.vehicleState = SideEmpty
		} else {
			s.vehicleState = SideNotFound
		}
		s.recomputePhase()
		return err
	}

	vehicle := result.Vehicle
	s.vehicle = &vehicle
	s.vehicleState = SideFound
	s.rememberVehicle(vehicle)
	s.recomputePhase()
	return nil
}

// ScanVehicle satisfies the vehicle side from a QR payload. No network call
// is involved; a payload of the wrong kind is rejected.
func (s *Session) ScanVehicle(payload []byte) error {
	vehicle, err := scan.DecodeVehicle(payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseCommitting {
		return remote.Validation("commit in progress")
	}
	s.vehicleGen++
	s.vehicle = vehicle
	s.vehicleState = SideFound
	s.rememberVehicle(*vehicle)
	s.recomputePhase()
	return nil
}

// IdentifyLocation resolves the location side through the remote filter
// search. Warehouse is the only mandatory coordinate.
func (s *Session) IdentifyLocation(ctx context.Context, fields remote.LocationFields) error {
	s.mu.Lock()
	if s.phase == PhaseCommitting {
		s.mu.Unlock()
		return remote.Validation("commit in progress")
	}
	if s.locationState == SideSearching {
		s.mu.Unlock()
		return remote.Validation("location search already in progress")
	}
	s.locationState = SideSearching
	gen := s.locationGen
	s.mu.Unlock()

	location, err := s.svc.SearchLocation(ctx, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.locationGen {
		return nil
	}
	if err != nil {
		if remote.IsValidation(err) {
			s.locationState = SideEmpty
		} else {
			s.locationState = SideNotFound
		}
		s.recomputePhase()
		return err
	}

	s.location = &location
	s.locationState = SideFound
	s.rememberLocation(location)
	s.recomputePhase()
	return nil
}

// ScanLocation satisfies the location side from a QR payload.
func (s *Session) ScanLocation(payload []byte) error {
	location, err := scan.DecodeLocation(payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseCommitting {
		return remote.Validation("commit in progress")
	}
	s.locationGen++
	s.location = location
	s.locationState = SideFound
	s.rememberLocation(*location)
	s.recomputePhase()
	return nil
}

// ClearVehicle forces the vehicle side back to empty. Legal at any time
// except while a commit is outstanding.
func (s *Session) ClearVehicle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseCommitting {
		return remote.Validation("commit in progress")
	}
	s.vehicleGen++
	s.vehicle = nil
	s.vehicleState = SideEmpty
	s.failure = ""
	s.recomputePhase()
	return nil
}

// ClearLocation forces the location side back to empty.
func (s *Session) ClearLocation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseCommitting {
		return remote.Validation("commit in progress")
	}
	s.locationGen++
	s.location = nil
	s.locationState = SideEmpty
	s.failure = ""
	s.recomputePhase()
	return nil
}

// Commit writes the movement record once both sides are identified. A commit
// from any other phase is rejected; a second commit while one is outstanding
// is rejected rather than queued. On failure both sides stay identified so
// the operator can retry without re-scanning.
func (s *Session) Commit(ctx context.Context) (*remote.HistoryRecord, error) {
	s.mu.Lock()
	if s.phase == PhaseCommitting {
		s.mu.Unlock()
		return nil, remote.Validation("commit already in progress")
	}
	if !allowCommitFrom[s.phase] || s.vehicleState != SideFound || s.locationState != SideFound {
		s.mu.Unlock()
		return nil, remote.Validation("both vehicle and location must be identified")
	}
	vehicleID := s.vehicle.ID
	locationID := s.location.ID
	s.phase = PhaseCommitting
	s.failure = ""
	s.mu.Unlock()

	record, err := s.svc.CreateHistory(ctx, vehicleID, locationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.phase = PhaseCommitFailed
		s.failure = err.Error()
		return nil, err
	}

	s.phase = PhaseCommitted
	s.lastRecord = &record
	s.scheduleReset()
	return &record, nil
}

// scheduleReset clears both sides after the display delay. Called with the
// lock held.
func (s *Session) scheduleReset() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	s.resetTimer = time.AfterFunc(s.resetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.phase != PhaseCommitted {
			return
		}
		s.vehicleGen++
		s.locationGen++
		s.vehicle = nil
		s.location = nil
		s.vehicleState = SideEmpty
		s.locationState = SideEmpty
		s.failure = ""
		s.phase = PhaseIdle
	})
}

// Close releases the pending reset timer, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
}

func (s *Session) rememberVehicle(v remote.Vehicle) {
	if s.last == nil {
		return
	}
	if payload, err := scan.EncodeVehicle(v); err == nil {
		s.last.SetLast(scan.KindVehicle, payload)
	}
}

func (s *Session) rememberLocation(l remote.Location) {
	if s.last == nil {
		return
	}
	if payload, err := scan.EncodeLocation(l); err == nil {
		s.last.SetLast(scan.KindLocation, payload)
	}
}
