// Package consult answers ad-hoc "where is this vehicle" questions by plate,
// chassis number or contract code.
package consult

import (
	"context"
	"sync"

	"yard-tracking-backend/internal/remote"
)

// Consult performs one lookup at a time; a second query while one is
// outstanding is rejected, not queued.
type Consult struct {
	svc remote.Service

	mu   sync.Mutex
	busy bool
}

// New creates a consult over the given remote service.
func New(svc remote.Service) *Consult {
	return &Consult{svc: svc}
}

// Search resolves a free-text query to a vehicle and, when it has receiving
// history, its latest location. The caller can distinguish no-match from
// transport failure through the error kind.
func (c *Consult) Search(ctx context.Context, query string) (remote.SearchResult, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return remote.SearchResult{}, remote.Validation("a search is already in progress")
	}
	c.busy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	return c.svc.SearchVehicle(ctx, query)
}
