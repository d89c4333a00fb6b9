// Package lastused keeps the last successfully used vehicle and location
// payloads so forms can be pre-filled. It is purely advisory and never
// consulted for correctness.
package lastused

import (
	"encoding/json"

	"github.com/patrickmn/go-cache"

	"yard-tracking-backend/internal/scan"
)

// Cache stores one payload per kind.
type Cache struct {
	store *cache.Cache
}

// New creates an empty cache. Entries never expire.
func New() *Cache {
	return &Cache{store: cache.New(cache.NoExpiration, cache.NoExpiration)}
}

// SetLast remembers the payload for the given kind, replacing any previous one.
func (c *Cache) SetLast(kind scan.Kind, payload json.RawMessage) {
	c.store.Set(string(kind), payload, cache.NoExpiration)
}

// GetLast returns the remembered payload for the kind, if any.
func (c *Cache) GetLast(kind scan.Kind) (json.RawMessage, bool) {
	v, found := c.store.Get(string(kind))
	if !found {
		return nil, false
	}
	payload, ok := v.(json.RawMessage)
	if !ok {
		return nil, false
	}
	return payload, true
}
