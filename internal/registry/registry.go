// Package registry tracks the set of camera identifiers that have ever
// uploaded a frame. The roster only grows; there is no expiry.
package registry

import "sync"

// Registry is the in-memory camera roster
type Registry struct {
	mu    sync.RWMutex
	seen  map[string]struct{}
	order []string // insertion order, for deterministic listing
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		seen: make(map[string]struct{}),
	}
}

// Mark records a camera identifier as known. Idempotent; returns true only
// when the identifier was not seen before.
func (r *Registry) Mark(cameraID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.seen[cameraID]; exists {
		return false
	}

	r.seen[cameraID] = struct{}{}
	r.order = append(r.order, cameraID)
	return true
}

// List returns a snapshot of all known camera identifiers in the order they
// first appeared. The result is never nil.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roster := make([]string, len(r.order))
	copy(roster, r.order)
	return roster
}

// Count returns the number of known cameras
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
