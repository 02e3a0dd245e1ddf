// Package session owns the set of known client identifiers: the server's
// only other piece of shared state besides the Batcher itself.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Registry issues and validates client IDs. It is write-mostly-append: IDs
// are never reused or evicted during the process lifetime, matching the
// original TBServer's users_ set.
type Registry struct {
	mu    sync.RWMutex
	known map[string]struct{}
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{known: make(map[string]struct{})}
}

// Connect generates a fresh UUIDv4, records it, and returns its canonical
// lowercase 36-character string form.
func (r *Registry) Connect() string {
	id := uuid.New().String()

	r.mu.Lock()
	r.known[id] = struct{}{}
	r.mu.Unlock()

	return id
}

// Known reports whether id was ever returned by Connect.
func (r *Registry) Known(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.known[id]
	return ok
}

// Count returns the number of registered clients. Exposed for diagnostics
// and tests; not part of the wire protocol.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.known)
}
