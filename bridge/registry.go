// Package bridge implements the acceptor spec.md §4.6 describes: it
// binds the configured listeners, constructs one translate.Session per
// accepted connection, and owns the process-wide connection registry.
package bridge

import (
	"net/netip"
	"sync"
)

// Registry is the process-wide "connection registry" spec.md §5
// describes: session_id -> peer address, mutated only by the owning
// session's own goroutine (insert on connect, delete on disconnect),
// so the shared map needs a mutex but no cross-session coordination.
// Grounded on the teacher's InMemorySessionManager map-plus-mutex shape
// (state/session_manager.go), narrowed to the single-field mapping
// spec.md actually calls for.
type Registry struct {
	mu      sync.Mutex
	entries map[string]netip.AddrPort
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]netip.AddrPort)}
}

// Insert records the peer address for a session_id.
func (r *Registry) Insert(sessionID string, addr netip.AddrPort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[sessionID] = addr
}

// Delete removes a session_id's entry, if present.
func (r *Registry) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

// Lookup returns the peer address recorded for sessionID, if any.
func (r *Registry) Lookup(sessionID string) (netip.AddrPort, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr, ok := r.entries[sessionID]
	return addr, ok
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
