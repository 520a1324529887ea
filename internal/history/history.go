// Package history keeps the bounded trail of visited routes used by the
// back-press interceptor. It replaces the original implicit slice-slicing
// with an explicit fixed-capacity ring: pushes beyond capacity evict the
// oldest entry, and pushing the current route twice is a no-op so redirect
// loops never pad the trail.
package history

import "sync"

// DefaultCapacity matches the original app's five-route trail.
const DefaultCapacity = 5

// Ring is a fixed-capacity route history. The zero value is not usable;
// construct with New.
type Ring struct {
	mu      sync.Mutex
	cap     int
	entries []string
}

// New creates a ring holding at most capacity routes. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{cap: capacity, entries: make([]string, 0, capacity)}
}

// Push records a visited route. It returns false when the route equals the
// most recent entry (the push is skipped to avoid duplicates from redirect
// re-entry).
func (r *Ring) Push(routePath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.entries); n > 0 && r.entries[n-1] == routePath {
		return false
	}
	if len(r.entries) == r.cap {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:r.cap-1]
	}
	r.entries = append(r.entries, routePath)
	return true
}

// Last returns the most recent entry.
func (r *Ring) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return "", false
	}
	return r.entries[len(r.entries)-1], true
}

// Previous returns the entry just before the most recent one, i.e. where a
// back navigation would land.
func (r *Ring) Previous() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) < 2 {
		return "", false
	}
	return r.entries[len(r.entries)-2], true
}

// Pop removes and returns the most recent entry.
func (r *Ring) Pop() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return "", false
	}
	last := r.entries[len(r.entries)-1]
	r.entries = r.entries[:len(r.entries)-1]
	return last, true
}

// Len returns the number of recorded routes.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Routes returns a copy of the trail, oldest first.
func (r *Ring) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}
