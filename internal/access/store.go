package access

import (
	"sync"
	"time"
)

// Window is one fixed-window counter for a rate limit key
type Window struct {
	Count int
	Start time.Time
}

// WindowStore holds rate windows keyed by identity. Implementations must be
// safe for concurrent use. CompareAndSwap is the only mutation primitive so
// that read-modify-write cycles on the same key serialize correctly; the
// limiter retries on CAS failure. The interface leaves room for a shared
// external store in multi-instance deployments.
type WindowStore interface {
	// Get returns the window for key and whether it exists
	Get(key string) (Window, bool)

	// CompareAndSwap installs next for key iff the current value matches
	// expected. A nil expected means "only if the key is absent". Returns
	// whether the swap happened.
	CompareAndSwap(key string, expected *Window, next Window) bool
}

// MemoryStore is the in-process WindowStore used by a single-instance
// deployment. Counters do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

// NewMemoryStore creates an empty in-memory window store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

// Get returns the window for key
func (s *MemoryStore) Get(key string) (Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	return w, ok
}

// CompareAndSwap installs next iff the current value matches expected
func (s *MemoryStore) CompareAndSwap(key string, expected *Window, next Window) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.windows[key]
	if expected == nil {
		if ok {
			return false
		}
	} else {
		if !ok || cur != *expected {
			return false
		}
	}
	s.windows[key] = next
	return true
}

// Len returns the number of live windows
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Sweep deletes windows whose start is older than maxAge and returns how
// many were removed. Run periodically so abandoned keys (one-off anonymous
// IPs, deleted accounts) do not accumulate for the life of the process.
func (s *MemoryStore) Sweep(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if now.Sub(w.Start) > maxAge {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}
