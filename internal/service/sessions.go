package service

import (
	"sync"
	"time"

	"basegraph.app/assign/internal/model"
)

// sessionEntry serialises every operation on one session. Different sessions
// never block each other.
type sessionEntry struct {
	mu      sync.Mutex
	session *model.EditSession
}

type sessionRegistry struct {
	mu      sync.Mutex
	entries map[int64]*sessionEntry
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{entries: make(map[int64]*sessionEntry)}
}

func (r *sessionRegistry) put(s *model.EditSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.ID] = &sessionEntry{session: s}
}

func (r *sessionRegistry) get(id int64) (*sessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	return entry, ok
}

func (r *sessionRegistry) remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *sessionRegistry) snapshot() []*sessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*sessionEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	return out
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// idle reports whether the session has not been touched since before cutoff.
func (e *sessionEntry) idle(cutoff time.Time) bool {
	return e.session.TouchedAt.Before(cutoff)
}
