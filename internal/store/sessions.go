// Package store owns session state and the report archive. Sessions live
// in memory only; the archive (worker side) persists delivered reports.
package store

import (
	"sync"
	"time"

	"chameleon.app/honeypot/internal/model"
)

// Sessions is the in-memory session registry. Mutation of one session id is
// serialized through a per-entry lock; distinct ids never block each other.
// The registry lock is only held for map lookups, never across a callback.
type Sessions struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry

	now func() time.Time
}

type sessionEntry struct {
	mu   sync.Mutex
	sess *model.Session
}

func NewSessions() *Sessions {
	return &Sessions{
		entries: make(map[string]*sessionEntry),
		now:     time.Now,
	}
}

// NewSessionsWithClock is used by tests to control time.
func NewSessionsWithClock(now func() time.Time) *Sessions {
	s := NewSessions()
	s.now = now
	return s
}

// With resolves the session for id, creating it if absent, and runs fn with
// exclusive access to it. Last-activity is touched on access unless the
// session is terminal; terminal sessions are never mutated again.
func (s *Sessions) With(id string, fn func(sess *model.Session) error) error {
	entry := s.resolve(id)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.sess.Terminal {
		entry.sess.LastActivity = s.now()
	}
	return fn(entry.sess)
}

func (s *Sessions) resolve(id string) *sessionEntry {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[id]; ok {
		return entry
	}
	entry = &sessionEntry{sess: model.NewSession(id, s.now())}
	s.entries[id] = entry
	return entry
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns copies of every session for read-only aggregation.
// Indicator sets are copied so callers cannot race live mutations.
func (s *Sessions) Snapshot() []model.Session {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	sessions := make([]model.Session, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		copied := *entry.sess
		copied.Indicators = model.NewIndicatorSet()
		copied.Indicators.Merge(entry.sess.Indicators)
		entry.mu.Unlock()
		sessions = append(sessions, copied)
	}
	return sessions
}

// EvictExpired removes sessions idle for longer than ttl and returns how
// many were evicted. The idle check and the map delete happen under both
// the registry lock and the entry lock, so a mutation that slips in ahead
// of the sweep touches last-activity and the re-check spares the session.
func (s *Sessions) EvictExpired(ttl time.Duration) int {
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	evicted := 0
	for _, id := range ids {
		s.mu.Lock()
		entry, ok := s.entries[id]
		if !ok {
			s.mu.Unlock()
			continue
		}

		// Holding s.mu keeps resolve from handing this entry to a new
		// caller; an in-flight With already owns entry.mu and finishes
		// before the idle re-check below sees its touch.
		entry.mu.Lock()
		if entry.sess.Idle(s.now()) > ttl {
			delete(s.entries, id)
			evicted++
		}
		entry.mu.Unlock()
		s.mu.Unlock()
	}
	return evicted
}

// Remove deletes a session outright.
func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}
