package store

import (
	"context"
	"sync"
	"time"

	"onwserver/models"
)

// MemoryStore keeps sessions in a mutex-guarded map. Sessions expire
// after the TTL elapses without activity; Sweep removes expired
// entries and is meant to run on a schedule.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
}

type memoryEntry struct {
	session *models.Session
	expires time.Time
}

// NewMemoryStore creates an in-memory session store. A non-positive
// ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
	}
}

func (s *MemoryStore) touch(e *memoryEntry) {
	if s.ttl > 0 {
		e.expires = time.Now().Add(s.ttl)
	}
}

func (s *MemoryStore) live(e *memoryEntry) bool {
	return s.ttl <= 0 || time.Now().Before(e.expires)
}

// Get returns a copy of the stored session, or nil when the id is
// unknown or expired.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok || !s.live(entry) {
		return nil, nil
	}
	return entry.session.Clone(), nil
}

// Set stores a copy of the session under the id.
func (s *MemoryStore) Set(_ context.Context, id string, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &memoryEntry{session: session.Clone()}
	s.touch(entry)
	s.sessions[id] = entry
	return nil
}

// UpdateState replaces the stored game state, leaving the cursor alone.
func (s *MemoryStore) UpdateState(_ context.Context, id string, state *models.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok || !s.live(entry) {
		return ErrNoSession
	}
	entry.session.State = state.Clone()
	s.touch(entry)
	return nil
}

// AdvanceStep increments the cursor, marking the session completed
// once it runs past the last step, and returns the updated session.
func (s *MemoryStore) AdvanceStep(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok || !s.live(entry) {
		return nil, ErrNoSession
	}
	entry.session.StepIndex++
	entry.session.Completed = entry.session.StepIndex >= len(entry.session.Steps)
	s.touch(entry)
	return entry.session.Clone(), nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep evicts expired sessions and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.sessions {
		if !s.live(entry) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
