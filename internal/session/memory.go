package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory. Entries older than ttl are
// treated as missing; ttl <= 0 keeps them forever.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, key string, e Entry) error {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = s.now()
	}
	s.mu.Lock()
	s.entries[NormalizeKey(key)] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	key = NormalizeKey(key)
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, ErrNotFound
	}
	if s.ttl > 0 && s.now().Sub(e.UpdatedAt) > s.ttl {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.UpdatedAt.Equal(e.UpdatedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Kind() string { return "memory" }

func (s *MemoryStore) Close() error { return nil }
