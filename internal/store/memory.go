package store

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached value and its expiry deadline.
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// MemoryStore is a concurrency-safe in-memory implementation of Store.
// Expiry is lazy: expired entries are treated as absent and removed on read,
// no background sweep.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry

	// now is swappable in tests.
	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Has reports whether a live entry exists for key.
func (s *MemoryStore) Has(ctx context.Context, key string) bool {
	_, ok := s.Get(ctx, key)
	return ok
}

// Get returns the value for key if present and unexpired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock; a Put may have raced us.
		if cur, still := s.data[key]; still && cur.expired(s.now()) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Put stores value under key for the given ttl, replacing any previous entry.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}
