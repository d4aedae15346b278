// Package cache provides the content-addressed key-value stores backing
// CachedTool: a process-local store for tests and a SQLite-backed disk
// store that survives restarts. Entries are plain strings with a fixed
// time-to-live; expired entries read as misses.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the expiry applied to cached tool results when the caller
// does not override it.
const DefaultTTL = 24 * time.Hour

// Store is the minimal contract CachedTool needs. Implementations must be
// safe for concurrent readers and writers.
type Store interface {
	// Get returns the value for key and whether a live entry was found.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any existing entry. A ttl <= 0
	// falls back to DefaultTTL.
	Set(key, value string, ttl time.Duration) error

	// Close releases any resources held by the store.
	Close() error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded in-process Store. Entries vanish with the
// process; use SQLiteStore for the persisted cache directory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	now func() time.Time // overridable in tests
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Store. Expired entries are deleted lazily.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false, nil
	}

	return entry.value, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}

	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of entries, live or expired.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
