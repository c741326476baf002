// Package cache provides a process-lifetime TTL cache for resolved payloads.
//
// The store is deliberately volatile: entries live in a plain map guarded by
// a RWMutex, expiry is checked lazily on lookup, and nothing survives a
// process restart. There is no capacity bound and no background sweeper;
// the TTL is the only eviction mechanism.
package cache

import (
	"sync"
	"time"
)

// entry is a stored value stamped with its creation time.
type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Store is a concurrency-safe key/value cache with a fixed TTL.
// The zero value is not usable; construct with New.
type Store[V any] struct {
	mu  sync.RWMutex
	m   map[string]entry[V]
	ttl time.Duration

	// now is the clock used for stamping and expiry checks.
	// Overridable in tests.
	now func() time.Time
}

// New creates a Store with the given TTL.
func New[V any](ttl time.Duration) *Store[V] {
	if ttl <= 0 {
		panic("cache: ttl must be positive")
	}
	return &Store[V]{
		m:   make(map[string]entry[V]),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the value stored under key.
// An entry whose age has reached the TTL is indistinguishable from a
// missing one: ok is false and the stale slot is dropped.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		Misses.Inc()
		var zero V
		return zero, false
	}

	if s.now().Sub(e.createdAt) >= s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the entry in the meantime.
		if cur, still := s.m[key]; still && s.now().Sub(cur.createdAt) >= s.ttl {
			delete(s.m, key)
			Entries.Set(float64(len(s.m)))
		}
		s.mu.Unlock()

		Misses.Inc()
		var zero V
		return zero, false
	}

	Hits.Inc()
	return e.value, true
}

// Put inserts or overwrites the value under key, stamping the current time.
func (s *Store[V]) Put(key string, value V) {
	s.mu.Lock()
	s.m[key] = entry[V]{value: value, createdAt: s.now()}
	Entries.Set(float64(len(s.m)))
	s.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// TTL returns the configured time-to-live.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

// SetClock replaces the store's clock. Intended for tests that need to
// control expiry without sleeping.
func (s *Store[V]) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
