package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a process-local map with per-entry expiry. Entries never leave
// the process.
type Store[V any] struct {
	name  string
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	items map[string]entry[V]
}

// New creates a store whose entries live for ttl after the last write.
func New[V any](name string, ttl time.Duration) *Store[V] {
	return &Store[V]{
		name:  name,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]entry[V]),
	}
}

// Put stores value under a fresh random key and returns the key.
func (s *Store[V]) Put(value V) string {
	key := uuid.New().String()
	s.Set(key, value)
	return key
}

// Set stores value under key, replacing any previous value.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry[V]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Get returns the live value for key.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero V
	e, ok := s.items[key]
	if !ok {
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.items, key)
		return zero, false
	}
	return e.value, true
}

// Take returns the live value for key and removes it.
func (s *Store[V]) Take(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero V
	e, ok := s.items[key]
	if !ok {
		return zero, false
	}
	delete(s.items, key)
	if s.now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Delete removes key.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Len returns the number of stored entries, expired ones included.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for key, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store[V]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("store", s.name).Msg("memstore sweeper stopped")
			return
		case <-ticker.C:
		}

		if n := s.Sweep(); n > 0 {
			log.Debug().Str("store", s.name).Int("expired", n).Msg("memstore entries expired")
		}
	}
}
