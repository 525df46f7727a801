package session

import (
	"context"
	"sync"
	"time"

	"showroom/internal/core"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is the default backend: a mutex-guarded map with TTL
// expiry and a periodic sweep goroutine.
type MemoryStore struct {
	mu           sync.Mutex
	ttl          time.Duration
	entries      map[string]memoryEntry
	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

type memoryEntry struct {
	state     core.EditState
	expiresAt time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl.
// A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		ttl:       ttl,
		entries:   make(map[string]memoryEntry),
		stopSweep: make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (core.EditState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return core.EditState{}, ErrNotFound
	}
	if s.ttl > 0 && time.Now().After(e.expiresAt) {
		delete(s.entries, id)
		return core.EditState{}, ErrNotFound
	}
	// Hand out a deep copy. The state carries maps, and two requests
	// for the same record must never share them.
	return e.state.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, id string, state core.EditState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{state: state.Clone(), expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close stops the sweep goroutine.
func (s *MemoryStore) Close() error {
	s.shutdownOnce.Do(func() {
		close(s.stopSweep)
	})
	return nil
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
