package cache

import (
	"context"
	"sync"
	"time"
)

const memorySweepInterval = 5 * time.Minute

type entry struct {
	value   string
	expires time.Time
}

func (e entry) expired(now time.Time) bool { return now.After(e.expires) }

// MemoryStore keeps keys in process. State is lost on restart and is not
// shared between replicas; use RedisStore for that.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
	done    chan struct{}
	closed  sync.Once
}

// NewMemoryStore creates a store and starts its expiry sweep. Call Close to
// stop the sweep.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: map[string]entry{},
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go s.sweepEvery(memorySweepInterval)
	return s
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expires: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Take reads and deletes key under one lock
func (s *MemoryStore) Take(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	if !ok || e.expired(s.now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	s.closed.Do(func() { close(s.done) })
	return nil
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}
}

func (s *MemoryStore) sweepEvery(d time.Duration) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			s.sweep()
		}
	}
}
