package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a single-process fixed-window counter map
type MemoryLimiter struct {
	cfg     Config
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryLimiter creates a limiter and starts its cleanup loop (every 10 minutes)
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	l := newMemoryLimiter(cfg, time.Now)
	go l.cleanupLoop(10 * time.Minute)
	return l
}

func newMemoryLimiter(cfg Config, now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg.normalized(),
		windows: make(map[string]*window),
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Allow counts a request against key. Rejected requests are not counted.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if ok && w.resetAt.Before(now) {
		delete(l.windows, key)
		ok = false
	}
	if !ok {
		w = &window{resetAt: now.Add(l.cfg.Window)}
		l.windows[key] = w
	}

	if w.count >= l.cfg.MaxRequests {
		return Result{Success: false, Limit: l.cfg.MaxRequests, Remaining: 0, Reset: w.resetAt}, nil
	}
	w.count++
	return Result{
		Success:   true,
		Limit:     l.cfg.MaxRequests,
		Remaining: l.cfg.MaxRequests - w.count,
		Reset:     w.resetAt,
	}, nil
}

// Cleanup drops every expired window
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if w.resetAt.Before(now) {
			delete(l.windows, key)
		}
	}
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Close stops the cleanup loop
func (l *MemoryLimiter) Close() error {
	l.once.Do(func() { close(l.stop) })
	return nil
}

func (l *MemoryLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
