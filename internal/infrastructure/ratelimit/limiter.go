// Package ratelimit implements fixed-window request counters keyed by caller.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the state of a key's window after a request
type Result struct {
	Success   bool
	Limit     int
	Remaining int
	Reset     time.Time // end of the current window
}

// Limiter decides whether one more request for key fits in its window
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Config sets the window size and request budget
type Config struct {
	MaxRequests int
	Window      time.Duration
}

// DefaultConfig is 60 requests per minute
var DefaultConfig = Config{MaxRequests: 60, Window: time.Minute}

func (c Config) normalized() Config {
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultConfig.MaxRequests
	}
	if c.Window <= 0 {
		c.Window = DefaultConfig.Window
	}
	return c
}
