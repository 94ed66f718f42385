package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared by every replica
type RedisLimiter struct {
	client *redis.Client
	cfg    Config
	prefix string
}

// NewRedisLimiter creates a limiter that stores counters under prefix
func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg.normalized(), prefix: "ratelimit:"}
}

// Allow increments the key's counter, starting the window on the first hit
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit counter: %w", err)
	}

	count := incr.Val()
	ttl := pttl.Val()
	// First hit, or a key that lost its expiry
	if count == 1 || ttl < 0 {
		if err := l.client.PExpire(ctx, k, l.cfg.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expiry: %w", err)
		}
		ttl = l.cfg.Window
	}

	remaining := l.cfg.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Success:   count <= int64(l.cfg.MaxRequests),
		Limit:     l.cfg.MaxRequests,
		Remaining: remaining,
		Reset:     time.Now().Add(ttl),
	}, nil
}
