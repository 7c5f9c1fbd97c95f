package ratelimit

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Limiter answers whether one more request under the given key fits in the
// current window. Keys are client-identifier+path strings.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests in redis so the limit holds across
// instances. Fixed window: the counter key expires with the window.
type RedisLimiter struct {
	client   redis.Cmdable
	requests int
	window   time.Duration
}

func NewRedisLimiter(client redis.Cmdable, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		requests: requests,
		window:   window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	const op = "ratelimit.RedisLimiter.Allow"

	redisKey := "ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	return count <= int64(l.requests), nil
}

// MemoryLimiter is the single-instance fallback for local runs without
// redis. Best-effort only: each instance counts on its own.
type MemoryLimiter struct {
	counters *cache.Cache
	requests int
}

func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counters: cache.New(window, 2*window),
		requests: requests,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if err := l.counters.Add(key, int64(1), cache.DefaultExpiration); err == nil {
		return l.requests >= 1, nil
	}

	count, err := l.counters.IncrementInt64(key, 1)
	if err != nil {
		// entry expired between Add and Increment, start a fresh window
		l.counters.Set(key, int64(1), cache.DefaultExpiration)
		return l.requests >= 1, nil
	}

	return count <= int64(l.requests), nil
}
