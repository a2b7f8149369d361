package rest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// localRateLimiter keeps one token bucket per key in process memory.
type localRateLimiter struct {
	requestsPerSecond int
	burst             int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLocalRateLimiter builds an in-process per-key limiter.
func NewLocalRateLimiter(requestsPerSecond, burst int) RateLimiter {
	return &localRateLimiter{
		requestsPerSecond: requestsPerSecond,
		burst:             burst,
		limiters:          make(map[string]*rate.Limiter),
	}
}

func (l *localRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.requestsPerSecond), l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// redisRateLimiter counts requests per key in one-second windows, shared
// across instances. Window keys expire on their own.
type redisRateLimiter struct {
	client            *redis.Client
	requestsPerSecond int
}

// NewRedisRateLimiter builds a Redis-backed distributed limiter.
func NewRedisRateLimiter(client *redis.Client, requestsPerSecond int) RateLimiter {
	return &redisRateLimiter{client: client, requestsPerSecond: requestsPerSecond}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := time.Now().Truncate(time.Second).Unix()
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, 2*time.Second)
	}

	return count <= int64(l.requestsPerSecond), nil
}
