// Package ratelimit throttles callers by key, backed by Redis with an in-process fallback.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisConfig holds connection settings for Redis.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// NewRedisClient creates a Redis client from cfg.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit requests per window for each key.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow increments the counter for key and reports whether it is still within the limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	redisKey := "rate_limit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

// NewLocalLimiter spreads limit requests evenly across window, allowing bursts of burst.
func NewLocalLimiter(limit int, window time.Duration, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &LocalLimiter{
		rps:   rate.Limit(float64(limit) / window.Seconds()),
		burst: burst,
	}
}

// Allow never fails.
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.getLimiter(key).Allow(), nil
}

func (l *LocalLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

// New builds the limiter for a process: Redis with a local fallback when an address is
// configured, otherwise the local limiter alone. The returned close func releases the Redis client.
func New(cfg RedisConfig, limit int, window time.Duration, burst int, logger *zap.Logger) (Limiter, func() error) {
	local := NewLocalLimiter(limit, window, burst)
	if cfg.Address == "" {
		logger.Info("redis address not set, using local rate limiter")
		return local, func() error { return nil }
	}

	client := NewRedisClient(cfg)
	logger.Info("using redis rate limiter", zap.String("address", cfg.Address))
	return NewFailoverLimiter(NewRedisLimiter(client, limit, window), local, logger), client.Close
}
