package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultRetryAfter = time.Minute

// FailoverLimiter uses primary until it errors, then serves from fallback and
// retries primary once retryAfter has passed.
type FailoverLimiter struct {
	primary    Limiter
	fallback   Limiter
	logger     *zap.Logger
	retryAfter time.Duration

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
	now       func() time.Time
}

// NewFailoverLimiter creates a FailoverLimiter.
func NewFailoverLimiter(primary, fallback Limiter, logger *zap.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:    primary,
		fallback:   fallback,
		logger:     logger,
		retryAfter: defaultRetryAfter,
		now:        time.Now,
	}
}

// Allow implements Limiter.
func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.isDown.Load() || l.shouldRetry() {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			if l.isDown.CompareAndSwap(true, false) {
				l.logger.Info("primary rate limiter recovered")
			}
			return allowed, nil
		}
		if !l.isDown.Swap(true) {
			l.logger.Error("primary rate limiter failed, falling back to local limiter", zap.Error(err))
		}
		l.markChecked()
	}
	return l.fallback.Allow(ctx, key)
}

// Degraded reports whether requests are currently served by the fallback.
func (l *FailoverLimiter) Degraded() bool {
	return l.isDown.Load()
}

func (l *FailoverLimiter) shouldRetry() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().Sub(l.lastCheck) < l.retryAfter {
		return false
	}
	l.lastCheck = l.now()
	return true
}

func (l *FailoverLimiter) markChecked() {
	l.mu.Lock()
	l.lastCheck = l.now()
	l.mu.Unlock()
}
