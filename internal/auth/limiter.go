package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter tracks failed login attempts per login identifier.
type LoginLimiter interface {
	// Check reports whether key is locked out and for how long.
	Check(ctx context.Context, key string) (locked bool, retryAfter time.Duration, err error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// NoopLimiter never locks anyone out. Used when Redis is not configured.
type NoopLimiter struct{}

func (NoopLimiter) Check(context.Context, string) (bool, time.Duration, error) { return false, 0, nil }
func (NoopLimiter) RecordFailure(context.Context, string) error { return nil }
func (NoopLimiter) Reset(context.Context, string) error { return nil }

// RedisLimiter counts failures in a fixed window that starts at the first failure.
type RedisLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisLimiter constructs a limiter. maxAttempts <= 0 defaults to 5, window <= 0 to 15m.
func NewRedisLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func failureKey(key string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(key))
}

// Check reports whether key has reached the failure limit.
func (l *RedisLimiter) Check(ctx context.Context, key string) (bool, time.Duration, error) {
	k := failureKey(key)
	count, err := l.client.Get(ctx, k).Int()
	if errors.Is(err, redis.Nil) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if count < l.maxAttempts {
		return false, 0, nil
	}
	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return true, ttl, nil
}

// RecordFailure increments the counter, starting the window on the first failure.
func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	k := failureKey(key)
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.client.Expire(ctx, k, l.window).Err()
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, failureKey(key)).Err()
}
