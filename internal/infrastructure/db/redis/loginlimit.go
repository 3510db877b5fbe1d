package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultWindow      = time.Minute
	defaultMaxAttempts = 10
)

// LoginLimiter throttles authentication attempts with a fixed window counter.
// Key format: loginattempt:<email>:<remote_addr>
type LoginLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive window or maxAttempts fall back to the defaults.
func NewLoginLimiter(client *redis.Client, window time.Duration, maxAttempts int64) *LoginLimiter {
	if window <= 0 {
		window = defaultWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &LoginLimiter{client: client, window: window, maxAttempts: maxAttempts}
}

// Allow increments the attempt counter for key and reports whether the
// attempt is within the window budget. The first attempt in a window sets
// the expiry.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "loginattempt:" + key

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("login limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("login limit expire: %w", err)
		}
	}
	return n <= l.maxAttempts, nil
}
