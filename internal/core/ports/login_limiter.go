package ports

import "context"

// LoginLimiter throttles authentication attempts. Allow reports whether
// another attempt is permitted for the given key (typically email + client
// address). Limiter failures must not lock users out: callers treat an error
// as "allowed" and log it.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
