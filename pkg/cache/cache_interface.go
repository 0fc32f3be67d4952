package cache

import (
	"context"
	"time"
)

// Cache is the slice of Redis the API needs. Derived aggregates are never cached;
// this only backs short-lived counters such as the anonymous rate limit.
type Cache interface {
	// Increment adds one to key and returns the new value, creating it at 1
	Increment(ctx context.Context, key string) (int64, error)

	// Expire sets a TTL on key
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the remaining lifetime of key
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Ping checks the connection
	Ping(ctx context.Context) error
}
