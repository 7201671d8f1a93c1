package cache

import (
	"context"
	"time"
)

// Cache is a key/value store where every entry expires after its own TTL
type Cache[T any] interface {
	// Get returns the value for key, and whether it was present
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, data T, ttl time.Duration) error
}
