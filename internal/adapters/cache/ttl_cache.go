package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlCache[T any] struct {
	cache *ttlcache.Cache[string, T]
}

func (c *ttlCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	item := c.cache.Get(key)
	if item == nil {
		var empty T
		return empty, false, nil
	}
	return item.Value(), true, nil
}

func (c *ttlCache[T]) Set(ctx context.Context, key string, data T, ttl time.Duration) error {
	c.cache.Set(key, data, ttl)
	return nil
}

// NewTTLCache returns an in-process cache, and a function to stop its cleanup of expired entries
func NewTTLCache[T any]() (Cache[T], func()) {
	cache := ttlcache.New[string, T](
		ttlcache.WithDisableTouchOnHit[string, T](),
	)
	go cache.Start()
	return &ttlCache[T]{cache: cache}, cache.Stop
}
