package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache[T any] struct {
	client redis.Cmdable
}

func (c *redisCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var empty T

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return empty, false, nil
	} else if err != nil {
		return empty, false, fmt.Errorf("failed to get cache entry from redis: %w", err)
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return empty, false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	return data, true, nil
}

func (c *redisCache[T]) Set(ctx context.Context, key string, data T, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry in redis: %w", err)
	}

	return nil
}

// NewRedisCache stores JSON encoded values in redis, shared between instances
func NewRedisCache[T any](client redis.Cmdable) Cache[T] {
	return &redisCache[T]{client: client}
}
