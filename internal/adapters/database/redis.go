package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/profilelookup/internal/config"
	"github.com/redis/go-redis/v9"
)

const PING_TIMEOUT = 2 * time.Second

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, PING_TIMEOUT)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return client, nil
}

// NewRedisClientFromConfig connects to the configured redis, shared by the profile cache and the upstream rate limiter
func NewRedisClientFromConfig(ctx context.Context, conf config.Config) (*redis.Client, error) {
	if !conf.UseRedis() {
		return nil, fmt.Errorf("redis is not configured")
	}

	return NewRedisClient(ctx, conf.RedisAddr(), conf.RedisPassword(), conf.RedisDB())
}
