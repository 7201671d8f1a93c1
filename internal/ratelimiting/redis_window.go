package ratelimiting

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const REDIS_KEY_PREFIX = "ratelimit|"

// Increment unless the limit is reached, and start the window on the first attempt
var hitScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
	return 0
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1
`)

type redisWindowLimiter struct {
	client redis.Scripter
}

// NewRedisWindowLimiter shares the windows between all instances using the same redis
func NewRedisWindowLimiter(client redis.Scripter) *redisWindowLimiter {
	return &redisWindowLimiter{client: client}
}

func (l *redisWindowLimiter) Hit(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error) {
	allowed, err := hitScript.Run(
		ctx,
		l.client,
		[]string{REDIS_KEY_PREFIX + key},
		maxAttempts,
		window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to run rate limit script: %w", err)
	}

	return allowed == 1, nil
}
