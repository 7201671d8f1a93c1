package ratelimiting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/reporting"
	"github.com/jellydator/ttlcache/v3"
)

// WindowLimiter counts attempts per key in fixed windows
type WindowLimiter interface {
	// Hit records an attempt for key and reports whether it fits within maxAttempts
	// for the current window. Rejected attempts are not counted.
	Hit(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error)
}

// Attempt runs action if the bucket for key has room, and fails with
// domain.ErrRateLimited without running it otherwise.
func Attempt[T any](
	ctx context.Context,
	limiter WindowLimiter,
	key string,
	maxAttempts int,
	window time.Duration,
	action func() (T, error),
) (T, error) {
	allowed, err := limiter.Hit(ctx, key, maxAttempts, window)
	if err != nil {
		// Let the attempt through so an unavailable limiter store does not take lookups down with it
		reporting.Report(ctx, fmt.Errorf("failed to check rate limit: %w", err), map[string]string{
			"key": key,
		})
		allowed = true
	}

	if !allowed {
		var empty T
		return empty, fmt.Errorf("%w: too many attempts for %s", domain.ErrRateLimited, key)
	}

	return action()
}

type fixedWindow struct {
	start time.Time
	count int
}

type inMemoryWindowLimiter struct {
	// Guards the read-modify-write of the windows
	mutex   sync.Mutex
	windows *ttlcache.Cache[string, *fixedWindow]
	nowFunc func() time.Time
}

// NewInMemoryWindowLimiter returns a limiter local to this process, and a function to stop its cleanup
func NewInMemoryWindowLimiter(nowFunc func() time.Time) (*inMemoryWindowLimiter, func()) {
	windows := ttlcache.New[string, *fixedWindow](
		ttlcache.WithDisableTouchOnHit[string, *fixedWindow](),
	)
	go windows.Start()

	return &inMemoryWindowLimiter{
		windows: windows,
		nowFunc: nowFunc,
	}, windows.Stop
}

func (l *inMemoryWindowLimiter) Hit(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.nowFunc()

	var current *fixedWindow
	if item := l.windows.Get(key); item != nil && now.Before(item.Value().start.Add(window)) {
		current = item.Value()
	} else {
		current = &fixedWindow{start: now}
		l.windows.Set(key, current, window)
	}

	if current.count >= maxAttempts {
		return false, nil
	}

	current.count++
	return true, nil
}
