package cache_test

import (
	"testing"
	"time"

	"github.com/Amund211/profilelookup/internal/adapters/cache"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestTTLCache(t *testing.T) {
	t.Parallel()

	profile := domain.Profile{
		ID:        "99999999999999999",
		Username:  "exampleUser123",
		AvatarURL: "https://example.com/avatar.jpg",
	}

	t.Run("Set and get", func(t *testing.T) {
		t.Parallel()

		c, stop := cache.NewTTLCache[domain.Profile]()
		defer stop()

		err := c.Set(t.Context(), "steam|99999999999999999", profile, 24*time.Hour)
		require.NoError(t, err)

		value, ok, err := c.Get(t.Context(), "steam|99999999999999999")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, profile, value)
	})

	t.Run("missing entry", func(t *testing.T) {
		t.Parallel()

		c, stop := cache.NewTTLCache[domain.Profile]()
		defer stop()

		value, ok, err := c.Get(t.Context(), "steam|99999999999999999")
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, domain.Profile{}, value)
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		c, stop := cache.NewTTLCache[domain.Profile]()
		defer stop()

		require.NoError(t, c.Set(t.Context(), "steam|123", profile, time.Hour))

		_, ok, err := c.Get(t.Context(), "xbl|123")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()

		c, stop := cache.NewTTLCache[string]()
		defer stop()

		require.NoError(t, c.Set(t.Context(), "key", "first", time.Hour))
		require.NoError(t, c.Set(t.Context(), "key", "second", time.Hour))

		value, ok, err := c.Get(t.Context(), "key")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "second", value)
	})

	t.Run("entries expire after their ttl", func(t *testing.T) {
		t.Parallel()

		c, stop := cache.NewTTLCache[domain.Profile]()
		defer stop()

		require.NoError(t, c.Set(t.Context(), "short", profile, 50*time.Millisecond))
		require.NoError(t, c.Set(t.Context(), "long", profile, time.Hour))

		time.Sleep(100 * time.Millisecond)

		_, ok, err := c.Get(t.Context(), "short")
		require.NoError(t, err)
		require.False(t, ok)

		_, ok, err = c.Get(t.Context(), "long")
		require.NoError(t, err)
		require.True(t, ok)
	})
}
