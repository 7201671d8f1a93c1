package profileprovider_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Amund211/profilelookup/internal/adapters/profileprovider"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/ratelimiting"
	"github.com/stretchr/testify/require"
)

const tebexBaseURL = "https://ident.tebex.io"

const steamID = "99999999999999999"

const steamProfileBody = `{
	"id": "99999999999999999",
	"created_at": "2019-06-28 10:22:07",
	"updated_at": "2025-09-16 10:31:25",
	"cache_expire": "2025-10-01 10:31:24",
	"username": "exampleUser123",
	"meta": {
		"avatar": "https://example.com/avatar.jpg",
		"avatarfull": "https://example.com/avatar-full.jpg",
		"steamID": "STEAM_0:1:999999999"
	}
}`

const tebexNotFoundBody = `{"error":{"code":400,"message":"Invalid username"}}`

func steamURL(id string) string {
	return fmt.Sprintf("%s/usernameservices/4/username/%s", tebexBaseURL, id)
}

func newSteam(t *testing.T, client profileprovider.UpstreamClient) *profileprovider.Steam {
	t.Helper()
	limiter, stop := ratelimiting.NewInMemoryWindowLimiter(time.Now)
	t.Cleanup(stop)
	return profileprovider.NewSteam(client, limiter, tebexBaseURL)
}

func validatedSteamLookup(t *testing.T, steam *profileprovider.Steam, id, callerIP string) domain.Lookup {
	t.Helper()
	lookup, err := steam.Validate(domain.ProfileRequest{
		Source:   domain.SourceSteam,
		Params:   map[string]string{"id": id},
		CallerIP: callerIP,
	})
	require.NoError(t, err)
	return lookup
}

func TestSteam(t *testing.T) {
	t.Parallel()

	t.Run("profile is normalized", func(t *testing.T) {
		t.Parallel()

		client := newMockUpstreamClient(t, map[string]mockedResponse{
			steamURL(steamID): {statusCode: 200, body: steamProfileBody},
		})
		steam := newSteam(t, client)
		lookup := validatedSteamLookup(t, steam, steamID, "127.0.0.1")

		profile, err := steam.Fetch(t.Context(), lookup)
		require.NoError(t, err)
		require.Equal(t, domain.Profile{
			ID:        "99999999999999999",
			Username:  "exampleUser123",
			AvatarURL: "https://example.com/avatar.jpg",
		}, profile)
		require.Equal(t, 1, client.callCount())
	})

	t.Run("not found in body", func(t *testing.T) {
		t.Parallel()

		client := newMockUpstreamClient(t, map[string]mockedResponse{
			steamURL(steamID): {statusCode: 200, body: tebexNotFoundBody},
		})
		steam := newSteam(t, client)
		lookup := validatedSteamLookup(t, steam, steamID, "127.0.0.1")

		_, err := steam.Fetch(t.Context(), lookup)
		require.ErrorIs(t, err, domain.ErrProfileNotFound)
		requireExternalStatus(t, err, 400)
	})

	t.Run("cache key", func(t *testing.T) {
		t.Parallel()

		steam := newSteam(t, newMockUpstreamClient(t, nil))
		lookup := validatedSteamLookup(t, steam, steamID, "127.0.0.1")
		require.Equal(t, "steam|99999999999999999", steam.CacheKey(lookup))
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		steam := newSteam(t, newMockUpstreamClient(t, nil))

		for _, id := range []string{
			"",
			"123",
			"999999999999999999",
			"9999999999999999a",
			"-9999999999999999",
			"9999999999999999.",
		} {
			t.Run(id, func(t *testing.T) {
				t.Parallel()
				_, err := steam.Validate(domain.ProfileRequest{
					Source: domain.SourceSteam,
					Params: map[string]string{"id": id},
				})
				requireValidationError(t, err, "id")
			})
		}

		t.Run("missing id", func(t *testing.T) {
			t.Parallel()
			_, err := steam.Validate(domain.ProfileRequest{
				Source: domain.SourceSteam,
				Params: map[string]string{"username": "exampleUser123"},
			})
			requireValidationError(t, err, "id")
		})
	})

	t.Run("rate limited per caller", func(t *testing.T) {
		t.Parallel()

		client := newMockUpstreamClient(t, map[string]mockedResponse{
			steamURL(steamID): {statusCode: 200, body: steamProfileBody},
		})
		steam := newSteam(t, client)
		lookup := validatedSteamLookup(t, steam, steamID, "10.0.0.1")

		for range profileprovider.STEAM_MAX_ATTEMPTS {
			_, err := steam.Fetch(t.Context(), lookup)
			require.NoError(t, err)
		}
		require.Equal(t, 50, client.callCount())

		_, err := steam.Fetch(t.Context(), lookup)
		require.ErrorIs(t, err, domain.ErrRateLimited)
		require.Equal(t, 50, client.callCount())

		// Other callers have their own bucket
		other := validatedSteamLookup(t, steam, steamID, "10.0.0.2")
		_, err = steam.Fetch(t.Context(), other)
		require.NoError(t, err)
		require.Equal(t, 51, client.callCount())
	})

	t.Run("rate limit holds under concurrency", func(t *testing.T) {
		t.Parallel()

		client := newMockUpstreamClient(t, map[string]mockedResponse{
			steamURL(steamID): {statusCode: 200, body: steamProfileBody},
		})
		steam := newSteam(t, client)
		lookup := validatedSteamLookup(t, steam, steamID, "10.0.0.1")

		var wg sync.WaitGroup
		var mutex sync.Mutex
		limited := 0
		for range 80 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := steam.Fetch(t.Context(), lookup)
				if errors.Is(err, domain.ErrRateLimited) {
					mutex.Lock()
					limited++
					mutex.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 30, limited)
		require.Equal(t, 50, client.callCount())
	})

	t.Run("upstream errors", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name           string
			response       mockedResponse
			expectedErr    error
			expectedStatus int
		}{
			{
				name:           "http not found",
				response:       mockedResponse{statusCode: 404, body: "not found"},
				expectedErr:    domain.ErrProfileNotFound,
				expectedStatus: 404,
			},
			{
				name:           "server error",
				response:       mockedResponse{statusCode: 500, body: "oops"},
				expectedErr:    domain.ErrUpstreamUnavailable,
				expectedStatus: 500,
			},
			{
				name:           "client error",
				response:       mockedResponse{statusCode: 422, body: "bad"},
				expectedErr:    domain.ErrUpstreamClient,
				expectedStatus: 422,
			},
			{
				name:           "other error code in body",
				response:       mockedResponse{statusCode: 200, body: `{"error":{"code":403,"message":"Forbidden"}}`},
				expectedErr:    domain.ErrUpstreamClient,
				expectedStatus: 403,
			},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				t.Parallel()

				client := newMockUpstreamClient(t, map[string]mockedResponse{steamURL(steamID): c.response})
				steam := newSteam(t, client)
				lookup := validatedSteamLookup(t, steam, steamID, "127.0.0.1")

				_, err := steam.Fetch(t.Context(), lookup)
				require.ErrorIs(t, err, c.expectedErr)
				requireExternalStatus(t, err, c.expectedStatus)
			})
		}

		t.Run("transport failure", func(t *testing.T) {
			t.Parallel()

			unavailable := fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnavailable)
			client := newMockUpstreamClient(t, map[string]mockedResponse{steamURL(steamID): {err: unavailable}})
			steam := newSteam(t, client)
			lookup := validatedSteamLookup(t, steam, steamID, "127.0.0.1")

			_, err := steam.Fetch(t.Context(), lookup)
			require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
			_, ok := domain.ExternalStatusCode(err)
			require.False(t, ok)
		})
	})

	t.Run("malformed responses", func(t *testing.T) {
		t.Parallel()

		for name, body := range map[string]string{
			"invalid json":   `<html>`,
			"missing avatar": `{"id":"99999999999999999","username":"exampleUser123","meta":{}}`,
			"missing name":   `{"id":"99999999999999999","meta":{"avatar":"https://example.com/avatar.jpg"}}`,
			"missing id":     `{"username":"exampleUser123","meta":{"avatar":"https://example.com/avatar.jpg"}}`,
		} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				client := newMockUpstreamClient(t, map[string]mockedResponse{steamURL(steamID): {statusCode: 200, body: body}})
				steam := newSteam(t, client)
				lookup := validatedSteamLookup(t, steam, steamID, "127.0.0.1")

				profile, err := steam.Fetch(t.Context(), lookup)
				require.ErrorIs(t, err, domain.ErrUpstreamClient)
				require.Equal(t, domain.Profile{}, profile)
			})
		}
	})

	t.Run("unvalidated lookup panics", func(t *testing.T) {
		t.Parallel()

		steam := newSteam(t, newMockUpstreamClient(t, nil))
		require.Panics(t, func() {
			steam.CacheKey(domain.Lookup{})
		})
		require.Panics(t, func() {
			_, _ = steam.Fetch(t.Context(), domain.Lookup{Source: domain.SourceXbl, ID: steamID})
		})
	})
}

func TestXbl(t *testing.T) {
	t.Parallel()

	const xuid = "2535405290956417"
	const xblProfileBody = `{"id":2535405290956417,"username":"Example Gamer","meta":{"avatar":"https://images.example.com/xbl.png"}}`
	expectedProfile := domain.Profile{
		ID:        xuid,
		Username:  "Example Gamer",
		AvatarURL: "https://images.example.com/xbl.png",
	}

	t.Run("by id", func(t *testing.T) {
		t.Parallel()

		client := newMockUpstreamClient(t, map[string]mockedResponse{
			tebexBaseURL + "/usernameservices/3/username/" + xuid: {statusCode: 200, body: xblProfileBody},
		})
		xbl := profileprovider.NewXbl(client, tebexBaseURL)

		lookup, err := xbl.Validate(domain.ProfileRequest{Source: domain.SourceXbl, Params: map[string]string{"id": xuid}})
		require.NoError(t, err)
		require.Equal(t, "xbl|"+xuid, xbl.CacheKey(lookup))

		profile, err := xbl.Fetch(t.Context(), lookup)
		require.NoError(t, err)
		require.Equal(t, expectedProfile, profile)
	})

	t.Run("by username", func(t *testing.T) {
		t.Parallel()

		client := newMockUpstreamClient(t, map[string]mockedResponse{
			tebexBaseURL + "/usernameservices/3/username/Example%20Gamer?type=username": {statusCode: 200, body: xblProfileBody},
		})
		xbl := profileprovider.NewXbl(client, tebexBaseURL)

		lookup, err := xbl.Validate(domain.ProfileRequest{Source: domain.SourceXbl, Params: map[string]string{"username": "Example Gamer"}})
		require.NoError(t, err)
		require.Equal(t, "xbl|Example Gamer", xbl.CacheKey(lookup))

		profile, err := xbl.Fetch(t.Context(), lookup)
		require.NoError(t, err)
		require.Equal(t, expectedProfile, profile)
	})

	t.Run("not found in body", func(t *testing.T) {
		t.Parallel()

		client := newMockUpstreamClient(t, map[string]mockedResponse{
			tebexBaseURL + "/usernameservices/3/username/" + xuid: {statusCode: 200, body: tebexNotFoundBody},
		})
		xbl := profileprovider.NewXbl(client, tebexBaseURL)

		lookup, err := xbl.Validate(domain.ProfileRequest{Source: domain.SourceXbl, Params: map[string]string{"id": xuid}})
		require.NoError(t, err)

		_, err = xbl.Fetch(t.Context(), lookup)
		require.ErrorIs(t, err, domain.ErrProfileNotFound)
		requireExternalStatus(t, err, 400)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		xbl := profileprovider.NewXbl(newMockUpstreamClient(t, nil), tebexBaseURL)

		cases := []struct {
			name           string
			params         map[string]string
			expectedFields []string
		}{
			{
				name:           "no identifier",
				params:         map[string]string{},
				expectedFields: []string{"id", "username"},
			},
			{
				name:           "both identifiers",
				params:         map[string]string{"id": xuid, "username": "Example Gamer"},
				expectedFields: []string{"id", "username"},
			},
			{
				name:           "non numeric id",
				params:         map[string]string{"id": "abc"},
				expectedFields: []string{"id"},
			},
			{
				name:           "long username",
				params:         map[string]string{"username": strings.Repeat("a", 101)},
				expectedFields: []string{"username"},
			},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				t.Parallel()
				_, err := xbl.Validate(domain.ProfileRequest{Source: domain.SourceXbl, Params: c.params})
				requireValidationError(t, err, c.expectedFields...)
			})
		}
	})
}

func TestCacheKeysAreNamespacedBySource(t *testing.T) {
	t.Parallel()

	const id = "12345678901234567"

	steam := newSteam(t, newMockUpstreamClient(t, nil))
	xbl := profileprovider.NewXbl(newMockUpstreamClient(t, nil), tebexBaseURL)

	steamLookup := validatedSteamLookup(t, steam, id, "127.0.0.1")
	xblLookup, err := xbl.Validate(domain.ProfileRequest{Source: domain.SourceXbl, Params: map[string]string{"id": id}})
	require.NoError(t, err)

	require.NotEqual(t, steam.CacheKey(steamLookup), xbl.CacheKey(xblLookup))
}
