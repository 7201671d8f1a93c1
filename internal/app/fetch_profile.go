package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/profilelookup/internal/adapters/cache"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/logging"
	"github.com/Amund211/profilelookup/internal/reporting"
)

// Profiles are served from the cache for this long without asking the upstream again
const PROFILE_TTL = 24 * time.Hour

type ProfileStrategy interface {
	Validate(req domain.ProfileRequest) (domain.Lookup, error)
	CacheKey(lookup domain.Lookup) string
	Fetch(ctx context.Context, lookup domain.Lookup) (domain.Profile, error)
}

type FetchProfile func(ctx context.Context, req domain.ProfileRequest, strategy ProfileStrategy) (domain.Profile, error)

// BuildFetchProfile returns a cache-aside lookup in front of the given strategy.
// Only successful lookups are cached, and concurrent misses for the same key all reach the upstream.
func BuildFetchProfile(profileCache cache.Cache[domain.Profile]) FetchProfile {
	return func(ctx context.Context, req domain.ProfileRequest, strategy ProfileStrategy) (domain.Profile, error) {
		lookup, err := strategy.Validate(req)
		if err != nil {
			return domain.Profile{}, err
		}

		ctx = logging.AddLookupToContext(ctx, lookup)
		ctx = reporting.AddLookupToContext(ctx, lookup)

		key := strategy.CacheKey(lookup)

		cached, ok, err := profileCache.Get(ctx, key)
		if err != nil {
			// Degrade to a miss so a broken cache does not fail lookups
			reporting.Report(ctx, fmt.Errorf("failed to get profile from cache: %w", err), map[string]string{
				"key": key,
			})
		} else if ok && cached.Complete() {
			recordCacheResult(ctx, lookup.Source, cacheResultHit)
			return cached, nil
		}
		recordCacheResult(ctx, lookup.Source, cacheResultMiss)

		profile, err := strategy.Fetch(ctx, lookup)
		if err != nil {
			// NOTE: strategies handle their own error reporting
			return domain.Profile{}, fmt.Errorf("failed to fetch %s profile: %w", lookup.Source, err)
		}

		if !profile.Complete() {
			err := fmt.Errorf("%w: %s strategy returned an incomplete profile", domain.ErrUpstreamClient, lookup.Source)
			reporting.Report(ctx, err)
			return domain.Profile{}, err
		}

		err = profileCache.Set(ctx, key, profile, PROFILE_TTL)
		if err != nil {
			// The profile is still valid, it will just be fetched again next time
			logging.FromContext(ctx).ErrorContext(ctx, "Failed to store profile in cache", "key", key, "error", err.Error())
			reporting.Report(ctx, fmt.Errorf("failed to set profile in cache: %w", err), map[string]string{
				"key": key,
			})
		}

		return profile, nil
	}
}
