package app

import (
	"context"

	"github.com/Amund211/profilelookup/internal/domain"
)

type LookupProfile func(ctx context.Context, req domain.ProfileRequest) (domain.Profile, error)

func BuildLookupProfile(selectStrategy SelectStrategy, fetchProfile FetchProfile) LookupProfile {
	return func(ctx context.Context, req domain.ProfileRequest) (domain.Profile, error) {
		strategy, err := selectStrategy(req)
		if err != nil {
			return domain.Profile{}, err
		}

		return fetchProfile(ctx, req, strategy)
	}
}
