package profileprovider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Amund211/profilelookup/internal/adapters/upstream"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/ratelimiting"
)

// Upstream calls per caller allowed within STEAM_RATE_LIMIT_WINDOW
const STEAM_MAX_ATTEMPTS = 50
const STEAM_RATE_LIMIT_WINDOW = 60 * time.Second

type steamParams struct {
	ID string `param:"id" validate:"required,number,len=17"`
}

// Steam resolves steam ids through the tebex identity service
type Steam struct {
	client  UpstreamClient
	limiter ratelimiting.WindowLimiter
	baseURL string
}

func NewSteam(client UpstreamClient, limiter ratelimiting.WindowLimiter, tebexBaseURL string) *Steam {
	return &Steam{
		client:  client,
		limiter: limiter,
		baseURL: tebexBaseURL,
	}
}

func (s *Steam) Validate(req domain.ProfileRequest) (domain.Lookup, error) {
	params := steamParams{ID: req.Params["id"]}
	if err := validateParams(params); err != nil {
		return domain.Lookup{}, err
	}

	return domain.Lookup{
		Source:   domain.SourceSteam,
		ID:       params.ID,
		CallerIP: req.CallerIP,
	}, nil
}

func (s *Steam) CacheKey(lookup domain.Lookup) string {
	mustBeLookupFor(lookup, domain.SourceSteam, lookup.ID != "")
	return cacheKey(domain.SourceSteam, lookup.ID)
}

func (s *Steam) Fetch(ctx context.Context, lookup domain.Lookup) (domain.Profile, error) {
	mustBeLookupFor(lookup, domain.SourceSteam, lookup.ID != "")

	requestURL := fmt.Sprintf("%s/usernameservices/4/username/%s", s.baseURL, url.PathEscape(lookup.ID))
	bucket := fmt.Sprintf("%s|%s", domain.SourceSteam, lookup.CallerIP)

	return getTebexProfile(ctx, s.client, requestURL, func(get func() (upstream.Response, error)) (upstream.Response, error) {
		return ratelimiting.Attempt(ctx, s.limiter, bucket, STEAM_MAX_ATTEMPTS, STEAM_RATE_LIMIT_WINDOW, get)
	})
}
