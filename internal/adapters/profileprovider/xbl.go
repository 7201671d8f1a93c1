package profileprovider

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Amund211/profilelookup/internal/domain"
)

type xblParams struct {
	ID       string `param:"id" validate:"required_without=Username,excluded_with=Username,omitempty,number"`
	Username string `param:"username" validate:"required_without=ID,excluded_with=ID,omitempty,max=100"`
}

// Xbl resolves Xbox Live ids or gamertags through the tebex identity service
type Xbl struct {
	client  UpstreamClient
	baseURL string
}

func NewXbl(client UpstreamClient, tebexBaseURL string) *Xbl {
	return &Xbl{
		client:  client,
		baseURL: tebexBaseURL,
	}
}

func (x *Xbl) Validate(req domain.ProfileRequest) (domain.Lookup, error) {
	params := xblParams{
		ID:       req.Params["id"],
		Username: req.Params["username"],
	}
	if err := validateParams(params); err != nil {
		return domain.Lookup{}, err
	}

	return domain.Lookup{
		Source:   domain.SourceXbl,
		ID:       params.ID,
		Username: params.Username,
		CallerIP: req.CallerIP,
	}, nil
}

func (x *Xbl) CacheKey(lookup domain.Lookup) string {
	mustBeLookupFor(lookup, domain.SourceXbl, lookup.Identifier() != "")
	return cacheKey(domain.SourceXbl, lookup.Identifier())
}

func (x *Xbl) Fetch(ctx context.Context, lookup domain.Lookup) (domain.Profile, error) {
	mustBeLookupFor(lookup, domain.SourceXbl, lookup.Identifier() != "")

	requestURL := fmt.Sprintf("%s/usernameservices/3/username/%s", x.baseURL, url.PathEscape(lookup.Identifier()))
	if lookup.ID == "" {
		requestURL += "?type=username"
	}

	return getTebexProfile(ctx, x.client, requestURL, ungated)
}
