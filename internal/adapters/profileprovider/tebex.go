package profileprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Amund211/profilelookup/internal/adapters/upstream"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/reporting"
)

// The identity service answers missing profiles with a 200 and this code in the body
const TEBEX_NOT_FOUND_CODE = 400

// tebexIdentifier accepts both quoted and numeric ids
type tebexIdentifier string

func (i *tebexIdentifier) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*i = tebexIdentifier(str)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("id is neither a string nor a number: %w", err)
	}
	*i = tebexIdentifier(number.String())
	return nil
}

type tebexResponse struct {
	ID       tebexIdentifier `json:"id"`
	Username string          `json:"username"`
	Meta     struct {
		Avatar string `json:"avatar"`
	} `json:"meta"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func profileFromTebexResponse(data []byte) (domain.Profile, error) {
	var response tebexResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: failed to parse tebex response: %w", domain.ErrUpstreamClient, err)
	}

	if response.Error != nil {
		kind := domain.ErrUpstreamClient
		if response.Error.Code == TEBEX_NOT_FOUND_CODE {
			kind = domain.ErrProfileNotFound
		}
		return domain.Profile{}, &domain.UpstreamError{
			Kind:       kind,
			StatusCode: response.Error.Code,
			Body:       string(data),
		}
	}

	profile := domain.Profile{
		ID:        string(response.ID),
		Username:  response.Username,
		AvatarURL: response.Meta.Avatar,
	}
	if !profile.Complete() {
		return domain.Profile{}, fmt.Errorf("%w: tebex response is missing profile fields", domain.ErrUpstreamClient)
	}

	return profile, nil
}

// getTebexProfile gets a profile from the identity service, running the request through gate
func getTebexProfile(
	ctx context.Context,
	client UpstreamClient,
	url string,
	gate func(get func() (upstream.Response, error)) (upstream.Response, error),
) (domain.Profile, error) {
	resp, err := gate(func() (upstream.Response, error) {
		return client.Get(ctx, url)
	})
	if err != nil {
		return domain.Profile{}, reclassify(err, domain.ErrProfileNotFound, http.StatusNotFound)
	}

	profile, err := profileFromTebexResponse(resp.Body)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			// Pass through error but don't report
			return domain.Profile{}, err
		}

		err := fmt.Errorf("failed to get profile from tebex response: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"url":    url,
			"data":   string(resp.Body),
			"status": strconv.Itoa(resp.StatusCode),
		})
		return domain.Profile{}, err
	}

	return profile, nil
}

func ungated(get func() (upstream.Response, error)) (upstream.Response, error) {
	return get()
}
