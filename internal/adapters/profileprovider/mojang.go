package profileprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/reporting"
	"github.com/Amund211/profilelookup/internal/strutils"
)

// Avatars are not returned by mojang, so they are served from crafatar by uuid
const AVATAR_BASE_URL = "https://crafatar.com/avatars/"

type mojangResponse struct {
	UUID     string `json:"id"`
	Username string `json:"name"`
}

func profileFromMojangResponse(statusCode int, data []byte) (domain.Profile, error) {
	switch statusCode {
	case http.StatusNotFound,
		http.StatusNoContent:
		return domain.Profile{}, &domain.UpstreamError{
			Kind:       domain.ErrProfileNotFound,
			StatusCode: statusCode,
			Body:       string(data),
		}
	}

	var response mojangResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: failed to parse mojang response: %w", domain.ErrUpstreamClient, err)
	}

	if response.UUID == "" || response.Username == "" {
		return domain.Profile{}, fmt.Errorf("%w: mojang response is missing profile fields", domain.ErrUpstreamClient)
	}

	uuid, err := strutils.NormalizeUUID(response.UUID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: failed to normalize UUID from mojang: %w", domain.ErrUpstreamClient, err)
	}

	return domain.Profile{
		ID:        uuid,
		Username:  response.Username,
		AvatarURL: AVATAR_BASE_URL + uuid,
	}, nil
}

func getMojangProfile(ctx context.Context, client UpstreamClient, url string) (domain.Profile, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		err = reclassify(err, domain.ErrProfileNotFound, http.StatusNotFound)
		// Mojang rate limits and overloads are temporary
		err = reclassify(err, domain.ErrUpstreamUnavailable,
			http.StatusTooManyRequests,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		)
		return domain.Profile{}, err
	}

	profile, err := profileFromMojangResponse(resp.StatusCode, resp.Body)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			// Pass through error but don't report
			return domain.Profile{}, err
		}

		err := fmt.Errorf("failed to get profile from mojang response: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"url":    url,
			"data":   string(resp.Body),
			"status": strconv.Itoa(resp.StatusCode),
		})
		return domain.Profile{}, err
	}

	return profile, nil
}
