package profileprovider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/strutils"
)

type minecraftIDParams struct {
	ID string `param:"id" validate:"required,minecraft_uuid"`
}

// MinecraftByID resolves Minecraft uuids through the mojang session server
type MinecraftByID struct {
	client         UpstreamClient
	sessionBaseURL string
}

func NewMinecraftByID(client UpstreamClient, sessionBaseURL string) *MinecraftByID {
	return &MinecraftByID{
		client:         client,
		sessionBaseURL: sessionBaseURL,
	}
}

func (m *MinecraftByID) Validate(req domain.ProfileRequest) (domain.Lookup, error) {
	params := minecraftIDParams{ID: req.Params["id"]}
	if err := validateParams(params); err != nil {
		return domain.Lookup{}, err
	}

	uuid, err := strutils.NormalizeUUID(params.ID)
	if err != nil {
		panic(fmt.Errorf("logic error: validated uuid could not be normalized: %w", err))
	}

	return domain.Lookup{
		Source:   domain.SourceMinecraft,
		ID:       uuid,
		CallerIP: req.CallerIP,
	}, nil
}

func (m *MinecraftByID) CacheKey(lookup domain.Lookup) string {
	mustBeLookupFor(lookup, domain.SourceMinecraft, strutils.UUIDIsNormalized(lookup.ID))
	return cacheKey(domain.SourceMinecraft, lookup.ID)
}

func (m *MinecraftByID) Fetch(ctx context.Context, lookup domain.Lookup) (domain.Profile, error) {
	mustBeLookupFor(lookup, domain.SourceMinecraft, strutils.UUIDIsNormalized(lookup.ID))

	return getMojangProfile(ctx, m.client, fmt.Sprintf("%s/session/minecraft/profile/%s", m.sessionBaseURL, lookup.ID))
}

type minecraftUsernameParams struct {
	Username string `param:"username" validate:"required,max=100"`
}

// MinecraftByUsername resolves Minecraft usernames through the mojang API
type MinecraftByUsername struct {
	client     UpstreamClient
	apiBaseURL string
}

func NewMinecraftByUsername(client UpstreamClient, apiBaseURL string) *MinecraftByUsername {
	return &MinecraftByUsername{
		client:     client,
		apiBaseURL: apiBaseURL,
	}
}

func (m *MinecraftByUsername) Validate(req domain.ProfileRequest) (domain.Lookup, error) {
	params := minecraftUsernameParams{Username: req.Params["username"]}
	if err := validateParams(params); err != nil {
		return domain.Lookup{}, err
	}

	return domain.Lookup{
		Source:   domain.SourceMinecraft,
		Username: params.Username,
		CallerIP: req.CallerIP,
	}, nil
}

func (m *MinecraftByUsername) CacheKey(lookup domain.Lookup) string {
	mustBeLookupFor(lookup, domain.SourceMinecraft, lookup.ID == "" && lookup.Username != "")
	// Minecraft usernames are case insensitive
	return cacheKey(domain.SourceMinecraft, strings.ToLower(lookup.Username))
}

func (m *MinecraftByUsername) Fetch(ctx context.Context, lookup domain.Lookup) (domain.Profile, error) {
	mustBeLookupFor(lookup, domain.SourceMinecraft, lookup.ID == "" && lookup.Username != "")

	return getMojangProfile(ctx, m.client, fmt.Sprintf("%s/users/profiles/minecraft/%s", m.apiBaseURL, url.PathEscape(lookup.Username)))
}
