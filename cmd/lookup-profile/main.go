package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/profilelookup/internal/adapters/profileprovider"
	"github.com/Amund211/profilelookup/internal/adapters/upstream"
	"github.com/Amund211/profilelookup/internal/app"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/logging"
	"github.com/Amund211/profilelookup/internal/ratelimiting"
)

func main() {
	source := flag.String("type", "", "profile source: steam, xbl or minecraft")
	id := flag.String("id", "", "id of the profile")
	username := flag.String("username", "", "username of the profile")
	tebexBaseURL := flag.String("tebex", "https://ident.tebex.io", "base url of the tebex identity service")
	sessionBaseURL := flag.String("session", "https://sessionserver.mojang.com", "base url of the mojang session server")
	apiBaseURL := flag.String("api", "https://api.mojang.com", "base url of the mojang API")
	verbose := flag.Bool("v", false, "log upstream requests")
	flag.Parse()

	parsedSource, err := domain.ParseSource(*source)
	if err != nil {
		log.Fatalf("Invalid type: %v", err)
	}

	params := map[string]string{}
	if *id != "" {
		params["id"] = *id
	}
	if *username != "" {
		params["username"] = *username
	}
	if len(params) == 0 {
		log.Fatal("No id or username provided")
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := logging.AddToContext(context.Background(), logger)

	limiter, stop := ratelimiting.NewInMemoryWindowLimiter(time.Now)
	defer stop()

	upstreamClient := upstream.NewClient(&http.Client{}, time.After)
	selectStrategy := app.BuildSelectStrategy(
		profileprovider.NewSteam(upstreamClient, limiter, *tebexBaseURL),
		profileprovider.NewXbl(upstreamClient, *tebexBaseURL),
		profileprovider.NewMinecraftByID(upstreamClient, *sessionBaseURL),
		profileprovider.NewMinecraftByUsername(upstreamClient, *apiBaseURL),
	)

	req := domain.ProfileRequest{
		Source:   parsedSource,
		Params:   params,
		CallerIP: "cli",
	}

	strategy, err := selectStrategy(req)
	if err != nil {
		log.Fatalf("Invalid lookup: %v", err)
	}

	lookup, err := strategy.Validate(req)
	if err != nil {
		log.Fatalf("Invalid lookup: %v", err)
	}

	profile, err := strategy.Fetch(ctx, lookup)
	if err != nil {
		log.Fatalf("Lookup of %s failed: %v", strategy.CacheKey(lookup), err)
	}

	data, err := json.MarshalIndent(map[string]string{
		"id":       profile.ID,
		"username": profile.Username,
		"avatar":   profile.AvatarURL,
	}, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal profile: %v", err)
	}

	fmt.Println(string(data))
}
