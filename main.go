package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/profilelookup/internal/adapters/cache"
	"github.com/Amund211/profilelookup/internal/adapters/database"
	"github.com/Amund211/profilelookup/internal/adapters/profileprovider"
	"github.com/Amund211/profilelookup/internal/adapters/upstream"
	"github.com/Amund211/profilelookup/internal/app"
	"github.com/Amund211/profilelookup/internal/config"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/logging"
	"github.com/Amund211/profilelookup/internal/ports"
	"github.com/Amund211/profilelookup/internal/ratelimiting"
	"github.com/Amund211/profilelookup/internal/reporting"
	"github.com/Amund211/profilelookup/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback"
)

const SERVICE_NAME = "profilelookup"

func main() {
	ctx := context.Background()

	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	if config.GoogleCloudProject() != "" {
		logger = slog.New(
			logging.NewGoogleCloudHandler(os.Stdout, config.GoogleCloudProject()),
		).With("instanceID", instanceID)
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	if config.OpenTelemetryEnabled() {
		shutdown, err := telemetry.SetupOTelSDK(ctx, SERVICE_NAME)
		if err != nil {
			fail("Failed to set up OpenTelemetry", "error", err.Error())
		}
		defer func() {
			err := shutdown(context.Background())
			if err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	var profileCache cache.Cache[domain.Profile]
	var steamLimiter ratelimiting.WindowLimiter
	if config.UseRedis() {
		logger.Info("Initializing redis connection")
		redisClient, err := database.NewRedisClientFromConfig(ctx, config)
		if err != nil {
			fail("Failed to initialize redis", "error", err.Error())
		}
		defer redisClient.Close()

		profileCache = cache.NewRedisCache[domain.Profile](redisClient)
		steamLimiter = ratelimiting.NewRedisWindowLimiter(redisClient)
		logger.Info("Initialized redis cache and rate limiter")
	} else {
		ttlCache, stopCache := cache.NewTTLCache[domain.Profile]()
		defer stopCache()
		profileCache = ttlCache

		windowLimiter, stopLimiter := ratelimiting.NewInMemoryWindowLimiter(time.Now)
		defer stopLimiter()
		steamLimiter = windowLimiter
		logger.Info("Initialized in-memory cache and rate limiter")
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	upstreamClient := upstream.NewClient(httpClient, time.After)

	selectStrategy := app.BuildSelectStrategy(
		profileprovider.NewSteam(upstreamClient, steamLimiter, config.TebexIdentBaseURL()),
		profileprovider.NewXbl(upstreamClient, config.TebexIdentBaseURL()),
		profileprovider.NewMinecraftByID(upstreamClient, config.MojangSessionBaseURL()),
		profileprovider.NewMinecraftByUsername(upstreamClient, config.MojangAPIBaseURL()),
	)
	lookupProfile := app.BuildLookupProfile(selectStrategy, app.BuildFetchProfile(profileCache))

	ipLimiter, stopIPLimiter := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(8),
		ratelimiting.BurstSize(500),
	)
	defer stopIPLimiter()

	mux := http.NewServeMux()

	mux.HandleFunc(
		"GET /api/lookup",
		ports.MakeLookupHandler(
			lookupProfile,
			ratelimiting.NewRequestBasedRateLimiter(ipLimiter, ratelimiting.IPKeyFunc),
			logger.With("port", "lookup"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc("/api/", ports.MakeNotFoundHandler())
	mux.HandleFunc("GET /up", ports.MakeHealthHandler())

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), otelhttp.NewHandler(mux, SERVICE_NAME))
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
