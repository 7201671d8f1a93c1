package app

import (
	"context"
	"fmt"

	"github.com/Amund211/profilelookup/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type cacheResult string

const (
	cacheResultHit  cacheResult = "hit"
	cacheResultMiss cacheResult = "miss"
)

type appMetricsCollection struct {
	profileCache metric.Int64Counter
}

var metrics appMetricsCollection

func init() {
	const name = "profilelookup/app"
	meter := otel.Meter(name)

	profileCache, err := meter.Int64Counter(
		"app/profile_cache",
		metric.WithDescription("Profile cache lookups by source and result"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create profile cache metric: %w", err))
	}

	metrics = appMetricsCollection{
		profileCache: profileCache,
	}
}

func recordCacheResult(ctx context.Context, source domain.Source, result cacheResult) {
	metrics.profileCache.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", string(source)),
		attribute.String("result", string(result)),
	))
}
