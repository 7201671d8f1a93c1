package upstream

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type outcome string

const (
	outcomeSuccess        outcome = "success"
	outcomeTransportError outcome = "transport_error"
	outcomeServerError    outcome = "server_error"
	outcomeClientError    outcome = "client_error"
)

type upstreamMetricsCollection struct {
	requestCount metric.Int64Counter
}

var metrics upstreamMetricsCollection

func init() {
	const name = "profilelookup/upstream"
	meter := otel.Meter(name)

	requestCount, err := meter.Int64Counter(
		"upstream/request_count",
		metric.WithDescription("Total number of logical requests made to identity services"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create upstream request count metric: %w", err))
	}

	metrics = upstreamMetricsCollection{
		requestCount: requestCount,
	}
}

func recordRequest(ctx context.Context, rawURL string, result outcome) {
	host := "<invalid>"
	if parsed, err := url.Parse(rawURL); err == nil {
		host = parsed.Host
	}

	metrics.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("host", host),
		attribute.String("outcome", string(result)),
	))
}
