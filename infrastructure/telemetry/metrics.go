package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"modelsearch-api/core/domain"
	apperrors "modelsearch-api/core/errors"
)

const (
	// SearchMetricsMeterName is the name used for the per-source search meter
	SearchMetricsMeterName = "modelsearch-api/search"
)

// SearchMetrics holds the instruments recording each source call.
// It implements interfaces.SearchObserver.
type SearchMetrics struct {
	sourceRequests metric.Int64Counter
	sourceDuration metric.Float64Histogram
	sourceResults  metric.Int64Histogram
}

// NewSearchMetrics creates a new SearchMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSearchMetrics(provider metric.MeterProvider) (*SearchMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SearchMetricsMeterName)

	sourceRequests, err := meter.Int64Counter(
		"modelsearch_source_requests_total",
		metric.WithDescription("Source calls by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	sourceDuration, err := meter.Float64Histogram(
		"modelsearch_source_duration_seconds",
		metric.WithDescription("Duration of source calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	sourceResults, err := meter.Int64Histogram(
		"modelsearch_source_results",
		metric.WithDescription("Results kept per successful source call"),
		metric.WithUnit("{result}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 15),
	)
	if err != nil {
		return nil, err
	}

	return &SearchMetrics{
		sourceRequests: sourceRequests,
		sourceDuration: sourceDuration,
		sourceResults:  sourceResults,
	}, nil
}

// ObserveSource records one settled source call
func (m *SearchMetrics) ObserveSource(ctx context.Context, source domain.Source, duration time.Duration, count int, err error) {
	if m == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = apperrors.Kind(err)
	}

	attrs := metric.WithAttributes(
		attribute.String("source", string(source)),
		attribute.String("outcome", outcome),
	)

	m.sourceRequests.Add(ctx, 1, attrs)
	m.sourceDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		m.sourceResults.Record(ctx, int64(count), metric.WithAttributes(attribute.String("source", string(source))))
	}
}
