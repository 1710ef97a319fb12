// Package telemetry provides OpenTelemetry metrics for the search service,
// exported in Prometheus format.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider bundles the meter provider with its scrape endpoint
type Provider struct {
	meterProvider metric.MeterProvider
	handler       http.Handler
	shutdown      func(context.Context) error
}

// NewProvider creates a MeterProvider backed by a Prometheus exporter on a
// private registry. When enabled is false a no-op provider is returned and
// Handler is nil.
func NewProvider(enabled bool) (*Provider, error) {
	if !enabled {
		return &Provider{
			meterProvider: noop.NewMeterProvider(),
			shutdown:      func(context.Context) error { return nil },
		}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	return &Provider{
		meterProvider: mp,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		shutdown:      mp.Shutdown,
	}, nil
}

// MeterProvider returns the provider instruments are created from
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// Handler serves the Prometheus exposition format, nil when metrics are disabled
func (p *Provider) Handler() http.Handler {
	return p.handler
}

// Enabled reports whether metrics are being exported
func (p *Provider) Enabled() bool {
	return p.handler != nil
}

// Shutdown flushes and stops the provider
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
