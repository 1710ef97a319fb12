// ABOUTME: Component construction shared by the serve and search commands
// ABOUTME: Builds the logger, HTTP client, enabled sources, metrics and search service from config

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"modelsearch-api/api"
	"modelsearch-api/api/handlers"
	"modelsearch-api/api/middleware"
	"modelsearch-api/core/interfaces"
	"modelsearch-api/core/search"
	"modelsearch-api/core/sources/makerworld"
	"modelsearch-api/core/sources/printables"
	"modelsearch-api/core/sources/thingiverse"
	stdhttp "modelsearch-api/infrastructure/http/standard"
	logruslogger "modelsearch-api/infrastructure/logger/logrus"
	"modelsearch-api/infrastructure/ratelimit/memory"
	"modelsearch-api/infrastructure/ratelimit/redis"
	"modelsearch-api/infrastructure/telemetry"
	"modelsearch-api/pkg/config"
	"modelsearch-api/pkg/featureflags"
)

// app holds the wired components
type app struct {
	cfg      *config.Config
	logger   interfaces.Logger
	service  *search.SearchService
	provider *telemetry.Provider
}

// loadConfig reads and validates configuration
func loadConfig(load func() (*config.Config, error)) (*config.Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger; a nil console writes to stdout
func newLogger(cfg *config.Config, console io.Writer) interfaces.Logger {
	return logruslogger.New(logruslogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: console,
	})
}

// buildApp wires the search service and its dependencies
func buildApp(cfg *config.Config, logger interfaces.Logger, flags featureflags.Manager) (*app, error) {
	provider, err := telemetry.NewProvider(cfg.Metrics.Enabled)
	if err != nil {
		return nil, err
	}

	transport := middleware.NewLoggingRoundTripper(http.DefaultTransport, logger)
	deps := interfaces.Dependencies{
		HTTPClient: stdhttp.NewStandardHTTPClient(cfg.Server.HTTPTimeout, stdhttp.WithTransport(transport)),
		Logger:     logger,
	}

	sources, err := buildSources(cfg, deps, transport, flags)
	if err != nil {
		return nil, err
	}

	searchMetrics, err := telemetry.NewSearchMetrics(provider.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create search metrics: %w", err)
	}

	opts := []search.Option{}
	if searchMetrics != nil {
		opts = append(opts, search.WithObserver(searchMetrics))
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		service:  search.NewSearchService(deps, sources, opts...),
		provider: provider,
	}, nil
}

// buildSources creates every source whose feature flag is on, in fan-out order
func buildSources(cfg *config.Config, deps interfaces.Dependencies, transport http.RoundTripper, flags featureflags.Manager) ([]interfaces.SearchSource, error) {
	ctx := context.Background()
	sources := make([]interfaces.SearchSource, 0, 3)

	if flags.IsEnabled(ctx, featureflags.PrintablesSource) {
		src, err := printables.New(deps, printables.Config{
			Endpoint:     cfg.Sources.Printables.Endpoint,
			ModelBaseURL: cfg.Sources.Printables.ModelBaseURL,
		})
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if flags.IsEnabled(ctx, featureflags.ThingiverseSource) {
		sources = append(sources, thingiverse.New(deps, thingiverse.Config{
			Endpoint: cfg.Sources.Thingiverse.Endpoint,
			TokenEnv: cfg.Sources.Thingiverse.TokenEnv,
		}))
	}

	if flags.IsEnabled(ctx, featureflags.MakerworldSource) {
		sources = append(sources, makerworld.New(deps, makerworld.Config{
			BaseURL:    cfg.Sources.Makerworld.BaseURL,
			SearchPath: cfg.Sources.Makerworld.SearchPath,
			UserAgent:  cfg.Sources.Makerworld.UserAgent,
			Timeout:    cfg.Server.HTTPTimeout,
		}, makerworld.WithTransport(transport)))
	}

	return sources, nil
}

// limiterStore is a rate limit store that holds resources
type limiterStore interface {
	middleware.Limiter
	Close() error
}

// buildLimiter returns nil when rate limiting is disabled. A Redis store that
// cannot connect falls back to the in-memory store.
func buildLimiter(cfg *config.Config, logger interfaces.Logger) (limiterStore, error) {
	if cfg.RateLimit.Limit == 0 {
		return nil, nil
	}

	if cfg.RateLimit.Backend == "redis" {
		store, err := redis.NewStore(redis.Options{
			Address:  cfg.RateLimit.Redis.Address,
			Password: cfg.RateLimit.Redis.Password,
			DB:       cfg.RateLimit.Redis.DB,
		}, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		if err == nil {
			logger.Info("Using Redis rate limiter", map[string]interface{}{
				"address": cfg.RateLimit.Redis.Address,
			})
			return store, nil
		}
		logger.Error("Failed to create Redis rate limiter, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	store, err := memory.NewStore(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	if err != nil {
		return nil, err
	}
	logger.Info("Using memory rate limiter", nil)
	return store, nil
}

// buildRouter assembles the HTTP surface around the app's search service
func buildRouter(a *app, limiter limiterStore) (http.Handler, error) {
	cfg := api.APIConfig{
		Logger:         a.logger,
		RateLimit:      a.cfg.RateLimit.Limit,
		RateWindow:     a.cfg.RateLimit.Window,
		TrustProxy:     a.cfg.RateLimit.TrustProxy,
		MetricsHandler: a.provider.Handler(),
	}
	if limiter != nil {
		cfg.Limiter = limiter
	}
	if a.provider.Enabled() {
		httpMetrics, err := telemetry.NewHTTPMetrics(a.provider.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}
		cfg.HTTPMetrics = httpMetrics
	}

	humaAPI, router := api.NewAPIWithMiddleware(cfg)
	handlers.NewSearchHandler(a.service, a.logger).RegisterRoutes(humaAPI)
	handlers.NewHealthHandler(a.service.Sources()).RegisterRoutes(humaAPI)

	return router, nil
}
