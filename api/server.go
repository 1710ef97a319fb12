// ABOUTME: Huma API server configuration and setup
// ABOUTME: Builds the chi router, middleware chain and OpenAPI documentation

package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"modelsearch-api/api/middleware"
	"modelsearch-api/core/interfaces"
	"modelsearch-api/infrastructure/telemetry"
)

const (
	// Title is the OpenAPI title
	Title = "Model Search API"

	// Version is the OpenAPI version
	Version = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger interfaces.Logger

	// Limiter enables per-IP rate limiting when non-nil
	Limiter    middleware.Limiter
	RateLimit  int           // requests per window
	RateWindow time.Duration // rate limit window

	// TrustProxy keys rate limits by X-Forwarded-For / X-Real-IP
	TrustProxy bool

	// HTTPMetrics records request metrics when non-nil
	HTTPMetrics *telemetry.HTTPMetrics

	// MetricsHandler is mounted at /metrics when non-nil
	MetricsHandler http.Handler
}

// NewConfig returns the huma configuration shared by the server and tests.
// Create hooks are cleared so bodies carry no $schema link.
func NewConfig() huma.Config {
	config := huma.DefaultConfig(Title, Version)
	config.Info.Description = "Searches several 3D model repositories at once and returns one shuffled list of results"
	config.CreateHooks = nil
	return config
}

// NewAPI creates and configures a new Huma API instance with CORS only
func NewAPI() (huma.API, chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.CORSMiddleware)

	// OpenAPI document at /openapi.json, docs UI at /docs
	api := humachi.New(router, NewConfig())

	return api, router
}

// NewAPIWithMiddleware creates a new API with the full middleware chain:
// CORS, request logging, rate limiting, then metrics.
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// CORS first so pre-flights and rejections carry the headers too
	router.Use(middleware.CORSMiddleware)

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.Limiter != nil {
		logger := cfg.Logger
		if logger == nil {
			logger = interfaces.NopLogger{}
		}
		router.Use(middleware.RateLimitMiddleware(cfg.Limiter, middleware.RateLimitConfig{
			Limit:      cfg.RateLimit,
			Window:     cfg.RateWindow,
			TrustProxy: cfg.TrustProxy,
		}, logger))
	}

	if cfg.HTTPMetrics != nil {
		router.Use(cfg.HTTPMetrics.Middleware)
	}

	if cfg.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	api := humachi.New(router, NewConfig())

	return api, router
}
