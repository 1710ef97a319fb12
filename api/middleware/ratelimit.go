// ABOUTME: Rate limiting middleware for API endpoints
// ABOUTME: Enforces a per-IP request budget against a pluggable limiter store

package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"modelsearch-api/core/interfaces"
)

// Limiter decides whether a request for key may proceed.
// Implementations live in infrastructure/ratelimit.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitConfig describes the budget for response headers
type RateLimitConfig struct {
	Limit  int
	Window time.Duration

	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP. Only safe behind
	// a proxy that overwrites those headers; otherwise clients can pick their key.
	TrustProxy bool
}

// extractIP gets the client IP from the request. Forwarding headers are
// ignored unless trustProxy is set.
func extractIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// first hop of X-Forwarded-For is the original client
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects requests over budget with 429. Limiter errors
// are logged and the request is let through.
func RateLimitMiddleware(limiter Limiter, cfg RateLimitConfig, logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, cfg.TrustProxy)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.Limit))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Error("Rate limiter unavailable", map[string]interface{}{
					"request_id": RequestIDFromContext(r.Context()),
					"remote_ip":  ip,
					"error":      err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.Warn("Rate limit exceeded", map[string]interface{}{
					"request_id": RequestIDFromContext(r.Context()),
					"remote_ip":  ip,
					"path":       r.URL.Path,
				})
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
