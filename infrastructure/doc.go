// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package and the api middleware. These implementations
// handle external concerns such as HTTP communication, logging, rate limit
// state and metrics.
//
// The infrastructure package is organized by technical concern:
//
// - http/standard: net/http client with a size-capped body and no retries
// - logger/logrus: Structured logger backed by logrus, with optional file rotation
// - ratelimit/memory: Per-key token buckets held in go-cache
// - ratelimit/redis: Fixed-window counters in Redis, shared between replicas
// - telemetry: OpenTelemetry meters exported in Prometheus format
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	resp, err := client.Get(ctx, "https://api.thingiverse.com/search/benchy")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "debug", Format: "text"})
//	logger.Info("Search completed", map[string]interface{}{
//	    "term":    "benchy",
//	    "results": 42,
//	})
//
// # Rate Limit Stores
//
//	store, err := memory.NewStore(100, time.Minute)
//	allowed, err := store.Allow(ctx, "203.0.113.7")
//
package infrastructure
