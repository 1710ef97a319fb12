// ABOUTME: In-memory rate limit store holding one token bucket per client key
// ABOUTME: Buckets live in an expiring go-cache so idle clients are forgotten

package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Store implements a per-key token bucket limiter
type Store struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	limit   int
	window  time.Duration
}

// NewStore allows limit requests per window for every key, refilling evenly
func NewStore(limit int, window time.Duration) (*Store, error) {
	if limit <= 0 {
		return nil, errors.New("rate limit must be positive")
	}
	if window <= 0 {
		return nil, errors.New("rate window must be positive")
	}

	return &Store{
		buckets: gocache.New(2*window, 2*window),
		limit:   limit,
		window:  window,
	}, nil
}

// Allow consumes one token for key
func (s *Store) Allow(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	return s.bucket(key).Allow(), nil
}

// bucket returns the limiter for key, creating it on first use. Each access
// pushes the expiry out again.
func (s *Store) bucket(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.buckets.Get(key); ok {
		limiter := v.(*rate.Limiter)
		s.buckets.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(rate.Every(s.window/time.Duration(s.limit)), s.limit)
	s.buckets.SetDefault(key, limiter)
	return limiter
}

// Len returns the number of tracked keys
func (s *Store) Len() int {
	return s.buckets.ItemCount()
}

// Close releases resources; the store holds nothing that needs closing
func (s *Store) Close() error {
	return nil
}
