// ABOUTME: Redis-backed rate limit store using a fixed window counter per key
// ABOUTME: Lets several API instances share one request budget per client

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "modelsearch:ratelimit:"

// Options configures the Redis connection
type Options struct {
	Address  string
	Password string
	DB       int
}

// Store implements a fixed window limiter on Redis
type Store struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewStore connects to Redis and verifies the connection
func NewStore(opts Options, limit int, window time.Duration) (*Store, error) {
	if opts.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limit and window must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Store{
		client: client,
		limit:  limit,
		window: window,
	}, nil
}

// Allow increments the key's counter for the current window
func (s *Store) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := s.windowKey(key, time.Now())

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, s.window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return incr.Val() <= int64(s.limit), nil
}

// windowKey names the counter for key in the window containing now
func (s *Store) windowKey(key string, now time.Time) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, key, now.UnixNano()/int64(s.window))
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
