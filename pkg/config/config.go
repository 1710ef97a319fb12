// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines server, logging, source, rate limit and metrics settings loaded through viper

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Log contains logger configuration
	Log LogConfig

	// Sources contains the upstream search source settings
	Sources SourcesConfig

	// RateLimit contains per-IP rate limiting configuration
	RateLimit RateLimitConfig

	// Metrics contains metrics exporter configuration
	Metrics MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// HTTPTimeout bounds every outbound upstream request
	HTTPTimeout time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string

	// Format is json or text
	Format string

	// File enables rotating file output when set
	File string
}

// SourcesConfig groups the settings of each search source
type SourcesConfig struct {
	Printables  PrintablesConfig
	Thingiverse ThingiverseConfig
	Makerworld  MakerworldConfig
}

// PrintablesConfig holds the Printables GraphQL settings
type PrintablesConfig struct {
	Endpoint     string
	ModelBaseURL string
}

// ThingiverseConfig holds the Thingiverse API settings
type ThingiverseConfig struct {
	Endpoint string

	// TokenEnv names the environment variable read for the access token on each call
	TokenEnv string
}

// MakerworldConfig holds the MakerWorld scrape settings
type MakerworldConfig struct {
	BaseURL    string
	SearchPath string
	UserAgent  string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Limit is the number of requests allowed per window; 0 disables limiting
	Limit int

	// Window is the rate limit window
	Window time.Duration

	// Backend selects the limiter store (memory/redis)
	Backend string

	// TrustProxy keys clients by forwarding headers; enable only behind a
	// reverse proxy that sets them
	TrustProxy bool

	// Redis contains Redis-specific configuration
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	// Enabled exposes /metrics and records source metrics
	Enabled bool
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("http_timeout", "30s")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("log_file", "")

	v.SetDefault("printables_endpoint", "https://api.printables.com/graphql")
	v.SetDefault("printables_model_base_url", "https://www.printables.com")
	v.SetDefault("thingiverse_endpoint", "https://api.thingiverse.com")
	v.SetDefault("thingiverse_token_env", "THINGIVERSE_TOKEN")
	v.SetDefault("makerworld_base_url", "https://makerworld.com")
	v.SetDefault("makerworld_search_path", "/de/search")
	v.SetDefault("makerworld_user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	v.SetDefault("rate_limit", 100)
	v.SetDefault("rate_window", "1m")
	v.SetDefault("rate_limit_backend", "memory")
	v.SetDefault("trust_proxy", false)
	v.SetDefault("redis_address", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("metrics_enabled", true)
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return Load(v)
}

// Load reads configuration from an existing viper instance, e.g. one with
// command line flags bound
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("port"),
			HTTPTimeout: v.GetDuration("http_timeout"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log_level")),
			Format: strings.ToLower(v.GetString("log_format")),
			File:   v.GetString("log_file"),
		},
		Sources: SourcesConfig{
			Printables: PrintablesConfig{
				Endpoint:     v.GetString("printables_endpoint"),
				ModelBaseURL: v.GetString("printables_model_base_url"),
			},
			Thingiverse: ThingiverseConfig{
				Endpoint: v.GetString("thingiverse_endpoint"),
				TokenEnv: v.GetString("thingiverse_token_env"),
			},
			Makerworld: MakerworldConfig{
				BaseURL:    v.GetString("makerworld_base_url"),
				SearchPath: v.GetString("makerworld_search_path"),
				UserAgent:  v.GetString("makerworld_user_agent"),
			},
		},
		RateLimit: RateLimitConfig{
			Limit:      v.GetInt("rate_limit"),
			Window:     v.GetDuration("rate_window"),
			Backend:    strings.ToLower(v.GetString("rate_limit_backend")),
			TrustProxy: v.GetBool("trust_proxy"),
			Redis: RedisConfig{
				Address:  v.GetString("redis_address"),
				Password: v.GetString("redis_password"),
				DB:       v.GetInt("redis_db"),
			},
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
		},
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.HTTPTimeout <= 0 {
		return errors.New("http timeout must be a positive duration")
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return errors.New("log format must be 'json' or 'text'")
	}

	if c.Sources.Thingiverse.TokenEnv == "" {
		return errors.New("thingiverse token env name cannot be empty")
	}

	if c.RateLimit.Limit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	if c.RateLimit.Limit > 0 {
		if c.RateLimit.Window <= 0 {
			return errors.New("rate window must be a positive duration")
		}

		if c.RateLimit.Backend != "redis" && c.RateLimit.Backend != "memory" {
			return fmt.Errorf("rate limit backend must be 'redis' or 'memory', got %q", c.RateLimit.Backend)
		}

		if c.RateLimit.Backend == "redis" && c.RateLimit.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis rate limiting")
		}
	}

	return nil
}
