package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Cache     CacheConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UpstreamConfig holds provider API configuration. APIKey is deliberately
// not validated here: its absence is surfaced per request by the search
// client so the process can still boot for local work without a key.
type UpstreamConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SearchConfig holds defaults applied to provider search requests
type SearchConfig struct {
	Page     int `mapstructure:"page"`
	PageSize int `mapstructure:"page_size"`
}

// RateLimitConfig holds rate limiting configuration for upstream calls
type RateLimitConfig struct {
	Upstream float64 `mapstructure:"upstream"`
	Burst    int     `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/trolleywatch/")

	// Environment variable settings
	v.SetEnvPrefix("TROLLEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Upstream defaults. The empty api_key default keeps the key visible
	// to viper so the TROLLEY_UPSTREAM_API_KEY env var binds on Unmarshal.
	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.timeout", "12s")

	// Cache defaults: short TTL to absorb rapid duplicate lookups without
	// serving materially stale prices
	v.SetDefault("cache.ttl", "45s")

	// Search defaults
	v.SetDefault("search.page", 1)
	v.SetDefault("search.page_size", 20)

	// Rate limit defaults (upstream requests per second, shared burst)
	v.SetDefault("ratelimit.upstream", 5.0)
	v.SetDefault("ratelimit.burst", 10)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got: %s", config.Upstream.Timeout)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Search.PageSize < 1 {
		return fmt.Errorf("search page size must be at least 1, got: %d", config.Search.PageSize)
	}

	return nil
}
