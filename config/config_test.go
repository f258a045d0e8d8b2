package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("TROLLEY_SERVER_PORT")
		os.Unsetenv("TROLLEY_SERVER_ENVIRONMENT")
		os.Unsetenv("TROLLEY_UPSTREAM_API_KEY")
		os.Unsetenv("TROLLEY_UPSTREAM_TIMEOUT")
		os.Unsetenv("TROLLEY_CACHE_TTL")
		os.Unsetenv("TROLLEY_SEARCH_PAGE")
		os.Unsetenv("TROLLEY_SEARCH_PAGE_SIZE")
		os.Unsetenv("TROLLEY_RATELIMIT_UPSTREAM")
		os.Unsetenv("TROLLEY_RATELIMIT_BURST")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Upstream.Timeout != 12*time.Second {
			t.Errorf("Upstream.Timeout = %v, want 12s", cfg.Upstream.Timeout)
		}
		if cfg.Cache.TTL != 45*time.Second {
			t.Errorf("Cache.TTL = %v, want 45s", cfg.Cache.TTL)
		}
		if cfg.Search.Page != 1 {
			t.Errorf("Search.Page = %d, want 1", cfg.Search.Page)
		}
		if cfg.Search.PageSize != 20 {
			t.Errorf("Search.PageSize = %d, want 20", cfg.Search.PageSize)
		}
		if cfg.RateLimit.Upstream != 5.0 {
			t.Errorf("RateLimit.Upstream = %v, want 5.0", cfg.RateLimit.Upstream)
		}
		if cfg.RateLimit.Burst != 10 {
			t.Errorf("RateLimit.Burst = %d, want 10", cfg.RateLimit.Burst)
		}
	})

	t.Run("missing API key is not a load failure", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Upstream.APIKey != "" {
			t.Errorf("Upstream.APIKey = %q, want empty", cfg.Upstream.APIKey)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TROLLEY_SERVER_PORT", "9090")
		os.Setenv("TROLLEY_SERVER_ENVIRONMENT", "production")
		os.Setenv("TROLLEY_UPSTREAM_API_KEY", "custom-api-key")
		os.Setenv("TROLLEY_UPSTREAM_TIMEOUT", "5s")
		os.Setenv("TROLLEY_CACHE_TTL", "90s")
		os.Setenv("TROLLEY_SEARCH_PAGE_SIZE", "50")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Upstream.APIKey != "custom-api-key" {
			t.Errorf("Upstream.APIKey = %s, want custom-api-key", cfg.Upstream.APIKey)
		}
		if cfg.Upstream.Timeout != 5*time.Second {
			t.Errorf("Upstream.Timeout = %v, want 5s", cfg.Upstream.Timeout)
		}
		if cfg.Cache.TTL != 90*time.Second {
			t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
		}
		if cfg.Search.PageSize != 50 {
			t.Errorf("Search.PageSize = %d, want 50", cfg.Search.PageSize)
		}
	})

	t.Run("fails validation for non-positive cache TTL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TROLLEY_CACHE_TTL", "0s")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero cache TTL")
		}
	})

	t.Run("fails validation for non-positive upstream timeout", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TROLLEY_UPSTREAM_TIMEOUT", "0s")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero upstream timeout")
		}
	})

	t.Run("fails validation for page size below one", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TROLLEY_SEARCH_PAGE_SIZE", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero page size")
		}
	})
}
