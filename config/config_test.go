package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("WARRANTYHUB_SERVER_PORT")
		os.Unsetenv("WARRANTYHUB_SERVER_ENVIRONMENT")
		os.Unsetenv("WARRANTYHUB_PROVIDERS_BARCODELOOKUP_API_KEY")
		os.Unsetenv("WARRANTYHUB_PROVIDERS_BARCODELOOKUP_BASE_URL")
		os.Unsetenv("WARRANTYHUB_PROVIDERS_UPCITEMDB_BASE_URL")
		os.Unsetenv("WARRANTYHUB_PROVIDERS_OPENFOODFACTS_BASE_URL")
		os.Unsetenv("WARRANTYHUB_VISION_API_KEY")
		os.Unsetenv("WARRANTYHUB_VISION_MODEL")
		os.Unsetenv("WARRANTYHUB_VISION_MIN_CONFIDENCE")
		os.Unsetenv("WARRANTYHUB_CACHE_TYPE")
		os.Unsetenv("WARRANTYHUB_CACHE_REDIS_URL")
		os.Unsetenv("WARRANTYHUB_CACHE_TTL")
		os.Unsetenv("WARRANTYHUB_ANALYTICS_ENDPOINT")
	}

	setRequiredKeys := func() {
		os.Setenv("WARRANTYHUB_PROVIDERS_BARCODELOOKUP_API_KEY", "test-bl-key")
		os.Setenv("WARRANTYHUB_VISION_API_KEY", "test-vision-key")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		setRequiredKeys()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Providers.BarcodeLookup.BaseURL != "https://api.barcodelookup.com" {
			t.Errorf("BarcodeLookup.BaseURL = %s", cfg.Providers.BarcodeLookup.BaseURL)
		}
		if cfg.Providers.UPCItemDB.BaseURL != "https://api.upcitemdb.com" {
			t.Errorf("UPCItemDB.BaseURL = %s", cfg.Providers.UPCItemDB.BaseURL)
		}
		if cfg.Providers.OpenFoodFacts.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("OpenFoodFacts.BaseURL = %s", cfg.Providers.OpenFoodFacts.BaseURL)
		}
		if cfg.Vision.Model != "gpt-4o-mini" {
			t.Errorf("Vision.Model = %s, want gpt-4o-mini", cfg.Vision.Model)
		}
		if cfg.Vision.MinConfidence != 0.7 {
			t.Errorf("Vision.MinConfidence = %v, want 0.7", cfg.Vision.MinConfidence)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 720*time.Hour {
			t.Errorf("Cache.TTL = %v, want 720h", cfg.Cache.TTL)
		}
		if cfg.Analytics.Endpoint != "" {
			t.Errorf("Analytics.Endpoint = %s, want empty", cfg.Analytics.Endpoint)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		setRequiredKeys()
		os.Setenv("WARRANTYHUB_SERVER_PORT", "9090")
		os.Setenv("WARRANTYHUB_SERVER_ENVIRONMENT", "production")
		os.Setenv("WARRANTYHUB_PROVIDERS_BARCODELOOKUP_BASE_URL", "https://custom.api.com")
		os.Setenv("WARRANTYHUB_VISION_MODEL", "gpt-4o")
		os.Setenv("WARRANTYHUB_VISION_MIN_CONFIDENCE", "0.85")
		os.Setenv("WARRANTYHUB_CACHE_TTL", "24h")
		os.Setenv("WARRANTYHUB_ANALYTICS_ENDPOINT", "https://analytics.example.com/events")
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
		if cfg.Providers.BarcodeLookup.APIKey != "test-bl-key" {
			t.Errorf("BarcodeLookup.APIKey = %s, want test-bl-key", cfg.Providers.BarcodeLookup.APIKey)
		}
		if cfg.Providers.BarcodeLookup.BaseURL != "https://custom.api.com" {
			t.Errorf("BarcodeLookup.BaseURL = %s, want https://custom.api.com", cfg.Providers.BarcodeLookup.BaseURL)
		}
		if cfg.Vision.Model != "gpt-4o" {
			t.Errorf("Vision.Model = %s, want gpt-4o", cfg.Vision.Model)
		}
		if cfg.Vision.MinConfidence != 0.85 {
			t.Errorf("Vision.MinConfidence = %v, want 0.85", cfg.Vision.MinConfidence)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Analytics.Endpoint != "https://analytics.example.com/events" {
			t.Errorf("Analytics.Endpoint = %s", cfg.Analytics.Endpoint)
		}
	})

	t.Run("fails without barcode lookup api key", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("WARRANTYHUB_VISION_API_KEY", "test-vision-key")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want missing API key error")
		}
	})

	t.Run("fails without vision api key", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("WARRANTYHUB_PROVIDERS_BARCODELOOKUP_API_KEY", "test-bl-key")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want missing API key error")
		}
	})

	t.Run("fails with invalid cache type", func(t *testing.T) {
		cleanupEnv()
		setRequiredKeys()
		os.Setenv("WARRANTYHUB_CACHE_TYPE", "memcached")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want invalid cache type error")
		}
	})

	t.Run("fails when redis cache has no url", func(t *testing.T) {
		cleanupEnv()
		setRequiredKeys()
		os.Setenv("WARRANTYHUB_CACHE_TYPE", "redis")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want missing redis url error")
		}
	})

	t.Run("fails with out-of-range confidence threshold", func(t *testing.T) {
		cleanupEnv()
		setRequiredKeys()
		os.Setenv("WARRANTYHUB_VISION_MIN_CONFIDENCE", "1.5")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want out-of-range threshold error")
		}
	})
}
