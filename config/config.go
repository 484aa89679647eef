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
	Providers ProvidersConfig
	Vision    VisionConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProvidersConfig holds the barcode lookup provider configuration.
// The order of the fallback chain is fixed in wiring, not configured here.
type ProvidersConfig struct {
	BarcodeLookup BarcodeLookupConfig `mapstructure:"barcodelookup"`
	UPCItemDB     UPCItemDBConfig     `mapstructure:"upcitemdb"`
	OpenFoodFacts OpenFoodFactsConfig `mapstructure:"openfoodfacts"`
}

// BarcodeLookupConfig holds Barcode Lookup API configuration
type BarcodeLookupConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// UPCItemDBConfig holds UPCitemdb API configuration
type UPCItemDBConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// VisionConfig holds vision provider configuration
type VisionConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	Model         string  `mapstructure:"model"`
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AnalyticsConfig holds the analytics sink configuration. An empty endpoint
// disables recording.
type AnalyticsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/warrantyhub/")

	// Environment variable settings
	v.SetEnvPrefix("WARRANTYHUB")
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
	v.SetDefault("server.allowed_origins", []string{"https://*.warrantyhub.app", "http://localhost:3000"})

	// Provider defaults. Secrets default to empty so the env bindings are
	// registered; validate() enforces presence.
	v.SetDefault("providers.barcodelookup.api_key", "")
	v.SetDefault("providers.barcodelookup.base_url", "https://api.barcodelookup.com")
	v.SetDefault("providers.upcitemdb.base_url", "https://api.upcitemdb.com")
	v.SetDefault("providers.openfoodfacts.base_url", "https://world.openfoodfacts.org")

	// Vision defaults
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.base_url", "https://api.openai.com")
	v.SetDefault("vision.model", "gpt-4o-mini")
	v.SetDefault("vision.min_confidence", 0.7)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Analytics defaults
	v.SetDefault("analytics.endpoint", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Providers.BarcodeLookup.APIKey == "" {
		return fmt.Errorf("Barcode Lookup API key is required (set WARRANTYHUB_PROVIDERS_BARCODELOOKUP_API_KEY)")
	}

	if config.Vision.APIKey == "" {
		return fmt.Errorf("vision API key is required (set WARRANTYHUB_VISION_API_KEY)")
	}

	if config.Vision.MinConfidence <= 0 || config.Vision.MinConfidence > 1 {
		return fmt.Errorf("vision min_confidence must be in (0, 1], got: %v", config.Vision.MinConfidence)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	return nil
}
