package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/macrolens/intake/internal/logging"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Store     StoreConfig
	Log       LogConfig
	Server    ServerConfig
	USDA      USDAConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// StoreConfig selects where the food catalog lives
type StoreConfig struct {
	Type string `mapstructure:"type"` // "json" or "sqlite"
	Path string `mapstructure:"path"`
	// Create starts an empty catalog when the store does not exist yet.
	Create bool `mapstructure:"create"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// USDAConfig holds USDA API configuration. Without an API key,
// nutrition suggestions for new foods are disabled.
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Enabled reports whether USDA suggestions are configured.
func (c USDAConfig) Enabled() bool {
	return c.APIKey != ""
}

// CacheConfig holds match cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client
	USDA  int `mapstructure:"usda"`   // requests per hour
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.config/intake")

	// INTAKE_STORE_PATH -> store.path
	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a
// default so that environment variables are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("store.type", "json")
	v.SetDefault("store.path", "nutrition.json")
	v.SetDefault("store.create", false)

	v.SetDefault("log.level", "info")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})

	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Type != "json" && config.Store.Type != "sqlite" {
		return fmt.Errorf("store type must be 'json' or 'sqlite', got: %s", config.Store.Type)
	}

	if strings.TrimSpace(config.Store.Path) == "" {
		return fmt.Errorf("store path is required (set INTAKE_STORE_PATH)")
	}

	if !logging.ValidLevel(config.Log.Level) {
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	if config.USDA.Enabled() && config.USDA.BaseURL == "" {
		return fmt.Errorf("USDA base URL is required when an API key is set")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	if config.RateLimit.USDA <= 0 {
		return fmt.Errorf("USDA rate limit must be positive, got: %d", config.RateLimit.USDA)
	}

	return nil
}
