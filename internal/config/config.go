package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL  = "https://cards-marketplace-api.onrender.com"
	DefaultCachePrefix = "cards-marketplace"
	DefaultCacheTTL    = 5 * time.Minute
	DefaultDebounce    = 300 * time.Millisecond
)

// StorageConfig selects and configures the client state backend
type StorageConfig struct {
	Type        string `yaml:"type" env:"STORAGE_TYPE"`
	SQLitePath  string `yaml:"sqlite_path" env:"STORAGE_SQLITE_PATH"`
	RedisURL    string `yaml:"redis_url" env:"STORAGE_REDIS_URL"`
	RedisPrefix string `yaml:"redis_prefix" env:"STORAGE_REDIS_PREFIX"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

// Config holds application configuration
type Config struct {
	Environment string `yaml:"environment" env:"ENVIRONMENT"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat   string `yaml:"log_format" env:"LOG_FORMAT"`

	// Client
	APIBaseURL     string        `yaml:"api_base_url" env:"API_BASE_URL"`
	HTTPTimeout    time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT"`
	RequestsPerSec float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	CachePrefix    string        `yaml:"cache_prefix" env:"CACHE_PREFIX"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
	DebounceDelay  time.Duration `yaml:"debounce_delay" env:"DEBOUNCE_DELAY"`
	Storage        StorageConfig `yaml:"storage"`

	// Sandbox server
	Port           string        `yaml:"port" env:"PORT"`
	SessionSecret  string        `yaml:"session_secret" env:"SESSION_SECRET"`
	TokenTTL       time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	AllowedOrigins string        `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	OpenAPIEnabled bool          `yaml:"openapi_validation" env:"OPENAPI_VALIDATION"`
	DemoEmail      string        `yaml:"demo_email" env:"SANDBOX_DEMO_EMAIL"`
	DemoPassword   string        `yaml:"demo_password" env:"SANDBOX_DEMO_PASSWORD"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() *Config {
	return &Config{
		Environment:    "development",
		LogLevel:       "info",
		LogFormat:      "text",
		APIBaseURL:     DefaultAPIBaseURL,
		HTTPTimeout:    15 * time.Second,
		CachePrefix:    DefaultCachePrefix,
		CacheTTL:       DefaultCacheTTL,
		DebounceDelay:  DefaultDebounce,
		Storage:        StorageConfig{Type: "sqlite", SQLitePath: defaultStatePath(), RedisPrefix: DefaultCachePrefix},
		Port:           "8080",
		TokenTTL:       24 * time.Hour,
		AllowedOrigins: "http://localhost:5173,http://localhost:8080",
		OpenAPIEnabled: true,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// MARKETPLACE_CONFIG and the environment (which wins), then validates it.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Defaults()

	if path := os.Getenv("MARKETPLACE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL (got %q)", c.APIBaseURL)
	}

	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}

	switch c.Storage.Type {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return errors.New("STORAGE_SQLITE_PATH is required for sqlite storage")
		}
	case "redis":
		if c.Storage.RedisURL == "" {
			return errors.New("STORAGE_REDIS_URL is required for redis storage")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}

	if c.IsProduction() && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use https in production")
	}

	return nil
}

// ValidateSandbox applies the extra rules for running the sandbox server
func (c *Config) ValidateSandbox() error {
	// Production environment requires strong secrets
	if c.IsProduction() {
		if c.SessionSecret == "" || c.SessionSecret == "change-this-in-production" {
			return fmt.Errorf("SESSION_SECRET must be set to a strong random value in production")
		}

		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production (got %d)", len(c.SessionSecret))
		}
	} else if c.SessionSecret == "" {
		// Development/staging: provide default if not set
		c.SessionSecret = "dev-secret-not-for-production"
		log.Println("Using default SESSION_SECRET for development")
	}

	if c.Port == "" {
		return errors.New("PORT is required")
	}

	if (c.DemoEmail == "") != (c.DemoPassword == "") {
		return errors.New("SANDBOX_DEMO_EMAIL and SANDBOX_DEMO_PASSWORD must be set together")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

// Origins splits AllowedOrigins into a trimmed list
func (c *Config) Origins() []string {
	origins := strings.Split(c.AllowedOrigins, ",")
	out := origins[:0]
	for _, origin := range origins {
		if o := strings.TrimSpace(origin); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "cards-marketplace.db"
	}
	return filepath.Join(dir, "cards-marketplace", "state.db")
}
