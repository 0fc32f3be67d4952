package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSessionSecret = "your-secret-key-change-in-production"

// Config holds the application configuration, populated from environment variables
type Config struct {
	App       AppConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Preview   PreviewConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigins []string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// SessionConfig verifies tokens minted by the OAuth session provider
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration // lifetime of tokens minted locally (dev/test)
}

// RateLimitConfig caps anonymous votes and likes per client
type RateLimitConfig struct {
	Enabled        bool
	AnonymousLimit int
	Window         time.Duration
}

// PreviewConfig configures the book-link metadata fetcher
type PreviewConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int

	// AllowPrivateHosts lets the fetcher reach loopback/private addresses (local dev only)
	AllowPrivateHosts bool
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BookNest API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", defaultSessionSecret),
			Issuer: getEnv("SESSION_ISSUER", "booknest-auth"),
			TTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			AnonymousLimit: getEnvInt("RATE_LIMIT_ANONYMOUS", 30),
			Window:         getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Preview: PreviewConfig{
			Timeout:   getEnvDuration("PREVIEW_TIMEOUT", 8*time.Second),
			UserAgent: getEnv("PREVIEW_USER_AGENT", "BookNestBot/1.0 (+https://booknest.app)"),
			MaxBytes:  getEnvInt("PREVIEW_MAX_BYTES", 2<<20),

			AllowPrivateHosts: getEnvBool("PREVIEW_ALLOW_PRIVATE_HOSTS", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings that are unsafe outside development
func (c *Config) Validate() error {
	if c.App.Environment == "production" && c.Session.Secret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	if c.RateLimit.Enabled && (c.RateLimit.AnonymousLimit < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_ANONYMOUS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// IsProduction is used to pick gin mode and log format
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
