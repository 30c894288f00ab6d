// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Category cache backends.
const (
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// WooCommerce REST API
	WCURL            string
	WCConsumerKey    string
	WCConsumerSecret string

	// Category cache
	CategoryCacheTTLHours int    // <= 0 disables caching
	CategoryCacheBackend  string // "postgres" or "valkey"

	// S3-compatible storage for published flyers
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Operator authentication for mutating routes
	OperatorUser         string
	OperatorPasswordHash string // bcrypt; empty leaves the routes open
	OperatorTOTPSecret   string

	CORSAllowedOrigins []string

	// Flyer branding
	StoreName    string
	StoreLogoURL string
	StoreFooter  string

	// StoreLocation is the zone flyer weeks and validity dates are read in
	// (STORE_TIMEZONE, default Europe/Rome).
	StoreLocation *time.Location
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first when present; variables already set win over it.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}

	ttlHours, err := strconv.Atoi(envOrDefault("CATEGORY_CACHE_TTL_HOURS", "1"))
	if err != nil {
		return nil, fmt.Errorf("CATEGORY_CACHE_TTL_HOURS: %w", err)
	}

	tz := envOrDefault("STORE_TIMEZONE", "Europe/Rome")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("STORE_TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "flyerpress"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "flyerpress"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		WCURL:            strings.TrimRight(os.Getenv("WC_URL"), "/"),
		WCConsumerKey:    os.Getenv("WC_CONSUMER_KEY"),
		WCConsumerSecret: os.Getenv("WC_CONSUMER_SECRET"),

		CategoryCacheTTLHours: ttlHours,
		CategoryCacheBackend:  strings.ToLower(envOrDefault("CATEGORY_CACHE_BACKEND", BackendPostgres)),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "flyers"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		OperatorUser:         envOrDefault("OPERATOR_USER", "operator"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		OperatorTOTPSecret:   os.Getenv("OPERATOR_TOTP_SECRET"),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		StoreName:    envOrDefault("STORE_NAME", "Offerte della Settimana"),
		StoreLogoURL: os.Getenv("STORE_LOGO_URL"),
		StoreFooter:  os.Getenv("STORE_FOOTER"),

		StoreLocation: loc,
	}

	switch cfg.CategoryCacheBackend {
	case BackendPostgres, BackendValkey:
	default:
		return nil, fmt.Errorf("CATEGORY_CACHE_BACKEND must be %q or %q, got %q",
			BackendPostgres, BackendValkey, cfg.CategoryCacheBackend)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.WCURL == "" || cfg.WCConsumerKey == "" || cfg.WCConsumerSecret == "" {
			return nil, fmt.Errorf("WC_URL, WC_CONSUMER_KEY and WC_CONSUMER_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
