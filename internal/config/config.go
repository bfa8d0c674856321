package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Marketplace backend
	MarketplaceBaseURL        string
	MarketplaceTimeoutSeconds int
	MarketplaceUserAgent      string

	// Redis (optional blocked-dates snapshot cache)
	RedisURL             string
	BlockedDatesCacheTTL time.Duration

	// JWT issued by the marketplace backend
	JWTSecret    string
	JWTAccessTTL time.Duration

	// CORS
	AllowedOrigins []string

	// Checkout
	CheckoutSessionTTL   time.Duration
	SuccessRedirectDelay time.Duration
	ReconcileMaxAttempts int
	ReconcileBackoff     time.Duration

	// Time zone booking windows are entered in
	Timezone string

	// Logging
	LogLevel string
	LogFile  string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Marketplace
		MarketplaceBaseURL:        getEnv("MARKETPLACE_BASE_URL", "http://localhost:3001/api"),
		MarketplaceTimeoutSeconds: parseInt(getEnv("MARKETPLACE_TIMEOUT_SECONDS", "10"), 10),
		MarketplaceUserAgent:      getEnv("MARKETPLACE_USER_AGENT", "AlugaCar/1.0 booking-web"),

		// Redis
		RedisURL:             getEnv("REDIS_URL", ""),
		BlockedDatesCacheTTL: parseDuration(getEnv("BLOCKED_DATES_CACHE_TTL", "60s"), time.Minute),

		// JWT
		JWTSecret:    getEnv("JWT_SECRET", "super-secret-key-change-me"),
		JWTAccessTTL: parseDuration(getEnv("JWT_ACCESS_TTL", "15m"), 15*time.Minute),

		// CORS
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		// Checkout
		CheckoutSessionTTL:   parseDuration(getEnv("CHECKOUT_SESSION_TTL", "30m"), 30*time.Minute),
		SuccessRedirectDelay: parseDuration(getEnv("SUCCESS_REDIRECT_DELAY", "2s"), 2*time.Second),
		ReconcileMaxAttempts: parseInt(getEnv("RECONCILE_MAX_ATTEMPTS", "1"), 1),
		ReconcileBackoff:     parseDuration(getEnv("RECONCILE_BACKOFF", "2s"), 2*time.Second),

		Timezone: getEnv("TIMEZONE", "Local"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate reports every missing or unusable setting at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.MarketplaceBaseURL) == "" {
		errs = append(errs, errors.New("MARKETPLACE_BASE_URL is required"))
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == "super-secret-key-change-me") {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.ReconcileMaxAttempts < 1 {
		errs = append(errs, errors.New("RECONCILE_MAX_ATTEMPTS must be at least 1"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, errors.New("TIMEZONE is not a known location: "+err.Error()))
	}
	return errors.Join(errs...)
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// MarketplaceTimeout returns the upstream request timeout.
func (c *Config) MarketplaceTimeout() time.Duration {
	return time.Duration(c.MarketplaceTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
