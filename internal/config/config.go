// Package config loads and validates application configuration from
// environment variables, optionally pre-loaded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// StoreDriver selects the group and comment store: "postgres" (default)
	// or "memory".
	StoreDriver string

	// DatabaseURL is the Postgres connection string. Required when
	// StoreDriver is "postgres".
	DatabaseURL string

	// RedisURL enables the Redis message log and the directory cache.
	// Empty keeps messages in memory and disables the cache.
	RedisURL string

	// DirectoryCacheTTL bounds how stale a cached directory listing may be.
	DirectoryCacheTTL time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFormat is "json" (default) or "text".
	LogFormat string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret is the HS256 secret of the identity provider. Empty means
	// the X-User-Id header is trusted, which is for development only.
	JWTSecret string

	// AdminUserIDs may create hosted trips and verify groups.
	AdminUserIDs []string

	// NodeID is the snowflake node number, 0 to 1023.
	NodeID int64

	BudgetLowCeiling float64
	BudgetHighFloor  float64

	RateLimitRPS   float64
	RateLimitBurst int

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first if present; it never
// overrides variables that are already set.
// Returns an error listing any required variables that are not set and any
// values that cannot be parsed.
func Load() (Config, error) {
	_ = godotenv.Load()

	p := parser{}
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		RedisURL:          os.Getenv("REDIS_URL"),
		DirectoryCacheTTL: p.duration("DIRECTORY_CACHE_TTL", 30*time.Second),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "json")),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUserIDs:      splitCSV(os.Getenv("ADMIN_USER_IDS")),
		NodeID:            int64(p.int("NODE_ID", 1)),
		BudgetLowCeiling:  p.float("BUDGET_LOW_CEILING", 25000),
		BudgetHighFloor:   p.float("BUDGET_HIGH_FLOOR", 40000),
		RateLimitRPS:      p.float("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    p.int("RATE_LIMIT_BURST", 10),
		MaxBodyBytes:      int64(p.int("MAX_BODY_BYTES", 1<<20)),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.StoreDriver == StorePostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	switch cfg.StoreDriver {
	case StorePostgres, StoreMemory:
	default:
		p.fail("STORE_DRIVER", "must be postgres or memory")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		p.fail("LOG_FORMAT", "must be json or text")
	}
	if cfg.NodeID < 0 || cfg.NodeID > 1023 {
		p.fail("NODE_ID", "must be between 0 and 1023")
	}
	if cfg.BudgetLowCeiling > cfg.BudgetHighFloor {
		p.fail("BUDGET_LOW_CEILING", "must not exceed BUDGET_HIGH_FLOOR")
	}
	if cfg.MaxBodyBytes <= 0 {
		p.fail("MAX_BODY_BYTES", "must be positive")
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, "; "))
	}

	return cfg, nil
}

// parser collects every unparsable value so Load can report them together.
type parser struct {
	invalid []string
}

func (p *parser) fail(key, reason string) {
	p.invalid = append(p.invalid, key+" "+reason)
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, "must be an integer")
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, "must be a number")
		return fallback
	}
	return f
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, "must be a duration such as 30s")
		return fallback
	}
	return d
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
