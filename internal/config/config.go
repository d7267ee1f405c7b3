package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string
	JWTSecret          string
	Port               string
	Env                string
	LogLevel           string
	RateLimitEnroll    RateLimitConfig
	TokenTTL           time.Duration
	Location           *time.Location
	DefaultPhoneRegion string
	RedisURL           string
	EventCacheTTL      time.Duration
	NotifyWebhookURL   string
	AutoMigrate        bool
	SeedSampleData     bool
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TokenTTL:           parseDuration(getEnv("JWT_TTL", "1h"), time.Hour),
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "PL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		EventCacheTTL:      parseDuration(getEnv("EVENT_CACHE_TTL", "30s"), 30*time.Second),
		NotifyWebhookURL:   os.Getenv("NOTIFY_WEBHOOK_URL"),
		AutoMigrate:        parseBool(getEnv("AUTO_MIGRATE", "true")),
		SeedSampleData:     parseBool(getEnv("SEED_SAMPLE_DATA", "false")),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_ENROLL", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ENROLL value: %w", err)
	}
	cfg.RateLimitEnroll = rl

	loc, err := time.LoadLocation(getEnv("STUDIO_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid STUDIO_TIMEZONE value: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return v
}
