package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all environment variables for the product catalog.
type Config struct {
	Port            string        // Service port (default: 8082)
	Env             string        // "production" switches to JSON logs
	RedisURL        string        // Empty disables the query cache and the event relay
	SeedCatalog     bool          // Load the startup catalog
	QueryLatency    time.Duration // Simulated backend latency for queries
	MutationLatency time.Duration // Simulated backend latency for add/update/delete
	RateLimitRPS    float64
	RateLimitBurst  int
	AllowedOrigins  string
	RequestTimeout  time.Duration
}

// LoadConfig loads environment variables into Config struct and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8082"),
		Env:            getEnv("APP_ENV", "development"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}

	var err error
	if cfg.SeedCatalog, err = strconv.ParseBool(getEnv("SEED_CATALOG", "true")); err != nil {
		return nil, fmt.Errorf("SEED_CATALOG must be a boolean: %w", err)
	}
	if cfg.QueryLatency, err = getMillis("QUERY_LATENCY_MS", 0); err != nil {
		return nil, err
	}
	if cfg.MutationLatency, err = getMillis("MUTATION_LATENCY_MS", 0); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getMillis("REQUEST_TIMEOUT_MS", 30000); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64); err != nil || cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "40")); err != nil || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getMillis(key string, fallback int) (time.Duration, error) {
	ms, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
