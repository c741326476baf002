package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/clipx/clipx-resolver/pkg/resolve"
	"github.com/clipx/clipx-resolver/pkg/ytdlp"
)

// config holds the service configuration, loaded from the environment.
type config struct {
	Port string

	// APIKey guards /resolve; empty disables auth (handy for testing).
	APIKey string

	YtdlpPath      string
	ResolveTimeout time.Duration
	CacheTTL       time.Duration

	LogLevel  string
	LogPretty bool

	// RateLimit is requests per second admitted to /resolve; RateBurst
	// is the burst capacity.
	RateLimit float64
	RateBurst int
}

func loadConfig() config {
	return config{
		Port:           getEnv("PORT", "8080"),
		APIKey:         strings.TrimSpace(os.Getenv("API_KEY")),
		YtdlpPath:      getEnv("YTDLP_PATH", ytdlp.DefaultBinary),
		ResolveTimeout: getEnvDuration("RESOLVE_TIMEOUT", ytdlp.DefaultTimeout),
		CacheTTL:       getEnvDuration("CACHE_TTL", resolve.DefaultCacheTTL),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvBool("LOG_PRETTY", false),
		RateLimit:      getEnvFloat("RATE_LIMIT", 50),
		RateBurst:      getEnvInt("RATE_BURST", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept both bare seconds ("300") and Go durations ("5m").
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
