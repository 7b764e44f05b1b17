// Package config loads service configuration from the environment.
package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ListenAddr        string
	PostgresDSN       string
	ClickhouseDSN     string
	RedisAddr         string
	UseMemory         bool
	PlatformBaseURL   string
	PlatformWSURL     string
	LookbackDays      int
	CacheTTL          time.Duration
	SimulationWorkers int
	SimulationTimeout time.Duration
	LogLevel          string
}

// Load reads configuration from environment variables, applying defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	// .env is optional; system environment wins when both are set.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:        getEnvWithDefault("LISTEN_ADDR", ":8080"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		ClickhouseDSN:     os.Getenv("CLICKHOUSE_DSN"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		UseMemory:         getEnvBoolWithDefault("USE_MEMORY", false),
		PlatformBaseURL:   os.Getenv("PLATFORM_BASE_URL"),
		PlatformWSURL:     os.Getenv("PLATFORM_WS_URL"),
		LookbackDays:      getEnvIntWithDefault("LOOKBACK_DAYS", 90),
		CacheTTL:          getEnvDurationWithDefault("CACHE_TTL", 24*time.Hour),
		SimulationWorkers: getEnvIntWithDefault("SIMULATION_WORKERS", runtime.NumCPU()),
		SimulationTimeout: getEnvDurationWithDefault("SIMULATION_TIMEOUT", 30*time.Second),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable handling

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
