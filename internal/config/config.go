package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Data      DataConfig
	Session   SessionConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string
	Format string
}

// DataConfig controls generation of the base dataset.
type DataConfig struct {
	Months         int
	Seed           uint64
	ReseedSchedule string
}

// SessionConfig controls dashboard session lifetime.
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepSchedule string
}

// CacheConfig selects the response cache. An empty RedisAddr keeps the cache in memory.
type CacheConfig struct {
	TTL           time.Duration
	MaxEntries    int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RateLimitConfig holds per-client request limits. A non-positive RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var errs []string
	intEnv := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durationEnv := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/dashboard.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Data: DataConfig{
			Months:         intEnv("DATA_MONTHS", 24),
			ReseedSchedule: getEnv("RESEED_SCHEDULE", "@every 1h"),
		},
		Session: SessionConfig{
			IdleTimeout:   durationEnv("SESSION_IDLE_TIMEOUT", 2*time.Hour),
			SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 5m"),
		},
		Cache: CacheConfig{
			TTL:           durationEnv("CACHE_TTL", time.Hour),
			MaxEntries:    intEnv("CACHE_MAX_ENTRIES", 1024),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       intEnv("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Burst: intEnv("RATE_LIMIT_BURST", 20),
		},
	}

	seed, err := strconv.ParseUint(getEnv("DATA_SEED", "42"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("DATA_SEED: %v", err))
	}
	config.Data.Seed = seed

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("RATE_LIMIT_RPS: %v", err))
	}
	config.RateLimit.RPS = rps

	if config.Data.Months < 1 {
		errs = append(errs, "DATA_MONTHS: must be at least 1")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("90m") or plain seconds ("3600").
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
