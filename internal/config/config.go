package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the runtime configuration, read from the environment.
type Config struct {
	Environment string
	LogLevel    slog.Level

	// RedisAddr is the address of the durable snapshot store.
	RedisAddr string

	// DataDir holds the case document directories.
	DataDir string

	// CaseName selects the case directory under DataDir.
	CaseName string

	// TimeUnit is the duration of one narrative time unit.
	TimeUnit time.Duration

	// SaveDebounceUnits is the debounce delay for routine saves, in time
	// units.
	SaveDebounceUnits int
}

// Load reads configuration from the environment with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		DataDir:           getEnv("DATA_DIR", "./data"),
		CaseName:          getEnv("CASE_NAME", "hollow_creek"),
		TimeUnit:          time.Second,
		SaveDebounceUnits: 2,
	}

	if v := os.Getenv("TIME_UNIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TIME_UNIT %q: %w", v, err)
		}
		cfg.TimeUnit = d
	}

	if v := os.Getenv("SAVE_DEBOUNCE_UNITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid SAVE_DEBOUNCE_UNITS %q", v)
		}
		cfg.SaveDebounceUnits = n
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
