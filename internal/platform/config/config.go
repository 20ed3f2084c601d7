// Package config loads service configuration from environment variables.
// All variables use the BANK_ prefix; a .env file in the working
// directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Dataset  DatasetConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds PostgreSQL settings. An empty URL disables the
// database; the service then serves purely from memory.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis settings. An empty URL disables caching.
type CacheConfig struct {
	URL        string
	ProblemTTL time.Duration
}

// DatasetConfig points at the dataset file to serve. An empty path means
// the dataset embedded in the binary.
type DatasetConfig struct {
	Path string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, consulting a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: envStr("BANK_SERVER_HOST", "0.0.0.0"),
			Port: envInt("BANK_SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:      envStr("BANK_DATABASE_URL", ""),
			MaxConns: envInt("BANK_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("BANK_DATABASE_MIN_CONNS", 2),
		},
		Cache: CacheConfig{
			URL:        envStr("BANK_CACHE_URL", ""),
			ProblemTTL: envDuration("BANK_CACHE_PROBLEM_TTL", 10*time.Minute),
		},
		Dataset: DatasetConfig{
			Path: envStr("BANK_DATASET_PATH", ""),
		},
		Log: LogConfig{
			Level:  envStr("BANK_LOG_LEVEL", "info"),
			Format: envStr("BANK_LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("BANK_SERVER_PORT %d out of range", c.Server.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("BANK_LOG_LEVEL must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("BANK_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("BANK_DATABASE_MIN_CONNS exceeds BANK_DATABASE_MAX_CONNS")
	}
	if c.Cache.ProblemTTL <= 0 {
		return fmt.Errorf("BANK_CACHE_PROBLEM_TTL must be positive")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
