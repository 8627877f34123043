// Package config loads process configuration from the environment and the roster policy file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type ServerConfig struct {
	Port           string
	StorageBackend string
	DatabaseURL    string
	LogLevel       string
	LogFormat      string
	PolicyPath     string
	IdempotencyTTL time.Duration
}

// LoadDotEnv loads .env into the process environment. A missing file is not an error;
// variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func LoadServerConfigFromEnv() (ServerConfig, error) {
	cfg := ServerConfig{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", StorageMemory),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "json"),
		PolicyPath:     os.Getenv("ROSTER_CONFIG"),
	}
	switch cfg.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return ServerConfig{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return ServerConfig{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres (got %q)", cfg.StorageBackend)
	}
	ttl, err := time.ParseDuration(getenv("IDEMPOTENCY_TTL", "24h"))
	if err != nil || ttl < 0 {
		return ServerConfig{}, fmt.Errorf("IDEMPOTENCY_TTL must be a non-negative duration (got %q)", os.Getenv("IDEMPOTENCY_TTL"))
	}
	cfg.IdempotencyTTL = ttl
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ServerConfig{}, fmt.Errorf("LOG_FORMAT must be json or console (got %q)", cfg.LogFormat)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
