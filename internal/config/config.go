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
	Server     ServerConfig
	Store      StoreConfig
	Retry      RetryConfig
	CORS       CORSConfig
	Scheduler  SchedulerConfig
	Quote      QuoteConfig
	NameMaster NameMasterConfig
	FernetKey  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// StoreConfig selects and configures the tabular store backend
type StoreConfig struct {
	Backend    string // "csv", "sqlite" or "memory"
	Dir        string // csv backend: directory holding one file per table
	SQLitePath string // sqlite backend: database file path
}

// RetryConfig controls retries on transient store failures
type RetryConfig struct {
	Attempts int
	Backoff  time.Duration
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// SchedulerConfig holds the cron schedule for the daily close job
type SchedulerConfig struct {
	DailyClose string // cron expression, empty disables
}

// QuoteConfig holds quote provider configuration
type QuoteConfig struct {
	CacheTTL time.Duration
}

// NameMasterConfig holds the optional security-master endpoint
type NameMasterConfig struct {
	Endpoint string // empty disables name resolution
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "csv"),
			Dir:        getEnv("STORE_DIR", "./data/tables"),
			SQLitePath: getEnv("STORE_SQLITE_PATH", "./data/ledger.db"),
		},
		Retry: RetryConfig{
			Attempts: getEnvInt("STORE_RETRY_ATTEMPTS", 3),
			Backoff:  getEnvDuration("STORE_RETRY_BACKOFF", 5*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Scheduler: SchedulerConfig{
			DailyClose: getEnv("DAILY_CLOSE_SCHEDULE", ""),
		},
		Quote: QuoteConfig{
			CacheTTL: getEnvDuration("QUOTE_CACHE_TTL", 10*time.Minute),
		},
		NameMaster: NameMasterConfig{
			Endpoint: getEnv("NAME_MASTER_ENDPOINT", ""),
		},
		FernetKey: getEnv("FERNET_KEY", ""),
	}

	switch config.Store.Backend {
	case "csv", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.Store.Backend)
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
