package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dataportal/internal/errors"
)

// Dataset source kinds
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Cache    CacheConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
	// ScriptRoot is the base URL the dataset table fetches from. Empty means
	// the table reads the in-process catalog.
	ScriptRoot   string
	GinMode      string
	FetchTimeout time.Duration
}

// DataConfig holds dataset source settings
type DataConfig struct {
	Dir         string
	Source      string
	File        string
	DatabaseURL string
	SQLitePath  string
}

// CacheConfig holds catalog and view cache settings
type CacheConfig struct {
	TTL           time.Duration
	ViewCacheSize int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	dataDir := getEnvOrDefault("DATA_DIR", "./data")

	config := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ScriptRoot:   strings.TrimRight(os.Getenv("SCRIPT_ROOT"), "/"),
			GinMode:      getEnvOrDefault("GIN_MODE", "release"),
			FetchTimeout: getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
		},
		Data: DataConfig{
			Dir:         dataDir,
			Source:      strings.ToLower(getEnvOrDefault("DATASET_SOURCE", SourceFile)),
			File:        getEnvOrDefault("DATASET_FILE", filepath.Join(dataDir, "datasets", "datasets.csv")),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			SQLitePath:  getEnvOrDefault("SQLITE_PATH", filepath.Join(dataDir, "datasets", "datasets.sqlite3")),
		},
		Cache: CacheConfig{
			TTL:           getEnvDurationOrDefault("CACHE_TTL", 5*time.Minute),
			ViewCacheSize: getEnvIntOrDefault("VIEW_CACHE_SIZE", 1000),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Data.Source {
	case SourceFile:
		if config.Data.File == "" {
			return errors.ConfigInvalid("DATASET_FILE is required for the file source")
		}
	case SourcePostgres:
		if config.Data.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres source")
		}
	case SourceSQLite:
		if config.Data.SQLitePath == "" {
			return errors.ConfigInvalid("SQLITE_PATH is required for the sqlite source")
		}
	default:
		return errors.ConfigInvalid("unknown DATASET_SOURCE " + strconv.Quote(config.Data.Source))
	}
	if config.Cache.ViewCacheSize <= 0 {
		return errors.ConfigInvalid("VIEW_CACHE_SIZE must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
