package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the file store service
type Config struct {
	// Server configuration
	Port      string
	Debug     bool
	LogFormat string

	// Storage configuration
	StorageDriver string
	StoragePath   string
	WatchStorage  bool

	// Azure Storage configuration
	AzureAccount          string
	AzureContainer        string
	AzureConnectionString string

	// Change feed
	EventBufferSize int
	WatchDebounce   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", API_PORT),
		Debug:     getBoolEnv("DEBUG", false),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		StorageDriver: getEnv("STORAGE_DRIVER", DefaultStorageDriver),
		StoragePath:   getEnv("STORAGE_PATH", STORAGE_PATH),
		WatchStorage:  getBoolEnv("WATCH_STORAGE", true),

		AzureAccount:          getEnv("AZURE_STORAGE_ACCOUNT", ""),
		AzureContainer:        getEnv("AZURE_STORAGE_CONTAINER", DefaultAzureContainer),
		AzureConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),

		EventBufferSize: getIntEnv("EVENT_BUFFER_SIZE", DefaultEventBufferSize),
		WatchDebounce:   getDurationEnv("WATCH_DEBOUNCE", DefaultDebounceInterval),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverFilesystem:
		if c.StoragePath == "" {
			return fmt.Errorf("STORAGE_PATH is required for the %s driver", DriverFilesystem)
		}
	case DriverMemory:
	case DriverAzure:
		if c.AzureAccount == "" && c.AzureConnectionString == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT or AZURE_STORAGE_CONNECTION_STRING is required for the %s driver", DriverAzure)
		}
		if c.AzureContainer == "" {
			return fmt.Errorf("AZURE_STORAGE_CONTAINER must not be empty")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of %q, %q or %q", DriverFilesystem, DriverMemory, DriverAzure)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json'")
	}

	if c.EventBufferSize <= 0 {
		return fmt.Errorf("EVENT_BUFFER_SIZE must be positive")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
