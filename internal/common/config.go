package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Import      ImportConfig  `toml:"import"`
	Auth        AuthConfig    `toml:"auth"`
	Report      ReportConfig  `toml:"report"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// ImportConfig contains configuration for batch imports
type ImportConfig struct {
	MaxBatchSize   int     `toml:"max_batch_size"`   // Hard cap on rows per import batch
	RatePerSecond  float64 `toml:"rate_per_second"`  // Sustained request rate for /api/import endpoints
	RateBurst      int     `toml:"rate_burst"`       // Burst allowance for /api/import endpoints
	SessionMaxOpen int     `toml:"session_max_open"` // Max concurrently open import sessions
}

// AuthConfig contains configuration for the PIN gate
type AuthConfig struct {
	MaxFailures int    `toml:"max_failures"` // Consecutive failures before lockout
	LockoutFor  string `toml:"lockout_for"`  // Lockout duration, e.g. "5m"
}

// ReportConfig contains configuration for PDF report generation
type ReportConfig struct {
	WorkshopName string `toml:"workshop_name"` // Printed in report headers
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in torque.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Import: ImportConfig{
			MaxBatchSize:   1000, // Hard cap per batch, rejected before row parsing
			RatePerSecond:  2,
			RateBurst:      5,
			SessionMaxOpen: 10,
		},
		Auth: AuthConfig{
			MaxFailures: 5,
			LockoutFor:  "5m",
		},
		Report: ReportConfig{
			WorkshopName: "Workshop",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TORQUE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("TORQUE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TORQUE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("TORQUE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("TORQUE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("TORQUE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("TORQUE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if cap := os.Getenv("TORQUE_IMPORT_MAX_BATCH_SIZE"); cap != "" {
		if c, err := strconv.Atoi(cap); err == nil && c > 0 {
			config.Import.MaxBatchSize = c
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running with the production environment
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
