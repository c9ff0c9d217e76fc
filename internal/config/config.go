package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"finance/internal/log"
	"finance/internal/store"
)

const (
	MinExportConcurrency     = 1
	MaxExportConcurrency     = 32
	DefaultExportConcurrency = 4
)

type Config struct {
	// Storage
	DataBackend  string `yaml:"data_backend"`
	DataFile     string `yaml:"data_file"`
	SQLiteDBPath string `yaml:"sqlite_db_path"`
	BoltDBPath   string `yaml:"bolt_db_path"`

	// Export
	ExportDir         string `yaml:"export_dir"`
	ExportConcurrency int    `yaml:"export_concurrency"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataBackend:       store.PlaintextBackend.String(),
		DataFile:          filepath.Join(dataDir, "finance.txt"),
		SQLiteDBPath:      filepath.Join(dataDir, "finance.db"),
		BoltDBPath:        filepath.Join(dataDir, "finance.bolt"),
		ExportDir:         DefaultExportDir(),
		ExportConcurrency: DefaultExportConcurrency,
		LogLevel:          "info",
	}
}

// Load builds the configuration from defaults, then the optional YAML file,
// then environment variables. A missing file is only an error when a path
// was given explicitly.
func Load(file string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", file)
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.DataBackend = getEnv("DATA_BACKEND", cfg.DataBackend)
	cfg.DataFile = getEnv("DATA_FILE", cfg.DataFile)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.BoltDBPath = getEnv("BOLT_DB_PATH", cfg.BoltDBPath)
	cfg.ExportDir = getEnv("EXPORT_DIR", cfg.ExportDir)
	cfg.ExportConcurrency = getEnvInt("EXPORT_CONCURRENCY", cfg.ExportConcurrency)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.DataBackend = strings.ToLower(strings.TrimSpace(cfg.DataBackend))
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	backend := store.BackendType(c.DataBackend)
	if !backend.IsValid() {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, store.BackendTypeStrings()))
	}

	switch backend {
	case store.PlaintextBackend:
		if c.DataFile == "" {
			errs = append(errs, "data file cannot be empty when using plaintext backend")
		}
	case store.SQLiteBackend:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		}
	case store.BoltBackend:
		if c.BoltDBPath == "" {
			errs = append(errs, "bolt database path cannot be empty when using bolt backend")
		}
	}

	if c.ExportConcurrency < MinExportConcurrency || c.ExportConcurrency > MaxExportConcurrency {
		errs = append(errs, fmt.Sprintf("invalid export concurrency %d: must be between %d and %d",
			c.ExportConcurrency, MinExportConcurrency, MaxExportConcurrency))
	}

	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// StoreConfig returns the settings the store factory needs.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Type:         store.BackendType(c.DataBackend),
		DataFile:     c.DataFile,
		SQLiteDBPath: c.SQLiteDBPath,
		BoltDBPath:   c.BoltDBPath,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns -1 for an unparsable value so Validate rejects it.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return -1
		}
		return i
	}
	return defaultValue
}
