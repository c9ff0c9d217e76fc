// Package cli provides common CLI initialization utilities shared by the
// commands in cmd/finance.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finance/internal/config"
	"finance/internal/log"
	"finance/internal/services"
	"finance/internal/store"
)

// SetupLogger builds the process logger writing to w at level and makes it
// the slog default.
func SetupLogger(w io.Writer, level slog.Level) *log.Logger {
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentCLI,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local use.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Overrides are command-line values that win over file and environment.
type Overrides struct {
	DataFile string
	Backend  string
}

// LoadAndValidateConfig loads configuration, applies overrides and
// validates the result.
func LoadAndValidateConfig(file string, o Overrides) (*config.Config, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if o.Backend != "" {
		cfg.DataBackend = o.Backend
	}
	if o.DataFile != "" {
		cfg.DataFile = o.DataFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App bundles what a command needs to run.
type App struct {
	Config  *config.Config
	Service *services.FinanceService
	Logger  *log.Logger

	backend *store.Result
}

// OpenApp builds the configured store and a service over its data.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	res, err := store.Create(ctx, cfg.StoreConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DataBackend, err)
	}

	svc := services.NewFinanceService(ctx, res.Store, logger,
		services.WithExportConcurrency(cfg.ExportConcurrency))

	logger.DebugContext(ctx, "Application ready",
		log.FieldBackend, cfg.DataBackend,
		log.FieldFile, svc.DataFile())

	return &App{
		Config:  cfg,
		Service: svc,
		Logger:  logger,
		backend: res,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.backend.Close()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
