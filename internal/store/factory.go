package store

import (
	"context"
	"fmt"

	"finance/internal/log"
	"finance/internal/store/bolt"
	"finance/internal/store/memory"
	"finance/internal/store/plaintext"
	"finance/internal/store/sqlite"
)

var (
	_ Store = (*plaintext.Store)(nil)
	_ Store = (*memory.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*bolt.Store)(nil)
)

// Config holds what the factory needs to build a backend.
type Config struct {
	Type BackendType

	// DataFile is the plain-text file. The memory backend also seeds
	// from it when set.
	DataFile string

	SQLiteDBPath string
	BoltDBPath   string
}

// Validate checks that the selected backend has its path.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case BoltBackend:
		if c.BoltDBPath == "" {
			return fmt.Errorf("bolt database path is required for bolt backend")
		}
	}
	return nil
}

// Create builds the backend described by config.
func Create(ctx context.Context, config Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case PlaintextBackend:
		logger.DebugContext(ctx, "Initialized plaintext backend", log.FieldFile, config.DataFile)
		return &Result{Store: plaintext.New(config.DataFile, logger)}, nil

	case MemoryBackend:
		var s *memory.Store
		if config.DataFile != "" {
			s = memory.NewFromFile(config.DataFile)
		} else {
			s = memory.New(nil)
		}
		logger.DebugContext(ctx, "Initialized memory backend", log.FieldFile, config.DataFile)
		return &Result{Store: s}, nil

	case SQLiteBackend:
		s, err := sqlite.Open(config.SQLiteDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		logger.DebugContext(ctx, "Initialized SQLite backend", log.FieldFile, config.SQLiteDBPath)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case BoltBackend:
		s, err := bolt.Open(config.BoltDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize bolt store: %w", err)
		}
		logger.DebugContext(ctx, "Initialized bolt backend", log.FieldFile, config.BoltDBPath)
		return &Result{Store: s, Cleanup: s.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
