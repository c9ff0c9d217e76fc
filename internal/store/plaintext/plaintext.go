package plaintext

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"finance/internal/core"
	"finance/internal/log"
)

// Store persists FinanceData to a single text file.
type Store struct {
	mu     sync.Mutex
	file   string
	logger *log.Logger
}

// New returns a store for file. An empty path gives a store that loads
// nothing and never writes.
func New(file string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		file:   file,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Load never fails. A missing or unreadable file gives empty data, and a
// partially readable file gives what could be parsed.
func (s *Store) Load(ctx context.Context) *core.FinanceData {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == "" {
		return core.NewFinanceData()
	}

	f, err := os.Open(s.file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "Cannot open data file, starting empty",
				log.FieldFile, s.file, log.FieldError, err)
		}
		return core.NewFinanceData()
	}
	defer f.Close()

	data, skipped, err := Decode(f)
	for _, le := range skipped {
		fields := log.NewFields().WithFileLine(s.file, le.Line).WithError(le.Err)
		fields[log.FieldSection] = le.Section
		s.logger.DebugContext(ctx, "Skipping malformed line", fields.ToSlice()...)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Data file read stopped early, keeping partial data",
			log.FieldFile, s.file,
			log.FieldError, err,
			log.FieldBudgets, len(data.Budgets),
			log.FieldTransaction, len(data.Transactions))
		return data
	}

	s.logger.DebugContext(ctx, "Loaded data file",
		log.FieldOperation, log.OpLoad,
		log.FieldFile, s.file,
		log.FieldBudgets, len(data.Budgets),
		log.FieldTransaction, len(data.Transactions))
	return data
}

// Save overwrites the file with data, creating parent directories first.
func (s *Store) Save(ctx context.Context, data *core.FinanceData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == "" {
		return nil
	}
	if data == nil {
		data = core.NewFinanceData()
	}

	if dir := filepath.Dir(s.file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	f, err := os.Create(s.file)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	if err := Encode(f, data); err != nil {
		f.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}

	s.logger.DebugContext(ctx, "Saved data file",
		log.FieldOperation, log.OpSave,
		log.FieldFile, s.file,
		log.FieldBudgets, len(data.Budgets),
		log.FieldTransaction, len(data.Transactions))
	return nil
}

// File returns the configured path, possibly empty.
func (s *Store) File() string {
	return s.file
}
