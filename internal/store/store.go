// Package store defines the persistence boundary for FinanceData and
// builds the configured backend.
package store

import (
	"context"

	"finance/internal/core"
)

// Store loads and saves the whole aggregate at once.
type Store interface {
	// Load never fails; missing or unreadable data yields an empty or
	// partial aggregate.
	Load(ctx context.Context) *core.FinanceData
	// Save persists data, replacing what was stored before.
	Save(ctx context.Context, data *core.FinanceData) error
	// File is the backing location, or "" when there is none.
	File() string
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the store and an optional cleanup function.
type Result struct {
	Store   Store
	Cleanup CleanupFunc
}

// Close runs Cleanup if set.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// BackendType names a storage backend.
type BackendType string

const (
	PlaintextBackend BackendType = "plaintext"
	SQLiteBackend    BackendType = "sqlite"
	BoltBackend      BackendType = "bolt"
	MemoryBackend    BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case PlaintextBackend, SQLiteBackend, BoltBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// BackendTypes returns all valid backend types.
func BackendTypes() []BackendType {
	return []BackendType{PlaintextBackend, SQLiteBackend, BoltBackend, MemoryBackend}
}

// BackendTypeStrings returns all valid backend names.
func BackendTypeStrings() []string {
	types := BackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
