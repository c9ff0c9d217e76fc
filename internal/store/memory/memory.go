package memory

import (
	"context"
	"os"
	"sync"

	"finance/internal/core"
	"finance/internal/store/plaintext"
)

// Store keeps FinanceData in process memory. Nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	data  *core.FinanceData
	saves int
}

func New(seed *core.FinanceData) *Store {
	return &Store{data: seed.Clone()}
}

// NewFromFile seeds the store from a file in the plain-text format. A
// missing or unreadable file gives an empty store; the file is never
// written.
func NewFromFile(path string) *Store {
	f, err := os.Open(path)
	if err != nil {
		return New(nil)
	}
	defer f.Close()
	data, _, _ := plaintext.Decode(f)
	return New(data)
}

// Load returns a copy of the stored data.
func (s *Store) Load(_ context.Context) *core.FinanceData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Save replaces the stored data with a copy of data.
func (s *Store) Save(_ context.Context, data *core.FinanceData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data.Clone()
	s.saves++
	return nil
}

func (s *Store) File() string {
	return ""
}

// Saves reports how many times Save was called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
