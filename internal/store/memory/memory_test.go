package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"finance/internal/core"
)

func TestMemoryStoreSaveAndLoadAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	if data := s.Load(ctx); len(data.Budgets) != 0 || len(data.Transactions) != 0 {
		t.Fatalf("expected empty store, got %+v", data)
	}

	data := core.NewFinanceData()
	data.Budgets["Food"] = decimal.NewFromInt(100)
	data.Transactions = append(data.Transactions, core.Transaction{
		Type:     core.Expense,
		Date:     civil.Date{Year: 2024, Month: time.May, Day: 1},
		Amount:   decimal.NewFromInt(5),
		Category: "Food",
	})
	if err := s.Save(ctx, data); err != nil {
		t.Fatalf("save: %v", err)
	}

	data.Budgets["Food"] = decimal.NewFromInt(1)
	data.Transactions[0].Category = "Changed"

	got := s.Load(ctx)
	if !got.Budgets["Food"].Equal(decimal.NewFromInt(100)) || got.Transactions[0].Category != "Food" {
		t.Fatalf("store shares memory with caller: %+v", got)
	}

	got.Transactions[0].Category = "Mutated"
	if s.Load(ctx).Transactions[0].Category != "Food" {
		t.Fatal("Load returned shared slice")
	}
	if s.Saves() != 1 || s.File() != "" {
		t.Fatalf("saves=%d file=%q", s.Saves(), s.File())
	}
}

func TestNewFromFileSeeds(t *testing.T) {
	dir := t.TempDir()
	if data := NewFromFile(filepath.Join(dir, "missing.txt")).Load(context.Background()); len(data.Transactions) != 0 {
		t.Fatalf("expected empty store for missing file")
	}

	path := filepath.Join(dir, "seed.txt")
	content := "# finance-data v1\n[budgets]\nFood|50\n[transactions]\nEXPENSE|2024-01-02|3|Food|bread\nbroken\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	data := NewFromFile(path).Load(context.Background())
	if len(data.Budgets) != 1 || len(data.Transactions) != 1 {
		t.Fatalf("unexpected seed: %+v", data)
	}
}
