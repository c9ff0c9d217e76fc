package sqlite

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"finance/internal/core"
	"finance/internal/log"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "finance.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if data := s.Load(ctx); len(data.Budgets) != 0 || len(data.Transactions) != 0 {
		t.Fatalf("fresh database not empty: %+v", data)
	}

	want := core.NewFinanceData()
	want.Budgets["Food"] = decimal.RequireFromString("200.50")
	want.Budgets["Fun|Games"] = decimal.Zero
	want.Transactions = []core.Transaction{
		{Type: core.Expense, Date: civil.Date{Year: 2024, Month: time.March, Day: 2}, Amount: decimal.RequireFromString("10.00"), Category: "Food", Description: "a|b"},
		{Type: core.Income, Date: civil.Date{Year: 2024, Month: time.March, Day: 1}, Amount: decimal.NewFromInt(900), Category: core.IncomeCategory},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Load(ctx)
	if len(got.Budgets) != 2 || !got.Budgets["Food"].Equal(want.Budgets["Food"]) {
		t.Fatalf("budgets = %v", got.Budgets)
	}
	if len(got.Transactions) != 2 {
		t.Fatalf("transactions = %+v", got.Transactions)
	}
	for i := range want.Transactions {
		if !got.Transactions[i].Equal(want.Transactions[i]) {
			t.Errorf("transaction %d: got %+v, want %+v", i, got.Transactions[i], want.Transactions[i])
		}
	}
	if got.Transactions[0].Amount.String() != "10" || core.FormatAmount(got.Transactions[0].Amount) != "10.00" {
		t.Errorf("scale not preserved: %s", core.FormatAmount(got.Transactions[0].Amount))
	}
}

func TestSaveReplacesPreviousContent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := core.NewFinanceData()
	first.Budgets["Old"] = decimal.NewFromInt(1)
	first.Transactions = []core.Transaction{
		{Type: core.Expense, Date: civil.Date{Year: 2024, Month: time.January, Day: 1}, Amount: decimal.NewFromInt(1), Category: "Old"},
	}
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, core.NewFinanceData()); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(ctx); len(got.Budgets) != 0 || len(got.Transactions) != 0 {
		t.Fatalf("old content survived: %+v", got)
	}
}

func TestReopenRunsMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")
	wantLog := []string{"from_version=0 to_version=1", "Schema up to date"}
	for i := 0; i < 2; i++ {
		var buf bytes.Buffer
		s, err := Open(path, log.New(log.Config{Level: slog.LevelDebug, Output: &buf}))
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		if s.File() != path {
			t.Fatalf("File() = %q", s.File())
		}
		if s.Version() != SchemaVersion {
			t.Fatalf("Version() = %d, want %d", s.Version(), SchemaVersion)
		}
		if !strings.Contains(buf.String(), wantLog[i]) {
			t.Errorf("open #%d: log missing %q: %s", i+1, wantLog[i], buf.String())
		}
		s.Close()
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.db.ExecContext(ctx, insertBudget, "Bad", "not-a-number"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, insertTransaction, 0, "EXPENSE", "2024-02-30", "1", "Food", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, insertTransaction, 1, "EXPENSE", "2024-02-03", "1", "Food", ""); err != nil {
		t.Fatal(err)
	}

	got := s.Load(ctx)
	if len(got.Budgets) != 0 || len(got.Transactions) != 1 {
		t.Fatalf("unexpected load: %+v", got)
	}
}
