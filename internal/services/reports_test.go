package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finance/internal/core"
)

func TestBudgetStatuses(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	may := core.NewYearMonth(2024, time.May)

	for cat, limit := range map[string]string{"Food": "200", "Rent": "500", "Fun": "0", "Gifts": "0", "Books": "30"} {
		if err := s.SetBudget(ctx, cat, dec(limit)); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(t, s, core.Expense, date(2024, 5, 2), "50.00", "Food", "")
	mustAdd(t, s, core.Expense, date(2024, 5, 3), "100.01", "Food", "")
	mustAdd(t, s, core.Expense, date(2024, 5, 4), "600", "Rent", "")
	mustAdd(t, s, core.Expense, date(2024, 5, 5), "5", "Fun", "")
	mustAdd(t, s, core.Expense, date(2024, 5, 6), "10", "Books", "")
	mustAdd(t, s, core.Expense, date(2024, 4, 6), "1000", "Gifts", "other month")

	got := s.BudgetStatuses(may)
	if len(got) != 5 {
		t.Fatalf("got %d statuses", len(got))
	}
	byCat := make(map[string]core.BudgetStatus)
	for i, st := range got {
		if i > 0 && got[i-1].Category > st.Category {
			t.Fatalf("statuses not sorted: %v before %v", got[i-1].Category, st.Category)
		}
		byCat[st.Category] = st
	}

	tests := []struct {
		category  string
		spent     string
		remaining string
		percent   string
		over      bool
	}{
		{"Food", "150.01", "49.99", "75.01", false},
		{"Rent", "600", "-100", "120", true},
		{"Fun", "5", "-5", "100", true},
		{"Gifts", "0", "0", "0", false},
		{"Books", "10", "20", "33.33", false},
	}
	for _, tt := range tests {
		st := byCat[tt.category]
		if !st.Spent.Equal(dec(tt.spent)) || !st.Remaining.Equal(dec(tt.remaining)) ||
			!st.UsedPercent.Equal(dec(tt.percent)) || st.Over != tt.over {
			t.Errorf("%s: got %+v", tt.category, st)
		}
	}
}

func TestCompareWithPreviousMonth(t *testing.T) {
	s, _ := newTestService(t)
	mustAdd(t, s, core.Expense, date(2023, 12, 10), "200", "A", "")
	mustAdd(t, s, core.Expense, date(2024, 1, 10), "250", "A", "")
	mustAdd(t, s, core.Income, date(2024, 1, 11), "5000", "", "")
	mustAdd(t, s, core.Expense, date(2024, 2, 10), "83.33", "A", "")

	jan := s.CompareWithPreviousMonth(core.NewYearMonth(2024, time.January))
	if !jan.HasBaseline || jan.Direction != core.TrendUp || !jan.Difference.Equal(dec("50")) || !jan.Percent.Equal(dec("25")) {
		t.Fatalf("january = %+v", jan)
	}

	feb := s.CompareWithPreviousMonth(core.NewYearMonth(2024, time.February))
	if feb.Direction != core.TrendDown || !feb.Difference.Equal(dec("166.67")) || !feb.Percent.Equal(dec("67")) {
		t.Fatalf("february = %+v", feb)
	}

	dec23 := s.CompareWithPreviousMonth(core.NewYearMonth(2023, time.December))
	if dec23.HasBaseline || !dec23.Percent.IsZero() || dec23.Direction != core.TrendUp {
		t.Fatalf("december = %+v", dec23)
	}

	empty := s.CompareWithPreviousMonth(core.NewYearMonth(2030, time.June))
	if empty.Direction != core.TrendSame || empty.HasBaseline {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestYearlyExpensesAndYears(t *testing.T) {
	s, _ := newTestService(t)
	mustAdd(t, s, core.Expense, date(2024, 1, 10), "10", "A", "")
	mustAdd(t, s, core.Expense, date(2024, 1, 20), "5.5", "B", "")
	mustAdd(t, s, core.Expense, date(2024, 12, 31), "7", "A", "")
	mustAdd(t, s, core.Income, date(2024, 6, 1), "100", "", "")
	mustAdd(t, s, core.Expense, date(2022, 6, 1), "1", "A", "")

	got := s.YearlyExpenses(2024)
	if !got[0].Equal(dec("15.5")) || !got[11].Equal(dec("7")) || !got[5].IsZero() {
		t.Fatalf("yearly = %v", got)
	}

	years := s.AvailableYears()
	if len(years) != 2 || years[0] != 2022 || years[1] != 2024 {
		t.Fatalf("years = %v", years)
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustAdd(t, s, core.Expense, date(2024, 3, 2), "9.90", "Office", "=SUM(A1:A9)")
	mustAdd(t, s, core.Expense, date(2024, 4, 2), "1", "Office", "april")

	target := filepath.Join(t.TempDir(), "exports", "march.csv")
	path, err := s.ExportCSV(ctx, target, core.NewYearMonth(2024, time.March))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if path != target {
		t.Fatalf("path = %q", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "type,date,amount,category,description\nEXPENSE,2024-03-02,9.90,Office,'=SUM(A1:A9)\n"
	if string(raw) != want {
		t.Fatalf("csv = %q, want %q", raw, want)
	}
}

func TestExportAllMonths(t *testing.T) {
	ctx := context.Background()
	s := NewFinanceService(ctx, memoryWith(t), nil, WithExportConcurrency(2))

	dir := t.TempDir()
	paths, err := s.ExportAllMonths(ctx, dir)
	if err != nil {
		t.Fatalf("export all: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	for i, name := range []string{"finance-2024-01.csv", "finance-2024-02.csv", "finance-2024-03.csv"} {
		if filepath.Base(paths[i]) != name {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], name)
		}
		raw, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		if lines := strings.Count(string(raw), "\n"); lines != 2 {
			t.Errorf("%s has %d lines", name, lines)
		}
	}
}
