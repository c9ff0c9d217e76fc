package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"finance/internal/core"
	"finance/internal/export"
	"finance/internal/log"
)

var hundred = decimal.NewFromInt(100)

// BudgetStatuses compares every budget with what was spent in ym.
func (s *FinanceService) BudgetStatuses(ym core.YearMonth) []core.BudgetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spent := make(map[string]decimal.Decimal)
	for _, c := range s.spentByCategory(ym) {
		spent[c.Name] = c.Amount
	}

	out := make([]core.BudgetStatus, 0, len(s.data.Budgets))
	for _, category := range s.data.BudgetCategories() {
		limit := s.data.Budgets[category]
		used := spent[category]
		out = append(out, core.BudgetStatus{
			Category:    category,
			Limit:       limit,
			Spent:       used,
			Remaining:   limit.Sub(used),
			UsedPercent: usedPercent(used, limit),
			Over:        used.GreaterThan(limit),
		})
	}
	return out
}

func usedPercent(spent, limit decimal.Decimal) decimal.Decimal {
	if limit.IsZero() {
		if spent.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return spent.Mul(hundred).Div(limit).Round(2)
}

// CompareWithPreviousMonth compares total expenses of ym with the month
// before it.
func (s *FinanceService) CompareWithPreviousMonth(ym core.YearMonth) core.MonthComparison {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur := s.expenseTotal(ym)
	prev := s.expenseTotal(ym.AddMonths(-1))
	diff := cur.Sub(prev)

	cmp := core.MonthComparison{
		Month:           ym,
		CurrentExpense:  cur,
		PreviousExpense: prev,
		Difference:      diff.Abs(),
		Percent:         decimal.Zero,
		Direction:       core.TrendSame,
		HasBaseline:     !prev.IsZero(),
	}
	switch diff.Sign() {
	case 1:
		cmp.Direction = core.TrendUp
	case -1:
		cmp.Direction = core.TrendDown
	}
	if cmp.HasBaseline {
		cmp.Percent = cmp.Difference.Mul(hundred).Div(prev).Round(0)
	}
	return cmp
}

func (s *FinanceService) expenseTotal(ym core.YearMonth) decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.data.Transactions {
		if t.Type == core.Expense && ym.Contains(t.Date) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// YearlyExpenses returns the expense total of each month of year,
// January first.
func (s *FinanceService) YearlyExpenses(year int) [12]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out [12]decimal.Decimal
	for i := range out {
		out[i] = decimal.Zero
	}
	for _, t := range s.data.Transactions {
		if t.Type == core.Expense && t.Date.Year == year {
			out[t.Date.Month-1] = out[t.Date.Month-1].Add(t.Amount)
		}
	}
	return out
}

// AvailableYears returns each year that has a transaction, oldest first.
func (s *FinanceService) AvailableYears() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int
	for _, ym := range s.availableMonths() {
		if len(out) == 0 || out[len(out)-1] != ym.Year {
			out = append(out, ym.Year)
		}
	}
	return out
}

// ExportCSV writes the transactions of ym to target and returns the path.
func (s *FinanceService) ExportCSV(ctx context.Context, target string, ym core.YearMonth) (string, error) {
	txns := s.TransactionsForMonth(ym)

	path, err := export.WriteFile(target, txns)
	if err != nil {
		s.logger.ErrorContext(ctx, "CSV export failed",
			log.FieldOperation, log.OpExport, log.FieldYearMonth, ym.String(), log.FieldFile, target, log.FieldError, err)
		return "", fmt.Errorf("export %s: %w", ym, err)
	}

	s.logger.InfoContext(ctx, "Exported month",
		log.FieldYearMonth, ym.String(), log.FieldFile, path, log.FieldTransaction, len(txns))
	return path, nil
}

// ExportAllMonths writes one CSV per available month into dir.
func (s *FinanceService) ExportAllMonths(ctx context.Context, dir string) ([]string, error) {
	months := s.AvailableMonths()
	paths, err := export.ExportMonths(ctx, dir, months, s.TransactionsForMonth, s.exportConcurrency, s.logger)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Exported all months", log.FieldFile, dir, "months", len(paths))
	return paths, nil
}
