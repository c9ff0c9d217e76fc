package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"finance/internal/core"
	"finance/internal/export"
	"finance/internal/log"
	"finance/internal/store"
)

// FinanceService owns the in-memory FinanceData. Every mutation goes
// through it and every view is recomputed from the current data.
// Mutations are not persisted until Save is called.
type FinanceService struct {
	mu     sync.RWMutex
	store  store.Store
	data   *core.FinanceData
	logger *log.Logger

	exportConcurrency int
}

// Option customizes a FinanceService.
type Option func(*FinanceService)

// WithExportConcurrency bounds parallel writes in ExportAllMonths.
func WithExportConcurrency(n int) Option {
	return func(s *FinanceService) {
		if n > 0 {
			s.exportConcurrency = n
		}
	}
}

// NewFinanceService loads data from st and normalizes it: transactions are
// sorted by date, income categories are forced, and records that break an
// invariant are dropped.
func NewFinanceService(ctx context.Context, st store.Store, logger *log.Logger, opts ...Option) *FinanceService {
	if logger == nil {
		logger = log.Discard()
	}
	s := &FinanceService{
		store:             st,
		logger:            logger.WithComponent(log.ComponentService),
		exportConcurrency: export.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = s.normalize(ctx, st.Load(ctx))
	return s
}

func (s *FinanceService) normalize(ctx context.Context, data *core.FinanceData) *core.FinanceData {
	out := core.NewFinanceData()
	if data == nil {
		return out
	}

	for category, limit := range data.Budgets {
		if err := core.ValidateBudgetLimit(limit); err != nil {
			s.logger.WarnContext(ctx, "Dropping invalid stored budget, it will be removed on the next save",
				log.FieldCategory, category, log.FieldAmount, core.FormatAmount(limit), log.FieldError, err)
			continue
		}
		out.Budgets[category] = limit
	}

	out.Transactions = make([]core.Transaction, 0, len(data.Transactions))
	for i, t := range data.Transactions {
		t = t.Normalize()
		if err := t.Validate(); err != nil {
			fields := log.NewFields().WithTransaction(t).WithError(err)
			fields[log.FieldIndex] = i
			s.logger.WarnContext(ctx, "Dropping invalid stored transaction, it will be removed on the next save",
				fields.ToSlice()...)
			continue
		}
		out.Transactions = append(out.Transactions, t)
	}
	core.SortByDate(out.Transactions)
	return out
}

// SetBudget inserts or replaces the limit for category.
func (s *FinanceService) SetBudget(ctx context.Context, category string, limit decimal.Decimal) error {
	if err := core.ValidateBudgetLimit(limit); err != nil {
		return err
	}
	if err := core.ValidateSingleLine("category", category); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Budgets[category] = limit

	s.logger.DebugContext(ctx, "Budget set",
		log.FieldOperation, log.OpUpdate,
		log.FieldCategory, category,
		log.FieldAmount, core.FormatAmount(limit))
	return nil
}

// RemoveBudget deletes the budget for category. Removing a missing budget
// is not an error; the result reports whether one existed.
func (s *FinanceService) RemoveBudget(ctx context.Context, category string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data.Budgets[category]
	delete(s.data.Budgets, category)
	if ok {
		s.logger.DebugContext(ctx, "Budget removed",
			log.FieldOperation, log.OpDelete, log.FieldCategory, category)
	}
	return ok
}

// Budgets returns all budgets sorted by category.
func (s *FinanceService) Budgets() []core.CategoryAmount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.CategoryAmount, 0, len(s.data.Budgets))
	for _, category := range s.data.BudgetCategories() {
		out = append(out, core.CategoryAmount{Name: category, Amount: s.data.Budgets[category]})
	}
	return out
}

// AddTransaction validates and appends a transaction, keeping the list
// sorted by date. Income always gets the income category.
func (s *FinanceService) AddTransaction(ctx context.Context, typ core.TransactionType, date civil.Date, amount decimal.Decimal, category, description string) (core.Transaction, error) {
	t := core.Transaction{
		Type:        typ,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
	}.Normalize()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Transactions = append(s.data.Transactions, t)
	core.SortByDate(s.data.Transactions)

	s.logger.DebugContext(ctx, "Transaction added",
		log.NewFields().WithOperation(log.OpCreate).WithTransaction(t).ToSlice()...)
	return t, nil
}

// TransactionsForMonth returns the month's transactions in date order.
// Row numbers used by DeleteTransactionAt and EditTransactionAt refer to
// positions in this slice, counted from 1.
func (s *FinanceService) TransactionsForMonth(ym core.YearMonth) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, t := range s.data.Transactions {
		if ym.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// MonthTransactionCount returns len(TransactionsForMonth(ym)).
func (s *FinanceService) MonthTransactionCount(ym core.YearMonth) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.data.Transactions {
		if ym.Contains(t.Date) {
			n++
		}
	}
	return n
}

// MonthlySummary totals income and expenses for ym.
func (s *FinanceService) MonthlySummary(ym core.YearMonth) core.MonthlySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	income, expense := decimal.Zero, decimal.Zero
	for _, t := range s.data.Transactions {
		if !ym.Contains(t.Date) {
			continue
		}
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return core.MonthlySummary{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
	}
}

// SpentByCategory sums expenses per category for ym, sorted by category.
// Categories without expenses that month are absent.
func (s *FinanceService) SpentByCategory(ym core.YearMonth) []core.CategoryAmount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spentByCategory(ym)
}

func (s *FinanceService) spentByCategory(ym core.YearMonth) []core.CategoryAmount {
	totals := make(map[string]decimal.Decimal)
	for _, t := range s.data.Transactions {
		if t.Type != core.Expense || !ym.Contains(t.Date) {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}

	out := make([]core.CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	slices.SortFunc(out, func(a, b core.CategoryAmount) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// AvailableMonths returns each month that has a transaction, oldest first.
func (s *FinanceService) AvailableMonths() []core.YearMonth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availableMonths()
}

func (s *FinanceService) availableMonths() []core.YearMonth {
	var out []core.YearMonth
	for _, t := range s.data.Transactions {
		ym := t.YearMonth()
		if len(out) > 0 && out[len(out)-1] == ym {
			continue
		}
		out = append(out, ym)
	}
	return out
}

// monthIndex maps a 1-based row within ym to a position in the full list.
// It walks the same date-ordered list TransactionsForMonth filters, so row
// numbers agree with what callers were shown.
func (s *FinanceService) monthIndex(ym core.YearMonth, row int) (int, bool) {
	if row <= 0 {
		return 0, false
	}
	n := 0
	for i, t := range s.data.Transactions {
		if !ym.Contains(t.Date) {
			continue
		}
		n++
		if n == row {
			return i, true
		}
	}
	return 0, false
}

// DeleteTransactionAt removes the row-th transaction of ym. It returns
// false and changes nothing when row is out of range.
func (s *FinanceService) DeleteTransactionAt(ctx context.Context, ym core.YearMonth, row int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.monthIndex(ym, row)
	if !ok {
		return false
	}
	removed := s.data.Transactions[i]
	s.data.Transactions = slices.Delete(s.data.Transactions, i, i+1)

	s.logger.DebugContext(ctx, "Transaction deleted",
		log.NewFields().WithOperation(log.OpDelete).WithMonth(ym).WithTransaction(removed).ToSlice()...)
	return true
}

// TransactionPatch lists the fields to change in EditTransactionAt. Nil
// fields are left unchanged.
type TransactionPatch struct {
	Type        *core.TransactionType
	Date        *civil.Date
	Amount      *decimal.Decimal
	Category    *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Type == nil && p.Date == nil && p.Amount == nil && p.Category == nil && p.Description == nil
}

// EditTransactionAt applies patch to the row-th transaction of ym. It
// returns false when row is out of range. The edit is validated as a
// whole before anything is changed.
func (s *FinanceService) EditTransactionAt(ctx context.Context, ym core.YearMonth, row int, patch TransactionPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.monthIndex(ym, row)
	if !ok {
		return false, nil
	}

	t := s.data.Transactions[i]
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Category != nil {
		if t.Type == core.Expense && strings.TrimSpace(*patch.Category) == "" {
			return false, &core.ValidationError{Field: "category", Value: *patch.Category, Err: core.ErrMissingCategory}
		}
		t.Category = *patch.Category
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}

	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return false, fmt.Errorf("edit row %d of %s: %w", row, ym, err)
	}

	s.data.Transactions[i] = t
	core.SortByDate(s.data.Transactions)

	s.logger.DebugContext(ctx, "Transaction updated",
		log.NewFields().WithOperation(log.OpUpdate).WithMonth(ym).WithTransaction(t).ToSlice()...)
	return true, nil
}

// Save writes the current data to the store.
func (s *FinanceService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, s.data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save data",
			log.FieldOperation, log.OpSave, log.FieldFile, s.store.File(), log.FieldError, err)
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// DataFile returns the store's backing location.
func (s *FinanceService) DataFile() string {
	return s.store.File()
}

// Snapshot returns a deep copy of the current data.
func (s *FinanceService) Snapshot() *core.FinanceData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}
