package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"

	// IncomeCategory is the category every income transaction carries.
	IncomeCategory = "INCOME"
)

type (
	TransactionType string

	Transaction struct {
		Type        TransactionType
		Date        civil.Date
		Amount      decimal.Decimal
		Category    string // always IncomeCategory for income
		Description string
	}

	// FinanceData is the aggregate persisted wholesale by a store.
	FinanceData struct {
		Budgets      map[string]decimal.Decimal
		Transactions []Transaction
	}
)

var (
	ErrInvalidArgument = errors.New("invalid argument")

	ErrInvalidAmount   = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidArgument)
	ErrNegativeBudget  = fmt.Errorf("%w: budget must be zero or greater", ErrInvalidArgument)
	ErrMissingCategory = fmt.Errorf("%w: expense requires a category", ErrInvalidArgument)
	ErrInvalidType     = fmt.Errorf("%w: unknown transaction type", ErrInvalidArgument)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrInvalidArgument)
	ErrMultilineText   = fmt.Errorf("%w: text must fit on a single line", ErrInvalidArgument)
)

// ValidationError reports the field and value that failed validation.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, value string, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// ParseTransactionType matches the canonical upper-case names only.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case Income, Expense:
		return t, nil
	default:
		return "", invalid("type", s, ErrInvalidType)
	}
}

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// ValidateAmount checks that a transaction amount is strictly positive.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount", FormatAmount(amount), ErrInvalidAmount)
	}
	return nil
}

// ValidateBudgetLimit checks that a budget limit is not negative.
func ValidateBudgetLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return invalid("limit", FormatAmount(limit), ErrNegativeBudget)
	}
	return nil
}

// ValidateSingleLine rejects text the line-oriented store could not hold.
func ValidateSingleLine(field, s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return invalid(field, "", ErrMultilineText)
	}
	return nil
}

// Validate checks every transaction invariant. Income transactions must
// already carry IncomeCategory; callers normalize before validating.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return invalid("type", string(t.Type), ErrInvalidType)
	}
	if !t.Date.IsValid() {
		return invalid("date", t.Date.String(), ErrInvalidDate)
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if err := ValidateSingleLine("category", t.Category); err != nil {
		return err
	}
	if err := ValidateSingleLine("description", t.Description); err != nil {
		return err
	}
	switch t.Type {
	case Income:
		if t.Category != IncomeCategory {
			return invalid("category", t.Category, ErrInvalidArgument)
		}
	case Expense:
		if strings.TrimSpace(t.Category) == "" {
			return invalid("category", t.Category, ErrMissingCategory)
		}
	}
	return nil
}

// Normalize forces the income category.
func (t Transaction) Normalize() Transaction {
	if t.Type == Income {
		t.Category = IncomeCategory
	}
	return t
}

// YearMonth returns the calendar month the transaction falls in.
func (t Transaction) YearMonth() YearMonth {
	return YearMonthOf(t.Date)
}

// Equal compares amounts numerically, so 10 and 10.00 are equal.
func (t Transaction) Equal(o Transaction) bool {
	return t.Type == o.Type &&
		t.Date == o.Date &&
		t.Amount.Equal(o.Amount) &&
		t.Category == o.Category &&
		t.Description == o.Description
}

// NewFinanceData returns an empty aggregate.
func NewFinanceData() *FinanceData {
	return &FinanceData{Budgets: make(map[string]decimal.Decimal)}
}

// Clone returns a deep copy.
func (d *FinanceData) Clone() *FinanceData {
	out := NewFinanceData()
	if d == nil {
		return out
	}
	for k, v := range d.Budgets {
		out.Budgets[k] = v
	}
	out.Transactions = slices.Clone(d.Transactions)
	return out
}

// BudgetCategories returns budget keys in ascending order.
func (d *FinanceData) BudgetCategories() []string {
	keys := make([]string, 0, len(d.Budgets))
	for k := range d.Budgets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CompareByDate orders transactions by date only; use with a stable sort.
func CompareByDate(a, b Transaction) int {
	switch {
	case a.Date.Before(b.Date):
		return -1
	case a.Date.After(b.Date):
		return 1
	default:
		return 0
	}
}

// SortByDate stable-sorts transactions in place by ascending date.
func SortByDate(txns []Transaction) {
	slices.SortStableFunc(txns, CompareByDate)
}
