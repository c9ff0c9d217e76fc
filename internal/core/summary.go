package core

import "github.com/shopspring/decimal"

// MonthlySummary holds income and expense totals for one month.
type MonthlySummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// BudgetStatus compares a budget limit with what was spent in a month.
type BudgetStatus struct {
	Category    string
	Limit       decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	UsedPercent decimal.Decimal // rounded half-up to 2 places
	Over        bool
}

// Trend is the direction of month-over-month spending.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// MonthComparison compares a month's expenses with the previous month.
type MonthComparison struct {
	Month           YearMonth
	CurrentExpense  decimal.Decimal
	PreviousExpense decimal.Decimal
	Difference      decimal.Decimal // absolute value
	Percent         decimal.Decimal // rounded half-up to whole percent
	Direction       Trend
	HasBaseline     bool // false when the previous month had no expenses
}
