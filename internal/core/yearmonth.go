package core

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// YearMonth is a calendar month with no day component.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth normalizes out-of-range months, so (2024, 13) is 2025-01.
func NewYearMonth(year int, month time.Month) YearMonth {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// YearMonthOf returns the month containing d.
func YearMonthOf(d civil.Date) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// CurrentYearMonth returns the local current month.
func CurrentYearMonth() YearMonth {
	return YearMonthOf(civil.DateOf(time.Now()))
}

// ParseYearMonth parses the YYYY-MM form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, invalid("month", s, fmt.Errorf("%w: expected YYYY-MM", ErrInvalidDate))
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// AddMonths returns the month n months later (or earlier for negative n).
func (ym YearMonth) AddMonths(n int) YearMonth {
	return NewYearMonth(ym.Year, ym.Month+time.Month(n))
}

// Contains reports whether d falls within the month.
func (ym YearMonth) Contains(d civil.Date) bool {
	return d.Year == ym.Year && d.Month == ym.Month
}

// Compare returns -1, 0 or +1 in chronological order.
func (ym YearMonth) Compare(o YearMonth) int {
	switch {
	case ym.Year < o.Year:
		return -1
	case ym.Year > o.Year:
		return 1
	case ym.Month < o.Month:
		return -1
	case ym.Month > o.Month:
		return 1
	default:
		return 0
	}
}

func (ym YearMonth) Before(o YearMonth) bool {
	return ym.Compare(o) < 0
}

// FirstDay returns the first calendar day of the month.
func (ym YearMonth) FirstDay() civil.Date {
	return civil.Date{Year: ym.Year, Month: ym.Month, Day: 1}
}
