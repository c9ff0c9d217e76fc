// Package plaintext stores FinanceData in a sectioned, line-oriented,
// human-editable text file:
//
//	# finance-data v1
//	[budgets]
//	<category>|<amount>
//	[transactions]
//	<TYPE>|<date>|<amount>|<category>|<description>
//
// Free-text fields are escaped with package codec. Loading is best effort:
// bad lines are skipped and a failed read keeps what was parsed so far.
package plaintext

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"finance/internal/codec"
	"finance/internal/core"
)

const (
	Header              = "# finance-data v1"
	SectionBudgets      = "[budgets]"
	SectionTransactions = "[transactions]"

	budgetFields      = 2
	transactionFields = 5
)

var ErrFieldCount = errors.New("wrong number of fields")

// FormatBudget renders one budget line. A category starting with '#', '['
// or whitespace gets its first character escaped so the line is not read
// back as a comment or section header, or trimmed.
func FormatBudget(category string, limit decimal.Decimal) string {
	return escapeLeading(codec.Escape(category)) + string(codec.Delimiter) + core.FormatAmount(limit)
}

func escapeLeading(field string) string {
	r, _ := utf8.DecodeRuneInString(field)
	if r == '#' || r == '[' || unicode.IsSpace(r) {
		return string(codec.EscapeChar) + field
	}
	return field
}

// ParseBudget parses a line written by FormatBudget.
func ParseBudget(line string) (string, decimal.Decimal, error) {
	parts := codec.SplitEscaped(line, codec.Delimiter, budgetFields)
	if len(parts) != budgetFields {
		return "", decimal.Zero, fmt.Errorf("budget: %w: got %d, want %d", ErrFieldCount, len(parts), budgetFields)
	}
	limit, err := core.ParseStoredAmount(codec.Unescape(parts[1]))
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("budget amount: %w", err)
	}
	return codec.Unescape(parts[0]), limit, nil
}

// FormatTransaction renders one transaction line.
func FormatTransaction(t core.Transaction) string {
	return codec.JoinEscaped(
		t.Type.String(),
		t.Date.String(),
		core.FormatAmount(t.Amount),
		t.Category,
		t.Description,
	)
}

// ParseTransaction parses a line written by FormatTransaction. Fields past
// the fifth are ignored. No business rules are checked here.
func ParseTransaction(line string) (core.Transaction, error) {
	parts := codec.SplitEscaped(line, codec.Delimiter, transactionFields)
	if len(parts) < transactionFields {
		return core.Transaction{}, fmt.Errorf("transaction: %w: got %d, want %d", ErrFieldCount, len(parts), transactionFields)
	}
	for i := range parts[:transactionFields] {
		parts[i] = codec.Unescape(parts[i])
	}

	typ, err := core.ParseTransactionType(parts[0])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction type: %w", err)
	}
	date, err := civil.ParseDate(parts[1])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction date: %w", err)
	}
	amount, err := core.ParseStoredAmount(parts[2])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction amount: %w", err)
	}

	return core.Transaction{
		Type:        typ,
		Date:        date,
		Amount:      amount,
		Category:    parts[3],
		Description: parts[4],
	}, nil
}
