package plaintext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"finance/internal/core"
)

// MaxLineBytes bounds a single line. Longer lines abort the read.
const MaxLineBytes = 1 << 20

var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

// LineError describes a line that was skipped while decoding.
type LineError struct {
	Line    int
	Section string
	Err     error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d in %s: %v", e.Line, e.Section, e.Err)
}

// Decode reads the text format from r. Malformed lines are skipped and
// reported in the returned slice. A read error stops decoding and is
// returned together with everything parsed up to that point.
func Decode(r io.Reader) (*core.FinanceData, []LineError, error) {
	data := core.NewFinanceData()
	var skipped []LineError

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	section := ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Bytes()
		if !utf8.Valid(raw) {
			return data, skipped, fmt.Errorf("line %d: %w", lineNo, ErrInvalidEncoding)
		}
		line := strings.TrimSpace(string(raw))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line
			continue
		}

		switch section {
		case SectionBudgets:
			category, limit, err := ParseBudget(line)
			if err != nil {
				skipped = append(skipped, LineError{Line: lineNo, Section: section, Err: err})
				continue
			}
			data.Budgets[category] = limit
		case SectionTransactions:
			t, err := ParseTransaction(line)
			if err != nil {
				skipped = append(skipped, LineError{Line: lineNo, Section: section, Err: err})
				continue
			}
			data.Transactions = append(data.Transactions, t)
		}
	}
	if err := sc.Err(); err != nil {
		return data, skipped, fmt.Errorf("read after line %d: %w", lineNo, err)
	}
	return data, skipped, nil
}

// Encode writes data in the text format. Budgets are written in category
// order and transactions in slice order.
func Encode(w io.Writer, data *core.FinanceData) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Header)
	fmt.Fprintln(bw, SectionBudgets)
	for _, category := range data.BudgetCategories() {
		fmt.Fprintln(bw, FormatBudget(category, data.Budgets[category]))
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, SectionTransactions)
	for _, t := range data.Transactions {
		fmt.Fprintln(bw, FormatTransaction(t))
	}

	return bw.Flush()
}
