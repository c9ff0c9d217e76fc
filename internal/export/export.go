// Package export writes transactions as CSV for spreadsheet tools.
package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"finance/internal/core"
	"finance/internal/log"
)

// Header is the first CSV row.
var Header = []string{"type", "date", "amount", "category", "description"}

// DefaultConcurrency bounds parallel file writes in ExportMonths.
const DefaultConcurrency = 4

// FormulaSafe prefixes an apostrophe when s, ignoring leading whitespace,
// starts with a character a spreadsheet would treat as a formula. The
// original s is kept after the apostrophe.
func FormulaSafe(s string) string {
	// unicode.IsSpace also skips U+0085 and U+00A0, so "\u00a0=1" is guarded.
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

// Record returns the CSV columns for t.
func Record(t core.Transaction) []string {
	return []string{
		t.Type.String(),
		t.Date.String(),
		core.FormatAmount(t.Amount),
		FormulaSafe(t.Category),
		FormulaSafe(t.Description),
	}
}

// Quote wraps s in double quotes, doubling inner quotes, when it holds a
// comma, a quote or a line break. Other values are written as is.
func Quote(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(Quote(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// Write writes the header and one row per transaction.
func Write(w io.Writer, txns []core.Transaction) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, Header); err != nil {
		return err
	}
	for _, t := range txns {
		if err := writeRow(bw, Record(t)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes txns to path, creating parent directories, and returns
// the path written.
func WriteFile(path string, txns []core.Transaction) (string, error) {
	if path == "" {
		return "", fmt.Errorf("export path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, txns); err != nil {
		f.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

// MonthFileName is the file name used for one month in ExportMonths.
func MonthFileName(ym core.YearMonth) string {
	return "finance-" + ym.String() + ".csv"
}

// MonthSource returns the transactions of one month.
type MonthSource func(ym core.YearMonth) []core.Transaction

// ExportMonths writes one file per month into dir using at most
// concurrency parallel writers. The returned paths follow months order.
// The first error cancels the remaining writes.
func ExportMonths(ctx context.Context, dir string, months []core.YearMonth, source MonthSource, concurrency int, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentExport)
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	paths := make([]string, len(months))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, ym := range months {
		i, ym := i, ym
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := WriteFile(filepath.Join(dir, MonthFileName(ym)), source(ym))
			if err != nil {
				return fmt.Errorf("export %s: %w", ym, err)
			}
			paths[i] = path
			logger.DebugContext(ctx, "Exported month",
				log.FieldYearMonth, ym.String(), log.FieldFile, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
