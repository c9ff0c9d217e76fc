// Package sqlite stores FinanceData in a SQLite database. The schema is
// managed with embedded migrations and every Save rewrites both tables in
// one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/civil"

	"finance/internal/core"
	"finance/internal/log"

	_ "modernc.org/sqlite"
)

type Store struct {
	db      *sql.DB
	path    string
	version uint
	logger  *log.Logger
}

// Open creates the database directory if needed, connects and migrates.
func Open(dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger = logger.WithComponent(log.ComponentStorage)
	version, err := RunMigrations(dbPath, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		path:    dbPath,
		version: version,
		logger:  logger,
	}, nil
}

// Version returns the schema version the database was migrated to.
func (s *Store) Version() uint {
	return s.version
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load never fails. Rows that do not parse are skipped and a query error
// keeps whatever was read before it.
func (s *Store) Load(ctx context.Context) *core.FinanceData {
	data := core.NewFinanceData()

	if err := s.loadBudgets(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "Reading budgets failed", log.FieldFile, s.path, log.FieldError, err)
		return data
	}
	if err := s.loadTransactions(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "Reading transactions failed, keeping partial data",
			log.FieldFile, s.path, log.FieldError, err)
		return data
	}

	s.logger.DebugContext(ctx, "Loaded database",
		log.FieldFile, s.path,
		log.FieldBudgets, len(data.Budgets),
		log.FieldTransaction, len(data.Transactions))
	return data
}

func (s *Store) loadBudgets(ctx context.Context, data *core.FinanceData) error {
	rows, err := s.db.QueryContext(ctx, selectBudgets)
	if err != nil {
		return fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, amount string
		if err := rows.Scan(&category, &amount); err != nil {
			return fmt.Errorf("scan budget: %w", err)
		}
		limit, err := core.ParseStoredAmount(amount)
		if err != nil {
			s.logger.DebugContext(ctx, "Skipping malformed budget row",
				log.FieldCategory, category, log.FieldError, err)
			continue
		}
		data.Budgets[category] = limit
	}
	return rows.Err()
}

func (s *Store) loadTransactions(ctx context.Context, data *core.FinanceData) error {
	rows, err := s.db.QueryContext(ctx, selectTransactions)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position              int64
			typ, date, amount     string
			category, description string
		)
		if err := rows.Scan(&position, &typ, &date, &amount, &category, &description); err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		t, err := parseRow(typ, date, amount, category, description)
		if err != nil {
			s.logger.DebugContext(ctx, "Skipping malformed transaction row",
				log.FieldIndex, position, log.FieldError, err)
			continue
		}
		data.Transactions = append(data.Transactions, t)
	}
	return rows.Err()
}

func parseRow(typ, date, amount, category, description string) (core.Transaction, error) {
	tt, err := core.ParseTransactionType(typ)
	if err != nil {
		return core.Transaction{}, err
	}
	d, err := civil.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date: %w", err)
	}
	a, err := core.ParseStoredAmount(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	return core.Transaction{Type: tt, Date: d, Amount: a, Category: category, Description: description}, nil
}

// Save replaces the stored data in a single transaction.
func (s *Store) Save(ctx context.Context, data *core.FinanceData) error {
	if data == nil {
		data = core.NewFinanceData()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteBudgets); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteTransactions); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	for _, category := range data.BudgetCategories() {
		if _, err := tx.ExecContext(ctx, insertBudget, category, core.FormatAmount(data.Budgets[category])); err != nil {
			return fmt.Errorf("insert budget %q: %w", category, err)
		}
	}
	for i, t := range data.Transactions {
		if _, err := tx.ExecContext(ctx, insertTransaction,
			i, t.Type.String(), t.Date.String(), core.FormatAmount(t.Amount), t.Category, t.Description); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.DebugContext(ctx, "Saved database",
		log.FieldFile, s.path,
		log.FieldBudgets, len(data.Budgets),
		log.FieldTransaction, len(data.Transactions))
	return nil
}

// File returns the database path.
func (s *Store) File() string {
	return s.path
}
