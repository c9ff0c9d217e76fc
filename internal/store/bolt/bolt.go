// Package bolt stores FinanceData in a bbolt key/value file. Budgets are
// keyed by a one-byte prefix plus the category, so the blank category still
// has a non-empty key. Transactions are keyed by position and hold one line
// of the plain-text record format each.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"finance/internal/core"
	"finance/internal/log"
	"finance/internal/store/plaintext"
)

// Bucket names.
const (
	BucketBudgets      = "budgets"
	BucketTransactions = "transactions"
)

const budgetKeyPrefix = 'b'

func budgetKey(category string) []byte {
	return append([]byte{budgetKeyPrefix}, category...)
}

func budgetCategory(k []byte) (string, bool) {
	if len(k) == 0 || k[0] != budgetKeyPrefix {
		return "", false
	}
	return string(k[1:]), true
}

type Store struct {
	db     *bolt.DB
	path   string
	logger *log.Logger
}

// Open opens or creates the database file and its buckets.
func Open(dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketBudgets, BucketTransactions} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		path:   dbPath,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load never fails. Undecodable entries are skipped.
func (s *Store) Load(ctx context.Context) *core.FinanceData {
	data := core.NewFinanceData()

	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(BucketBudgets)); b != nil {
			err := b.ForEach(func(k, v []byte) error {
				category, ok := budgetCategory(k)
				if !ok {
					s.logger.DebugContext(ctx, "Skipping budget entry with unknown key",
						log.FieldCategory, string(k))
					return nil
				}
				limit, err := core.ParseStoredAmount(string(v))
				if err != nil {
					s.logger.DebugContext(ctx, "Skipping malformed budget entry",
						log.FieldCategory, category, log.FieldError, err)
					return nil
				}
				data.Budgets[category] = limit
				return nil
			})
			if err != nil {
				return err
			}
		}
		if b := tx.Bucket([]byte(BucketTransactions)); b != nil {
			return b.ForEach(func(k, v []byte) error {
				t, err := plaintext.ParseTransaction(string(v))
				if err != nil {
					s.logger.DebugContext(ctx, "Skipping malformed transaction entry",
						log.FieldIndex, btoi(k), log.FieldError, err)
					return nil
				}
				data.Transactions = append(data.Transactions, t)
				return nil
			})
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Reading database failed, keeping partial data",
			log.FieldFile, s.path, log.FieldError, err)
	}
	return data
}

// Save replaces both buckets in one update.
func (s *Store) Save(ctx context.Context, data *core.FinanceData) error {
	if data == nil {
		data = core.NewFinanceData()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		budgets, err := recreateBucket(tx, BucketBudgets)
		if err != nil {
			return err
		}
		for _, category := range data.BudgetCategories() {
			if err := budgets.Put(budgetKey(category), []byte(core.FormatAmount(data.Budgets[category]))); err != nil {
				return fmt.Errorf("put budget %q: %w", category, err)
			}
		}

		txns, err := recreateBucket(tx, BucketTransactions)
		if err != nil {
			return err
		}
		for i, t := range data.Transactions {
			if err := txns.Put(itob(uint64(i)), []byte(plaintext.FormatTransaction(t))); err != nil {
				return fmt.Errorf("put transaction %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save to bolt: %w", err)
	}

	s.logger.DebugContext(ctx, "Saved database",
		log.FieldFile, s.path,
		log.FieldBudgets, len(data.Budgets),
		log.FieldTransaction, len(data.Transactions))
	return nil
}

func (s *Store) File() string {
	return s.path
}

func recreateBucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	if tx.Bucket([]byte(name)) != nil {
		if err := tx.DeleteBucket([]byte(name)); err != nil {
			return nil, fmt.Errorf("failed to clear bucket %s: %w", name, err)
		}
	}
	b, err := tx.CreateBucket([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return b, nil
}

// itob returns an 8-byte big endian representation of v, so keys sort in
// insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
