package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"finance/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaVersion is the newest migration under migrations/.
const SchemaVersion uint = 1

var ErrSchemaVersion = errors.New("unexpected schema version")

// RunMigrations brings the budgets and transactions tables at dbPath up to
// SchemaVersion. Migrations get their own connection because closing the
// migrate instance closes the database it wraps.
func RunMigrations(dbPath string, logger *log.Logger) (uint, error) {
	if logger == nil {
		logger = log.Discard()
	}

	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	from, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return from, fmt.Errorf("run migrations: %w", err)
	}

	to, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty || to != SchemaVersion {
		return to, fmt.Errorf("%w: got %d (dirty=%t), want %d", ErrSchemaVersion, to, dirty, SchemaVersion)
	}

	if from != to {
		logger.Info("Applied schema migrations",
			log.FieldFile, dbPath, "from_version", from, "to_version", to)
	} else {
		logger.Debug("Schema up to date", log.FieldFile, dbPath, "version", to)
	}
	return to, nil
}
