// Package migrate applies embedded SQL migrations with golang-migrate.
package migrate

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Driver names the database flavour a migration set targets.
type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
)

const migrationsTable = "schema_migrations"

// Up applies every pending migration found under dir in fsys.
func Up(db *sql.DB, driver Driver, fsys fs.FS, dir string) error {
	if db == nil {
		return fmt.Errorf("migrate %s: nil db", dir)
	}

	source, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("migrate %s: init source: %w", dir, err)
	}

	dbDriver, err := instance(db, driver)
	if err != nil {
		return fmt.Errorf("migrate %s: init db driver: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(driver), dbDriver)
	if err != nil {
		return fmt.Errorf("migrate %s: init migrator: %w", dir, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: up: %w", dir, err)
	}
	return nil
}

func instance(db *sql.DB, driver Driver) (migratedb.Driver, error) {
	switch driver {
	case Postgres:
		return migratepg.WithInstance(db, &migratepg.Config{MigrationsTable: migrationsTable})
	case SQLite:
		return migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}
}
