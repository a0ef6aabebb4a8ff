package database

import (
	"errors"
	"fmt"

	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

// NewMigrator builds a migrate instance over the embedded migrations for the configured dialect.
//
// For the in-memory database the migrator shares db; closing it closes db as well.
// For Postgres it opens its own connection from the DSN and must be closed by the caller.
func NewMigrator(db *sqlx.DB, cfg config.DBConfig) (*migrate.Migrate, error) {
	if cfg.IsMemory() {
		src, err := iofs.New(migrations.SQLite, "sqlite")
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite migrations: %w", err)
		}
		// Use driver instance directly to avoid DSN parsing issues with in-memory SQLite
		driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if err != nil {
			return nil, fmt.Errorf("could not create sqlite driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
		if err != nil {
			return nil, fmt.Errorf("could not create migrate instance: %w", err)
		}
		return m, nil
	}

	src, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return nil, fmt.Errorf("could not open postgres migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies every pending migration. No pending migrations is not an error.
func Migrate(db *sqlx.DB, cfg config.DBConfig) error {
	m, err := NewMigrator(db, cfg)
	if err != nil {
		return err
	}
	if !cfg.IsMemory() {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
