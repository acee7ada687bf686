package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies every pending up migration in source to db.
func Migrate(db *sql.DB, source fs.FS) error {
	src, err := iofs.New(source, ".")
	if err != nil {
		return fmt.Errorf("Migrate: source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("Migrate: driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("no new migrations")
			return nil
		}
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return fmt.Errorf("Migrate: dirty database version %d: %w", dirty.Version, err)
		}
		return fmt.Errorf("Migrate: up: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("Migrate: version: %w", err)
	}
	slog.Info("database migrations applied", "version", version)
	return nil
}
