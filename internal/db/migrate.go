package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/atakandgn/company-management-system/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending up migrations. An up-to-date schema is not an
// error.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	m, done, err := newMigrator(ctx, db)
	if err != nil {
		return err
	}
	defer done()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// Rollback reverts the given number of migrations, or all of them when steps
// is not positive.
func Rollback(ctx context.Context, db *sqlx.DB, steps int) error {
	m, done, err := newMigrator(ctx, db)
	if err != nil {
		return err
	}
	defer done()

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down failed: %w", err)
	}
	return nil
}

// Version returns the current schema version and whether it is dirty.
func Version(ctx context.Context, db *sqlx.DB) (uint, bool, error) {
	m, done, err := newMigrator(ctx, db)
	if err != nil {
		return 0, false, err
	}
	defer done()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrator binds golang-migrate to db without handing it ownership of the
// pool. The returned func releases what the migrator holds.
func newMigrator(ctx context.Context, db *sqlx.DB) (*migrate.Migrate, func(), error) {
	dialect := db.DriverName()
	sub, err := fs.Sub(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return nil, nil, err
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("load migrations: %w", err)
	}

	var (
		driver  database.Driver
		release func()
	)
	switch dialect {
	case config.DriverPostgres:
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		release = func() { _ = driver.Close() }
	case config.DriverSQLite:
		// The sqlite driver closes the *sql.DB it was given, so it is
		// left open here and the caller's pool stays usable.
		driver, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
		if err != nil {
			return nil, nil, err
		}
		release = func() {}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", dialect)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("init migrator failed: %w", err)
	}
	return m, func() {
		_ = src.Close()
		release()
	}, nil
}
