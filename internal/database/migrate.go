package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies every pending schema migration for the client's dialect.
//
// The migrate instance is never closed. Its driver wraps the client's
// *sql.DB and closing it would close the shared pool.
func Migrate(c *Client) (uint, error) {
	src, err := iofs.New(migrations, "migrations/"+c.dialect.String())
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	var driver migratedb.Driver
	switch c.dialect {
	case Postgres:
		driver, err = migratepgx.WithInstance(c.db.DB, &migratepgx.Config{})
	default:
		driver, err = migratesqlite.WithInstance(c.db.DB, &migratesqlite.Config{})
	}
	if err != nil {
		return 0, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, c.dialect.String(), driver)
	if err != nil {
		return 0, fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
