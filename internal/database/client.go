// Package database owns the connection to the relational store and the
// per-request unit of work (Session) every data-access operation runs in.
//
// Two dialects are supported: PostgreSQL through pgx's database/sql adapter
// and SQLite through the pure-Go modernc driver. Both are wrapped by sqlx so
// callers write '?' placeholders and let the session rebind them.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Config holds connection settings for Open.
type Config struct {
	Driver          string // "postgres" or "sqlite"
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Client wraps sqlx.DB with the dialect it was opened for.
type Client struct {
	db      *sqlx.DB
	pool    *pgxpool.Pool
	dialect Dialect
}

// Open connects to the configured store and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case Postgres:
		return openPostgres(ctx, cfg)
	default:
		return openSQLite(ctx, cfg)
	}
}

func openPostgres(ctx context.Context, cfg Config) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db := sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
	return &Client{db: db, pool: pool, dialect: Postgres}, nil
}

func openSQLite(ctx context.Context, cfg Config) (*Client, error) {
	raw, err := sql.Open("sqlite", sqliteDSN(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to an in-memory database is a separate database.
	if strings.Contains(cfg.URL, ":memory:") || strings.Contains(cfg.URL, "mode=memory") {
		raw.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		raw.SetMaxOpenConns(cfg.MaxConns)
	}

	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Client{db: sqlx.NewDb(raw, "sqlite"), dialect: SQLite}, nil
}

// sqliteDSN enables foreign keys and the sortable text time format unless
// the URL already sets them.
func sqliteDSN(dsn string) string {
	base, query, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(query)
	if err != nil {
		return dsn
	}

	var extra []string
	if !slices.ContainsFunc(params["_pragma"], func(p string) bool {
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(p)), "foreign_keys")
	}) {
		extra = append(extra, "_pragma=foreign_keys(1)")
	}
	if !params.Has("_time_format") {
		extra = append(extra, "_time_format=sqlite")
	}
	if len(extra) == 0 {
		return dsn
	}
	if query != "" {
		extra = append([]string{query}, extra...)
	}
	return base + "?" + strings.Join(extra, "&")
}

// DB returns the underlying *sqlx.DB connection.
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Dialect reports which SQL dialect the client speaks.
func (c *Client) Dialect() Dialect {
	return c.dialect
}

// Ping tests the database connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection and, for postgres, the pool behind it.
func (c *Client) Close() error {
	err := c.db.Close()
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}
