package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrSessionClosed is returned when a session is used after Commit, Rollback or Close.
var ErrSessionClosed = errors.New("database: session closed")

// Session is a single unit of work backed by one transaction.
//
// A session is not safe for concurrent use. Close is idempotent and rolls
// back anything that was not committed, so callers can always defer it.
type Session struct {
	id      string
	tx      *sqlx.Tx
	dialect Dialect
	done    bool
}

// Session begins a new unit of work.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}
	return &Session{
		id:      uuid.NewString(),
		tx:      tx,
		dialect: c.dialect,
	}, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Dialect reports the SQL dialect of the underlying connection.
func (s *Session) Dialect() Dialect {
	return s.dialect
}

// Closed reports whether the session has been committed, rolled back or closed.
func (s *Session) Closed() bool {
	return s.done
}

// QueryContext runs a query written with '?' placeholders.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.done {
		return nil, ErrSessionClosed
	}
	return s.tx.QueryContext(ctx, s.tx.Rebind(query), args...)
}

// QueryRowContext runs a query expected to return at most one row.
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	if s.done {
		return nil, ErrSessionClosed
	}
	return s.tx.QueryRowContext(ctx, s.tx.Rebind(query), args...), nil
}

// ExecContext runs a statement written with '?' placeholders.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.done {
		return nil, ErrSessionClosed
	}
	return s.tx.ExecContext(ctx, s.tx.Rebind(query), args...)
}

// Commit makes the session's changes durable and ends it.
func (s *Session) Commit() error {
	if s.done {
		return ErrSessionClosed
	}
	s.done = true
	return s.tx.Commit()
}

// Rollback discards the session's changes and ends it.
func (s *Session) Rollback() error {
	if s.done {
		return ErrSessionClosed
	}
	s.done = true
	return s.tx.Rollback()
}

// Close ends the session, rolling back if it is still open.
func (s *Session) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
