package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JonMunkholm/newsroom/internal/database"
)

// ValidateReferences checks that every foreign-key value set on e points
// at an existing row. Zero values are treated as unset and skipped.
//
// It runs inside the caller's unit of work and does not close s.
func (m *Model[E]) ValidateReferences(ctx context.Context, s *database.Session, e *E) error {
	return m.validateReferences(ctx, s, "validate", e)
}

func (m *Model[E]) validateReferences(ctx context.Context, s *database.Session, op string, e *E) error {
	for i := range m.def.Fields {
		f := &m.def.Fields[i]
		if f.References == nil {
			continue
		}
		v := load(f.Addr(e))
		if isZeroValue(v) {
			continue
		}
		if err := m.checkReference(ctx, s, op, f, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model[E]) checkReference(ctx context.Context, s *database.Session, op string, f *Field[E], v any) error {
	ref := f.References
	column := ref.Column
	if column == "" {
		column = "id"
	}

	q := NewQuery(ref.Table).Where(column, OpEquals, v)
	if ref.Live {
		q = q.Where(ColumnValid, OpEquals, true)
	}

	query, args, err := q.Limit(1).Build(s.Dialect(), []string{column})
	if err != nil {
		return &OpError{Op: op, Table: m.def.Table, Column: f.Name, Kind: ErrInternal, Err: err}
	}

	row, err := s.QueryRowContext(ctx, query, args...)
	if err != nil {
		return &OpError{Op: op, Table: m.def.Table, Column: f.Name, Kind: ErrInternal, Msg: "reference lookup failed", Err: err}
	}

	var found any
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &OpError{
				Op:     op,
				Table:  m.def.Table,
				Column: f.Name,
				Kind:   ErrNotFound,
				Msg:    fmt.Sprintf("referenced %s.%s = %v does not exist", ref.Table, column, v),
			}
		}
		return &OpError{Op: op, Table: m.def.Table, Column: f.Name, Kind: ErrInternal, Msg: "reference lookup failed", Err: err}
	}
	return nil
}
