package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/newsroom/internal/database"
)

// Create inserts a new row built from payload and returns it as stored.
//
// Every payload key must name a writable column. valid defaults to true
// and created_at / updated_at are stamped when left zero. Every foreign key
// the payload sets is checked before the insert, zero included; a
// constraint violation at the store is a conflict.
func (m *Model[E]) Create(ctx context.Context, s *database.Session, payload Payload) (e *E, err error) {
	const op = "create"
	defer m.track(ctx, op, s)(&err)
	if err := m.requireSession(op, s); err != nil {
		return nil, err
	}

	var fields map[string]any
	if payload != nil {
		fields = payload.Fields()
	}

	e = new(E)
	provided := make(map[string]bool, len(fields))
	for _, name := range sortedKeys(fields) {
		f, ok := m.field(name)
		if !ok {
			return nil, unprocessable(op, m.def.Table, name, fmt.Sprintf("unknown column %q", name))
		}
		v := fields[name]
		if v == nil {
			continue
		}
		if f.Generated {
			return nil, unprocessable(op, m.def.Table, name, fmt.Sprintf("column %q is read-only", name))
		}
		cv, ok := coerce(f.Kind, v)
		if !ok {
			return nil, unprocessable(op, m.def.Table, name, mismatch(f.Kind, v))
		}
		store(f.Addr(e), cv)
		provided[name] = true
	}

	if f, ok := m.field(ColumnValid); ok && !provided[ColumnValid] {
		store(f.Addr(e), true)
	}
	now := m.now()
	for _, name := range []string{ColumnCreatedAt, ColumnUpdatedAt} {
		if f, ok := m.field(name); ok && isZeroValue(load(f.Addr(e))) {
			store(f.Addr(e), now)
		}
	}

	for i := range m.def.Fields {
		f := &m.def.Fields[i]
		if f.References == nil || !provided[f.Name] {
			continue
		}
		if err := m.checkReference(ctx, s, op, f, load(f.Addr(e))); err != nil {
			return nil, err
		}
	}

	var (
		cols []string
		args []any
	)
	for _, f := range m.def.Fields {
		if f.Generated {
			continue
		}
		cols = append(cols, f.Name)
		args = append(args, load(f.Addr(e)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quoteIdentifier(m.def.Table), quoteList(cols), placeholders(len(cols)),
		quoteIdentifier(m.pkField().Name))

	row, err := s.QueryRowContext(ctx, query, args...)
	if err != nil {
		return nil, m.writeErr(op, err)
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, m.writeErr(op, err)
	}

	return m.refreshAndCommit(ctx, s, op, id)
}

// Update applies payload to the row with primary key id and returns the
// stored result.
//
// Payload keys that are not columns are ignored, as are nil values and
// values equal to the current ones. A value of the wrong kind rejects the
// whole update and leaves the row untouched. Changed foreign keys are
// checked before anything is written.
func (m *Model[E]) Update(ctx context.Context, s *database.Session, id int64, payload Payload) (e *E, err error) {
	const op = "update"
	defer m.track(ctx, op, s)(&err)
	if err := m.requireSession(op, s); err != nil {
		return nil, err
	}

	e, err = m.lookup(ctx, s, op, id)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if payload != nil {
		fields = payload.Fields()
	}

	var changed []string
	for _, name := range sortedKeys(fields) {
		f, ok := m.field(name)
		if !ok {
			continue
		}
		v := fields[name]
		if v == nil {
			continue
		}
		cv, ok := coerce(f.Kind, v)
		if !ok {
			return nil, unprocessable(op, m.def.Table, name, mismatch(f.Kind, v))
		}
		if sameValue(load(f.Addr(e)), cv) {
			continue
		}
		if f.PrimaryKey || f.Generated {
			return nil, unprocessable(op, m.def.Table, name, fmt.Sprintf("column %q is read-only", name))
		}
		if f.References != nil {
			if err := m.checkReference(ctx, s, op, f, cv); err != nil {
				return nil, err
			}
		}
		store(f.Addr(e), cv)
		changed = append(changed, name)
	}

	if len(changed) == 0 {
		return e, nil
	}
	if f, ok := m.field(ColumnUpdatedAt); ok && !slices.Contains(changed, ColumnUpdatedAt) {
		store(f.Addr(e), m.now())
		changed = append(changed, ColumnUpdatedAt)
	}

	sets := make([]string, len(changed))
	args := make([]any, 0, len(changed)+1)
	for i, name := range changed {
		f, _ := m.field(name)
		sets[i] = quoteIdentifier(name) + " = ?"
		args = append(args, load(f.Addr(e)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quoteIdentifier(m.def.Table), strings.Join(sets, ", "), quoteIdentifier(m.pkField().Name))

	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		return nil, m.writeErr(op, err)
	}

	return m.refreshAndCommit(ctx, s, op, id)
}

// Delete soft-deletes the row with primary key id by clearing valid.
// Deleting an already deleted row succeeds.
func (m *Model[E]) Delete(ctx context.Context, s *database.Session, id int64) (err error) {
	const op = "delete"
	defer m.track(ctx, op, s)(&err)
	if err := m.requireSession(op, s); err != nil {
		return err
	}
	if !m.has(ColumnValid) {
		return unprocessable(op, m.def.Table, ColumnValid, "table does not support soft delete")
	}

	if _, err := m.lookup(ctx, s, op, id); err != nil {
		return err
	}

	sets := []string{quoteIdentifier(ColumnValid) + " = ?"}
	args := []any{false}
	if m.has(ColumnUpdatedAt) {
		sets = append(sets, quoteIdentifier(ColumnUpdatedAt)+" = ?")
		args = append(args, m.now())
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quoteIdentifier(m.def.Table), strings.Join(sets, ", "), quoteIdentifier(m.pkField().Name))

	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		return asInternal(op, m.def.Table, err)
	}
	if err := s.Commit(); err != nil {
		return asInternal(op, m.def.Table, err)
	}
	return nil
}

// refreshAndCommit re-reads the written row so the caller sees stored
// values (defaults, precision), then commits.
func (m *Model[E]) refreshAndCommit(ctx context.Context, s *database.Session, op string, id int64) (*E, error) {
	e, err := m.lookup(ctx, s, op, id)
	if err != nil {
		return nil, asInternal(op, m.def.Table, err)
	}
	if err := s.Commit(); err != nil {
		return nil, m.writeErr(op, err)
	}
	return e, nil
}

func (m *Model[E]) writeErr(op string, err error) error {
	if database.IsConstraintViolation(err) {
		return &OpError{Op: op, Table: m.def.Table, Kind: ErrConflict, Msg: "constraint violation", Err: err}
	}
	return asInternal(op, m.def.Table, err)
}
