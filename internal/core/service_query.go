package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/newsroom/internal/database"
)

// GetByID returns the live row with primary key id.
// Soft-deleted rows are reported as not found.
func (m *Model[E]) GetByID(ctx context.Context, s *database.Session, id int64) (e *E, err error) {
	const op = "get"
	defer m.track(ctx, op, s)(&err)
	if err := m.requireSession(op, s); err != nil {
		return nil, err
	}

	items, err := m.fetch(ctx, s, op, m.Live(m.Query().Where(m.pkField().Name, OpEquals, id)))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound(op, m.def.Table, fmt.Sprintf("no row with %s %d", m.pkField().Name, id))
	}
	return items[0], nil
}

// Lookup returns the row with primary key id whether or not it has been
// soft-deleted.
func (m *Model[E]) Lookup(ctx context.Context, s *database.Session, id int64) (e *E, err error) {
	const op = "lookup"
	defer m.track(ctx, op, s)(&err)
	if err := m.requireSession(op, s); err != nil {
		return nil, err
	}
	return m.lookup(ctx, s, op, id)
}

func (m *Model[E]) lookup(ctx context.Context, s *database.Session, op string, id int64) (*E, error) {
	items, err := m.fetch(ctx, s, op, m.Query().Where(m.pkField().Name, OpEquals, id))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound(op, m.def.Table, fmt.Sprintf("no row with %s %d", m.pkField().Name, id))
	}
	return items[0], nil
}

// GetByColumn executes ByColumn(cols) and returns every matching live row.
// No match is an empty result, not an error.
func (m *Model[E]) GetByColumn(ctx context.Context, s *database.Session, cols map[string]any) (items []*E, err error) {
	const op = "get_by_column"
	defer m.track(ctx, op, s)(&err)
	if err := m.requireSession(op, s); err != nil {
		return nil, err
	}
	return m.fetch(ctx, s, op, m.ByColumn(cols))
}

// List returns one page of live rows matching p.Criteria, newest first.
//
// Rows are ordered by updated_at, or datetime when the table has no
// updated_at, with the primary key as tie-break; tables with neither are
// returned in store order. An empty page is reported as not found.
func (m *Model[E]) List(ctx context.Context, s *database.Session, p ListParams) (items []*E, err error) {
	const op = "list"
	defer m.track(ctx, op, s)(&err)
	if err := m.requireSession(op, s); err != nil {
		return nil, err
	}

	q := m.Query()
	if p.Init != nil {
		if p.Init.Table() != m.def.Table {
			return nil, &OpError{Op: op, Table: m.def.Table, Kind: ErrInternal,
				Msg: fmt.Sprintf("initial query targets table %s", p.Init.Table())}
		}
		q = *p.Init
	}

	q = m.Live(m.FilterByQuery(q, p.Criteria))

	switch {
	case m.has(ColumnUpdatedAt):
		q = q.OrderBy(ColumnUpdatedAt, true).OrderBy(m.pkField().Name, true)
	case m.has(ColumnDatetime):
		q = q.OrderBy(ColumnDatetime, true).OrderBy(m.pkField().Name, true)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q = q.Offset(p.Skip).Limit(limit)

	items, err = m.fetch(ctx, s, op, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound(op, m.def.Table, "no rows match")
	}
	return items, nil
}

// fetch runs q inside s without releasing it.
func (m *Model[E]) fetch(ctx context.Context, s *database.Session, op string, q Query) ([]*E, error) {
	if q.Table() != m.def.Table {
		return nil, &OpError{Op: op, Table: m.def.Table, Kind: ErrInternal,
			Msg: fmt.Sprintf("query targets table %s", q.Table())}
	}

	query, args, err := q.Build(s.Dialect(), m.Columns())
	if err != nil {
		return nil, asInternal(op, m.def.Table, err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, asInternal(op, m.def.Table, err)
	}
	defer rows.Close()

	items, err := m.scanRows(rows)
	if err != nil {
		return nil, asInternal(op, m.def.Table, err)
	}
	return items, nil
}
