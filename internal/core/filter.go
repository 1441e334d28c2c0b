package core

import (
	"fmt"
	"time"
)

// FilterByPeriod restricts q to rows whose created_at (or updated_at when
// useUpdatedAt is set) falls inside r, both ends inclusive. An empty range
// returns q unchanged.
func (m *Model[E]) FilterByPeriod(q Query, r DateRange, useUpdatedAt bool) Query {
	if r.IsZero() {
		return q
	}

	column := ColumnCreatedAt
	if useUpdatedAt {
		column = ColumnUpdatedAt
	}
	if f, ok := m.field(column); !ok || f.Kind != KindTime {
		return q.WithErr(unprocessable("filter", m.def.Table, column,
			fmt.Sprintf("period filter needs a %s column", column)))
	}

	if !r.Begin.IsZero() {
		q = q.Where(column, OpGreaterEq, startOfDay(r.Begin).UTC())
	}
	if !r.End.IsZero() {
		q = q.Where(column, OpLessEq, endOfDay(r.End).UTC())
	}
	return q
}

// FilterByQuery adds one predicate per criterion: text values become
// case-insensitive substring matches, every other kind an equality match.
// Keys are applied in sorted order.
func (m *Model[E]) FilterByQuery(q Query, c Criteria) Query {
	for _, name := range sortedKeys(c) {
		v := c[name]
		if skipCriterion(v) {
			continue
		}

		f, ok := m.field(name)
		if !ok {
			return q.WithErr(unprocessable("filter", m.def.Table, name, fmt.Sprintf("unknown column %q", name)))
		}

		if s, isText := v.(string); isText {
			if f.Kind != KindText {
				return q.WithErr(unprocessable("filter", m.def.Table, name, mismatch(f.Kind, v)))
			}
			q = q.Where(name, OpContains, s)
			continue
		}

		cv, ok := coerce(f.Kind, v)
		if !ok {
			return q.WithErr(unprocessable("filter", m.def.Table, name, mismatch(f.Kind, v)))
		}
		q = q.Where(name, OpEquals, cv)
	}
	return q
}

// ByColumn returns an unexecuted query for live rows whose columns equal
// the given values. At least one usable value is required.
func (m *Model[E]) ByColumn(cols map[string]any) Query {
	q := m.Query()
	applied := 0

	for _, name := range sortedKeys(cols) {
		v := cols[name]
		if skipCriterion(v) {
			continue
		}
		f, ok := m.field(name)
		if !ok {
			return q.WithErr(unprocessable("filter", m.def.Table, name, fmt.Sprintf("unknown column %q", name)))
		}
		cv, ok := coerce(f.Kind, v)
		if !ok {
			return q.WithErr(unprocessable("filter", m.def.Table, name, mismatch(f.Kind, v)))
		}
		q = q.Where(name, OpEquals, cv)
		applied++
	}

	if applied == 0 {
		return q.WithErr(unprocessable("filter", m.def.Table, "", "column filter needs at least one value"))
	}
	return m.Live(q)
}

// ByIDs returns an unexecuted query selecting rows by primary key.
func (m *Model[E]) ByIDs(ids []int64) Query {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return m.Query().Where(m.pkField().Name, OpIn, values)
}

func skipCriterion(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func mismatch(want Kind, got any) string {
	return fmt.Sprintf("invalid value type: want %s, got %s", want, typeName(got))
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 23, 59, 59, 999999999, t.Location())
}
