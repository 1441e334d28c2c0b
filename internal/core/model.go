package core

import (
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// Model binds the data-access operations to one entity type.
//
// A Model is built once from a static Definition and is safe for
// concurrent use; all per-call state lives in the session.
type Model[E any] struct {
	def   Definition[E]
	index map[string]int
	pk    int

	// Now stamps created_at / updated_at. Defaults to time.Now.
	Now func() time.Time
}

// NewModel validates def and returns a Model for it.
// Panics on a malformed definition, like Register does for duplicates.
func NewModel[E any](def Definition[E]) *Model[E] {
	if def.Table == "" {
		panic("core: definition has no table name")
	}
	if len(def.Fields) == 0 {
		panic(fmt.Sprintf("core: table %s has no fields", def.Table))
	}

	m := &Model[E]{
		def:   def,
		index: make(map[string]int, len(def.Fields)),
		pk:    -1,
		Now:   time.Now,
	}

	var probe E
	for i, f := range def.Fields {
		if _, dup := m.index[f.Name]; dup {
			panic(fmt.Sprintf("core: table %s: duplicate column %s", def.Table, f.Name))
		}
		if f.Addr == nil {
			panic(fmt.Sprintf("core: table %s: column %s has no Addr", def.Table, f.Name))
		}
		if !addrMatches(f.Kind, f.Addr(&probe)) {
			panic(fmt.Sprintf("core: table %s: column %s: Addr type %T does not hold %s",
				def.Table, f.Name, f.Addr(&probe), f.Kind))
		}
		if f.PrimaryKey {
			if m.pk >= 0 {
				panic(fmt.Sprintf("core: table %s: more than one primary key", def.Table))
			}
			m.pk = i
		}
		m.index[f.Name] = i
	}

	if m.pk < 0 {
		panic(fmt.Sprintf("core: table %s has no primary key", def.Table))
	}
	if def.Fields[m.pk].Kind != KindInt {
		panic(fmt.Sprintf("core: table %s: primary key must be an int column", def.Table))
	}
	if i, ok := m.index[ColumnValid]; ok && def.Fields[i].Kind != KindBool {
		panic(fmt.Sprintf("core: table %s: %s must be a bool column", def.Table, ColumnValid))
	}
	for _, name := range []string{ColumnCreatedAt, ColumnUpdatedAt, ColumnDatetime} {
		if i, ok := m.index[name]; ok && def.Fields[i].Kind != KindTime {
			panic(fmt.Sprintf("core: table %s: %s must be a time column", def.Table, name))
		}
	}

	return m
}

// Table returns the table name.
func (m *Model[E]) Table() string { return m.def.Table }

// Info returns the type-erased table description.
func (m *Model[E]) Info() TableInfo {
	cols := make([]ColumnInfo, len(m.def.Fields))
	for i, f := range m.def.Fields {
		cols[i] = ColumnInfo{
			Name:       f.Name,
			Kind:       f.Kind,
			KindName:   f.Kind.String(),
			PrimaryKey: f.PrimaryKey,
			Generated:  f.Generated,
		}
		if f.References != nil {
			cols[i].References = f.References.Table
		}
	}
	label := m.def.Label
	if label == "" {
		label = m.def.Table
	}
	return TableInfo{Name: m.def.Table, Label: label, Columns: cols}
}

// Columns returns every column name in definition order.
func (m *Model[E]) Columns() []string {
	names := make([]string, len(m.def.Fields))
	for i, f := range m.def.Fields {
		names[i] = f.Name
	}
	return names
}

// ReferencedColumns maps each foreign-key column to the table it references.
func (m *Model[E]) ReferencedColumns() map[string]string {
	refs := make(map[string]string)
	for _, f := range m.def.Fields {
		if f.References != nil {
			refs[f.Name] = f.References.Table
		}
	}
	return refs
}

// Query starts a full scan of the model's table.
func (m *Model[E]) Query() Query {
	return NewQuery(m.def.Table)
}

// Live restricts q to rows that have not been soft-deleted.
// Tables without a valid column are returned unchanged.
func (m *Model[E]) Live(q Query) Query {
	if !m.has(ColumnValid) {
		return q
	}
	return q.Where(ColumnValid, OpEquals, true)
}

// Record renders e as column name to value.
func (m *Model[E]) Record(e *E) Record {
	rec := make(Record, len(m.def.Fields))
	for _, f := range m.def.Fields {
		rec[f.Name] = load(f.Addr(e))
	}
	return rec
}

func (m *Model[E]) field(name string) (*Field[E], bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return &m.def.Fields[i], true
}

func (m *Model[E]) has(name string) bool {
	_, ok := m.index[name]
	return ok
}

func (m *Model[E]) pkField() *Field[E] {
	return &m.def.Fields[m.pk]
}

func (m *Model[E]) now() time.Time {
	return m.Now().UTC()
}

// addrs returns scan destinations for every column of e in definition order.
func (m *Model[E]) addrs(e *E) []any {
	dst := make([]any, len(m.def.Fields))
	for i, f := range m.def.Fields {
		dst[i] = f.Addr(e)
	}
	return dst
}

func (m *Model[E]) scanRows(rows *sql.Rows) ([]*E, error) {
	var items []*E
	for rows.Next() {
		e := new(E)
		if err := rows.Scan(m.addrs(e)...); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func addrMatches(kind Kind, p any) bool {
	switch p.(type) {
	case *string:
		return kind == KindText
	case *int64:
		return kind == KindInt
	case *bool:
		return kind == KindBool
	case *float64:
		return kind == KindFloat
	case *time.Time:
		return kind == KindTime
	}
	return false
}

func load(p any) any {
	switch v := p.(type) {
	case *string:
		return *v
	case *int64:
		return *v
	case *bool:
		return *v
	case *float64:
		return *v
	case *time.Time:
		return *v
	}
	return nil
}

// store assigns a value already passed through coerce.
func store(p any, v any) {
	switch dst := p.(type) {
	case *string:
		*dst = v.(string)
	case *int64:
		*dst = v.(int64)
	case *bool:
		*dst = v.(bool)
	case *float64:
		*dst = v.(float64)
	case *time.Time:
		*dst = v.(time.Time)
	}
}

func sameValue(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

func isZeroValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int64:
		return x == 0
	case float64:
		return x == 0
	case bool:
		return !x
	case time.Time:
		return x.IsZero()
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
