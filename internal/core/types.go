package core

import (
	"fmt"
	"time"
)

// Well-known column names the orchestrator understands.
const (
	ColumnValid     = "valid"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnDatetime  = "datetime"
)

// Kind is the storage kind of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindBool
	KindFloat
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Reference describes a foreign key.
type Reference struct {
	Table  string // Referenced table
	Column string // Referenced column (default: "id")
	Live   bool   // Referenced row must also have valid = true
}

// Field describes one column of entity E.
//
// Addr returns the address of the struct field that backs the column and
// must return *string, *int64, *bool, *float64 or *time.Time matching Kind.
type Field[E any] struct {
	Name       string
	Kind       Kind
	PrimaryKey bool
	Generated  bool       // Assigned by the store on insert
	References *Reference // nil unless the column is a foreign key
	Addr       func(*E) any
}

// Definition is the static metadata for an entity type.
type Definition[E any] struct {
	Table  string
	Label  string
	Fields []Field[E]
}

// ColumnInfo is the type-erased view of a Field.
type ColumnInfo struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"-"`
	KindName   string `json:"kind"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
	Generated  bool   `json:"generated,omitempty"`
	References string `json:"references,omitempty"`
}

// TableInfo contains display information about a registered table.
type TableInfo struct {
	Name    string       `json:"name"`
	Label   string       `json:"label"`
	Columns []ColumnInfo `json:"columns"`
}

// Column returns the named column.
func (t TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Payload is a request body that can be projected onto column values.
type Payload interface {
	Fields() map[string]any
}

// Values is the plain map form of a Payload.
type Values map[string]any

// Fields implements Payload.
func (v Values) Fields() map[string]any { return v }

// Criteria maps column names to filter values.
//
// A key that is present with a non-nil value is applied, including false
// and 0. Nil values and empty strings are skipped.
type Criteria map[string]any

// DateRange bounds a period filter. A zero bound is absent.
//
// Only the calendar date of each bound is used, interpreted in the bound's
// own location: Begin covers from 00:00:00 and End up to 23:59:59.999999999.
type DateRange struct {
	Begin time.Time
	End   time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Begin.IsZero() && r.End.IsZero()
}

// Record is a row rendered as column name to value.
type Record map[string]any

// ListParams controls Model.List.
type ListParams struct {
	Skip     int
	Limit    int
	Criteria Criteria
	Init     *Query // Optional starting query for the same table
}

// DefaultLimit is the page size used when ListParams.Limit is not positive.
const DefaultLimit = 10
