package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/newsroom/internal/database"
	"github.com/lib/pq"
)

// Operator is a comparison in a query condition.
type Operator string

const (
	OpEquals    Operator = "eq"
	OpContains  Operator = "contains"
	OpGreaterEq Operator = "gte"
	OpLessEq    Operator = "lte"
	OpIn        Operator = "in"
)

// Condition is a single column predicate. Conditions are AND-ed.
type Condition struct {
	Column   string
	Operator Operator
	Value    any
}

// SortSpec is one ORDER BY term.
type SortSpec struct {
	Column string
	Desc   bool
}

// Query is an immutable, unexecuted SELECT over one table.
//
// Every method returns a new Query; the receiver is never modified, so a
// handle can be shared and extended along different paths. A composition
// error is kept on the handle and reported when the query runs.
type Query struct {
	table  string
	conds  []Condition
	sorts  []SortSpec
	offset int
	limit  int
	err    error
}

// NewQuery starts a full scan of table.
func NewQuery(table string) Query {
	return Query{table: table}
}

// Table returns the table the query selects from.
func (q Query) Table() string { return q.table }

// Err returns the first composition error, if any.
func (q Query) Err() error { return q.err }

// Conditions returns a copy of the query's predicates.
func (q Query) Conditions() []Condition { return slices.Clone(q.conds) }

// Where adds a predicate.
func (q Query) Where(column string, op Operator, value any) Query {
	q.conds = append(slices.Clip(q.conds), Condition{Column: column, Operator: op, Value: value})
	return q
}

// OrderBy appends a sort term.
func (q Query) OrderBy(column string, desc bool) Query {
	q.sorts = append(slices.Clip(q.sorts), SortSpec{Column: column, Desc: desc})
	return q
}

// Offset sets the number of rows to skip.
func (q Query) Offset(n int) Query {
	q.offset = max(n, 0)
	return q
}

// Limit sets the maximum number of rows; 0 means no limit.
func (q Query) Limit(n int) Query {
	q.limit = max(n, 0)
	return q
}

// WithErr returns a handle carrying err unless it already carries one.
func (q Query) WithErr(err error) Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// Build renders the query as SQL with '?' placeholders.
func (q Query) Build(d database.Dialect, columns []string) (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	if q.table == "" {
		return "", nil, fmt.Errorf("query has no table")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(quoteList(columns))
	b.WriteString(" FROM ")
	b.WriteString(quoteIdentifier(q.table))

	where, args, err := buildWhere(d, q.conds)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(where)

	if len(q.sorts) > 0 {
		terms := make([]string, len(q.sorts))
		for i, s := range q.sorts {
			dir := "ASC"
			if s.Desc {
				dir = "DESC"
			}
			terms[i] = quoteIdentifier(s.Column) + " " + dir
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(terms, ", "))
	}

	if q.limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	}
	if q.offset > 0 {
		if q.limit == 0 {
			// SQLite requires a LIMIT before OFFSET; -1 is unbounded there
			// and postgres accepts LIMIT ALL.
			if d == database.Postgres {
				b.WriteString(" LIMIT ALL")
			} else {
				b.WriteString(" LIMIT -1")
			}
		}
		b.WriteString(" OFFSET ?")
		args = append(args, q.offset)
	}

	return b.String(), args, nil
}

func buildWhere(d database.Dialect, conds []Condition) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))

	for _, c := range conds {
		col := quoteIdentifier(c.Column)
		switch c.Operator {
		case OpEquals:
			clauses = append(clauses, col+" = ?")
			args = append(args, c.Value)
		case OpContains:
			s, ok := c.Value.(string)
			if !ok {
				return "", nil, fmt.Errorf("contains filter on %s needs a string, got %T", c.Column, c.Value)
			}
			clauses = append(clauses, d.ContainsClause(col))
			args = append(args, d.FoldPattern("%"+escapeLike(s)+"%"))
		case OpGreaterEq:
			clauses = append(clauses, col+" >= ?")
			args = append(args, c.Value)
		case OpLessEq:
			clauses = append(clauses, col+" <= ?")
			args = append(args, c.Value)
		case OpIn:
			values, ok := c.Value.([]any)
			if !ok || len(values) == 0 {
				// An empty IN list matches nothing.
				clauses = append(clauses, "1 = 0")
				continue
			}
			clauses = append(clauses, col+" IN ("+placeholders(len(values))+")")
			args = append(args, values...)
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", c.Operator)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func quoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
