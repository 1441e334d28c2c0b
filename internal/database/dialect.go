package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect identifies the SQL flavour a client speaks.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DialectFor resolves a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx", "":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// String returns the dialect name.
func (d Dialect) String() string {
	return string(d)
}

// FoldFunc is the SQL function registered on the sqlite driver that lower
// cases text by Unicode rules. SQLite's own lower() and LIKE fold ASCII only.
const FoldFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(FoldFunc, 1, foldText); err != nil {
		panic(fmt.Sprintf("database: register %s: %v", FoldFunc, err))
	}
}

func foldText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// ContainsClause renders a case-insensitive substring match of col against
// one placeholder holding a LIKE pattern escaped with '\'. Pass the pattern
// through FoldPattern first.
func (d Dialect) ContainsClause(col string) string {
	if d == Postgres {
		return col + ` ILIKE ? ESCAPE '\'`
	}
	return FoldFunc + "(" + col + `) LIKE ? ESCAPE '\'`
}

// FoldPattern prepares a pattern for ContainsClause.
func (d Dialect) FoldPattern(pattern string) string {
	if d == Postgres {
		return pattern
	}
	return strings.ToLower(pattern)
}

// IsConstraintViolation reports whether err is an integrity constraint
// failure (unique, foreign key, not null, check) raised by either driver.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	return false
}
