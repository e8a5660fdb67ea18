package rawload

import "context"

// Dialect renders the engine-specific parts of generated SQL.
type Dialect interface {
	// Name identifies the engine in logs ("postgres", "sqlite").
	Name() string

	// QuoteIdentifier quotes each part and joins them with dots.
	// Any character, quotes included, is safe inside a quoted part.
	QuoteIdentifier(parts ...string) string

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string

	// TypeName renders a column type.
	TypeName(t ColumnType) string

	// MaxBindParams is the largest number of arguments one statement may carry.
	MaxBindParams() int
}

// Row represents a single row returned by QueryRow.
type Row interface {
	// Scan reads the values from the row into dest values.
	// Returns an error if no row was found or if the scan fails.
	Scan(dest ...any) error
}

// Execer runs a statement that returns no rows.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Tx is a transaction on the session connection.
// Rollback after Commit is a no-op, so callers may always defer Rollback.
type Tx interface {
	Execer
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Session is the single database connection shared by a whole run.
// Implementations are not safe for concurrent use.
type Session interface {
	Execer

	Dialect() Dialect

	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Begin starts a transaction. Only one may be open at a time.
	Begin(ctx context.Context) (Tx, error)

	// EnsureSchema makes the schema namespace available, creating it if absent.
	EnsureSchema(ctx context.Context, schema string) error

	// TableColumns returns the column names of an existing table in ordinal order,
	// or nil when the table does not exist.
	TableColumns(ctx context.Context, schema, table string) ([]string, error)

	// Close releases the connection.
	Close(ctx context.Context) error
}
