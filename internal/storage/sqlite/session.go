package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vvka-141/rawload/internal/retry"
	"github.com/vvka-141/rawload/pkg/rawload"
)

const memoryPath = ":memory:"

// busyTimeoutMillis lets a statement wait for another writer before failing with SQLITE_BUSY.
const busyTimeoutMillis = 5000

// Session holds one connection to a SQLite database file.
// Schemas other than main are separate files attached next to it.
type Session struct {
	db   *sql.DB
	conn *sql.Conn
	path string
}

var _ rawload.Session = (*Session)(nil)

// Open opens (creating if needed) the database at path. A busy database is retried.
func Open(ctx context.Context, path string) (*Session, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty: %w", rawload.ErrInvalidConfig)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	var conn *sql.Conn
	exec := retry.NewExecutor(retry.NewSQLiteErrorClassifier(), retry.NewExponentialBackoff(rawload.DefaultRetryMaxAttempts))
	err = exec.Execute(ctx, func(ctx context.Context) error {
		if conn == nil {
			c, err := db.Conn(ctx)
			if err != nil {
				return err
			}
			conn = c
		}
		_, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMillis))
		return err
	})
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		db.Close()
		return nil, fmt.Errorf("sqlite: connect %s: %w: %w", path, rawload.ErrConnectionFailed, err)
	}

	return &Session{db: db, conn: conn, path: path}, nil
}

func (s *Session) Dialect() rawload.Dialect { return Dialect{} }

func (s *Session) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.conn.ExecContext(ctx, query, args...)
	return err
}

func (s *Session) QueryRow(ctx context.Context, query string, args ...any) rawload.Row {
	return s.conn.QueryRowContext(ctx, query, args...)
}

func (s *Session) Begin(ctx context.Context) (rawload.Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

// EnsureSchema attaches <stem>.<schema><ext> next to the main file as schema.
// An in-memory main database gets an in-memory schema.
func (s *Session) EnsureSchema(ctx context.Context, schema string) error {
	if schema == "main" || schema == "temp" {
		return nil
	}

	var n int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM pragma_database_list WHERE name = ?", schema).Scan(&n); err != nil {
		return fmt.Errorf("failed to list attached databases: %w", err)
	}
	if n > 0 {
		return nil
	}

	file := SchemaPath(s.path, schema)
	if err := s.Exec(ctx, "ATTACH DATABASE ? AS "+Dialect{}.QuoteIdentifier(schema), file); err != nil {
		return fmt.Errorf("failed to attach %s as %s: %w", file, schema, err)
	}
	return nil
}

// SchemaPath returns the file holding schema for the main database at path.
func SchemaPath(path, schema string) string {
	if path == memoryPath || strings.HasPrefix(path, "file::memory:") {
		return memoryPath
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + schema + ext
}

func (s *Session) TableColumns(ctx context.Context, schema, table string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT name FROM pragma_table_info(?, ?) ORDER BY cid", table, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func (s *Session) Close(context.Context) error {
	var errs []error
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
		s.conn = nil
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

type txAdapter struct {
	tx *sql.Tx
}

func (t *txAdapter) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *txAdapter) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t *txAdapter) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
