package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/rawload/pkg/rawload"
)

const queryTableColumns = `
	SELECT column_name
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = $2
	ORDER BY ordinal_position`

// Session runs every statement of an extraction on one pooled connection.
type Session struct {
	pool    *pgxpool.Pool
	conn    *pgxpool.Conn
	onClose func() error
}

var _ rawload.Session = (*Session)(nil)

// NewSession acquires a connection from pool. The session owns the pool and
// closes it in Close, after which onClose (if any) runs.
func NewSession(ctx context.Context, pool *pgxpool.Pool, onClose func() error) (*Session, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w: %w", rawload.ErrConnectionFailed, err)
	}
	return &Session{pool: pool, conn: conn, onClose: onClose}, nil
}

func (s *Session) Dialect() rawload.Dialect { return Dialect{} }

func (s *Session) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := s.conn.Exec(ctx, sql, args...)
	return err
}

func (s *Session) QueryRow(ctx context.Context, sql string, args ...any) rawload.Row {
	return s.conn.QueryRow(ctx, sql, args...)
}

func (s *Session) Begin(ctx context.Context) (rawload.Tx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

func (s *Session) EnsureSchema(ctx context.Context, schema string) error {
	return s.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+Dialect{}.QuoteIdentifier(schema))
}

func (s *Session) TableColumns(ctx context.Context, schema, table string) ([]string, error) {
	rows, err := s.conn.Query(ctx, queryTableColumns, schema, table)
	if err != nil {
		return nil, err
	}
	cols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}
	return cols, nil
}

// Close releases the connection, closes the pool and runs the close hook.
func (s *Session) Close(context.Context) error {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}
	s.pool.Close()
	if hook := s.onClose; hook != nil {
		s.onClose = nil
		return hook()
	}
	return nil
}

type txAdapter struct {
	tx pgx.Tx
}

func (t *txAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := t.tx.Exec(ctx, sql, args...)
	return err
}

func (t *txAdapter) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *txAdapter) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
