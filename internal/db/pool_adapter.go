package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// PoolAdapter exposes a *pgxpool.Pool as a rawload.DBConnection.
// Safe for concurrent use.
type PoolAdapter struct {
	pool *pgxpool.Pool
}

var _ rawload.DBConnection = (*PoolAdapter)(nil)

func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) rawload.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}
