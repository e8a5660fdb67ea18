package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/rawload/pkg/rawload"
)

const (
	queryDatabaseExists = "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"

	// pgCodeDuplicateDatabase is raised when another client created the database first.
	pgCodeDuplicateDatabase = "42P04"
)

// Manager creates the target database through a connection to the maintenance database.
// Stateless; concurrency safety is that of the DBConnection passed in.
type Manager struct{}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) Exists(ctx context.Context, conn rawload.DBConnection, dbName string) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check whether database %q exists: %w", dbName, err)
	}
	return exists, nil
}

func (m *Manager) Create(ctx context.Context, conn rawload.DBConnection, dbName string) error {
	if dbName == "" {
		return fmt.Errorf("database name is empty: %w", rawload.ErrInvalidConfig)
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create database %q: %w", dbName, err)
	}
	return nil
}

// EnsureDatabase creates dbName unless it exists and reports whether it did.
// Losing a creation race to another client counts as "already existed".
func (m *Manager) EnsureDatabase(ctx context.Context, conn rawload.DBConnection, dbName string) (bool, error) {
	exists, err := m.Exists(ctx, conn, dbName)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = m.Create(ctx, conn, dbName)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCodeDuplicateDatabase {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
