// Package storage opens the rawload.Session a run loads through.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/vvka-141/rawload/internal/db"
	"github.com/vvka-141/rawload/internal/db/manager"
	"github.com/vvka-141/rawload/internal/storage/postgres"
	"github.com/vvka-141/rawload/internal/storage/sqlite"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// Open connects to the backend selected by cfg. cfg is expected to carry defaults.
func Open(ctx context.Context, cfg rawload.LoadConfig, logger rawload.Logger) (rawload.Session, error) {
	switch cfg.Backend {
	case rawload.BackendPostgres:
		return openPostgres(ctx, cfg, logger)
	case rawload.BackendSQLite:
		logger.Verbose("Opening SQLite database %s", cfg.SQLitePath)
		return sqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, rawload.ErrUnsupportedBackend)
	}
}

// Dialect returns the SQL dialect of backend without connecting.
func Dialect(backend rawload.Backend) (rawload.Dialect, error) {
	switch backend {
	case rawload.BackendPostgres:
		return postgres.Dialect{}, nil
	case rawload.BackendSQLite:
		return sqlite.Dialect{}, nil
	default:
		return nil, fmt.Errorf("backend %q: %w", backend, rawload.ErrUnsupportedBackend)
	}
}

func openPostgres(ctx context.Context, cfg rawload.LoadConfig, logger rawload.Logger) (rawload.Session, error) {
	if cfg.CreateDatabase {
		if err := ensureDatabase(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}

	connConfig := cfg.Connection
	connector, err := db.NewConnector(&connConfig, logger)
	if err != nil {
		return nil, err
	}

	logger.Verbose("Connecting to %s:%d/%s (%s)", connConfig.Host, connConfig.Port, connConfig.Database, connConfig.AuthMethod)
	pool, err := connector.Connect(ctx)
	if err != nil {
		closeConnector(connector)
		return nil, err
	}

	session, err := postgres.NewSession(ctx, pool, func() error { return closeConnector(connector) })
	if err != nil {
		pool.Close()
		closeConnector(connector)
		return nil, err
	}
	return session, nil
}

// ensureDatabase creates the target database through a short-lived
// connection to the maintenance database.
func ensureDatabase(ctx context.Context, cfg rawload.LoadConfig, logger rawload.Logger) error {
	maintConfig := cfg.Connection
	maintConfig.Database = cfg.MaintenanceDatabase

	connector, err := db.NewConnector(&maintConfig, logger)
	if err != nil {
		return err
	}
	defer closeConnector(connector)

	pool, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	created, err := manager.New().EnsureDatabase(ctx, db.NewPoolAdapter(pool), cfg.Connection.Database)
	if err != nil {
		return err
	}
	if created {
		logger.Info("✓ Created database %s", cfg.Connection.Database)
	} else {
		logger.Verbose("Database %s already exists", cfg.Connection.Database)
	}
	return nil
}

func closeConnector(c rawload.Connector) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
