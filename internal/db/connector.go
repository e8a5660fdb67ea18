package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/rawload/internal/retry"
	"github.com/vvka-141/rawload/pkg/rawload"
)

const (
	// DefaultMaxConns covers the run session plus one connection for database management.
	DefaultMaxConns = 2

	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, appName string) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	if appName == "" {
		appName = rawload.DefaultAppName
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = appName
}

// newRetryExecutor builds the connect retry loop. Retries are reported through logger.
func newRetryExecutor(logger rawload.Logger) *retry.Executor {
	exec := retry.NewExecutor(
		retry.NewPostgreSQLErrorClassifier(),
		retry.NewExponentialBackoff(rawload.DefaultRetryMaxAttempts,
			retry.WithInitialDelay(rawload.DefaultRetryInitialDelay),
			retry.WithMaxDelay(rawload.DefaultRetryMaxDelay),
		),
	)
	return exec.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Warn("connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
	})
}

// openPool parses connStr, creates the pool and pings it once.
func openPool(ctx context.Context, connStr string, config *rawload.ConnectionConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	configurePool(poolConfig, config.AppName)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, config)
	}
	return pool, nil
}

// StandardConnector authenticates with username and password.
type StandardConnector struct {
	config        *rawload.ConnectionConfig
	retryExecutor *retry.Executor
}

var _ rawload.Connector = (*StandardConnector)(nil)

func NewStandardConnector(config *rawload.ConnectionConfig, logger rawload.Logger) *StandardConnector {
	return &StandardConnector{
		config:        config,
		retryExecutor: newRetryExecutor(logger),
	}
}

// Connect opens a pool, retrying transient failures.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = openPool(ctx, connStr, c.config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// NewConnector returns the Connector matching config.AuthMethod.
func NewConnector(config *rawload.ConnectionConfig, logger rawload.Logger) (rawload.Connector, error) {
	switch config.AuthMethod {
	case rawload.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case rawload.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case rawload.AuthMethodGoogleIAM:
		return newGoogleConnector(config)
	case rawload.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, rawload.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError adds a hint for the common failure causes and marks
// the error as a connection failure.
func wrapConnectionError(err error, config *rawload.ConnectionConfig) error {
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var hint string
	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "actively refused"):
		hint = fmt.Sprintf("nothing is listening on %s (check: pg_isready -h %s -p %d)", addr, config.Host, config.Port)
	case strings.Contains(msg, "no such host"):
		hint = fmt.Sprintf("host %q cannot be resolved", config.Host)
	case strings.Contains(msg, "password authentication failed"):
		hint = fmt.Sprintf("credentials for user %q were rejected (check $PGPASSWORD)", config.Username)
	case strings.Contains(msg, "does not exist") && strings.Contains(msg, "database"):
		hint = fmt.Sprintf("database %q does not exist (pass --create-database to create it)", config.Database)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		hint = fmt.Sprintf("no response from %s", addr)
	case strings.Contains(msg, "ssl") || strings.Contains(msg, "tls"):
		hint = "TLS negotiation failed (check --sslmode)"
	case strings.Contains(msg, "too many connections"):
		hint = "the server has no free connection slots"
	default:
		return fmt.Errorf("failed to connect to %s/%s: %w: %w", addr, config.Database, rawload.ErrConnectionFailed, err)
	}
	return fmt.Errorf("failed to connect to %s/%s: %s: %w: %w", addr, config.Database, hint, rawload.ErrConnectionFailed, err)
}

func newAWSConnector(config *rawload.ConnectionConfig, logger rawload.Logger) (rawload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}
	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

func newGoogleConnector(config *rawload.ConnectionConfig) (rawload.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("google cloud sql iam auth requires --google-instance (project:region:instance): %w", rawload.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("google cloud sql iam auth requires a username (-U): %w", rawload.ErrInvalidConfig)
	}
	return NewGoogleCloudSQLConnector(config, config.GoogleInstance), nil
}

// newAzureConnector uses service principal credentials when all three are set,
// otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *rawload.ConnectionConfig, logger rawload.Logger) (rawload.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure token provider: %w", err)
	}
	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
