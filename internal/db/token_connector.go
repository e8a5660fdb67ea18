package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/rawload/internal/retry"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// tokenExpiryWarning is the remaining lifetime below which a token is reported.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector uses a short-lived cloud token as the PostgreSQL password.
// A fresh token is fetched for every attempt.
type TokenBasedConnector struct {
	config        *rawload.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        rawload.Logger
}

var _ rawload.Connector = (*TokenBasedConnector)(nil)

func NewTokenBasedConnector(config *rawload.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger rawload.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: newRetryExecutor(logger),
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}
		if left := time.Until(expiresOn); left < tokenExpiryWarning {
			c.logger.Warn("%s token expires in %v", c.providerName, left.Round(time.Second))
		}
		c.logger.Verbose("Acquired token from %s", c.tokenProvider)

		withToken := *c.config
		withToken.Password = token

		pool, err = openPool(ctx, BuildConnectionString(&withToken), c.config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}
