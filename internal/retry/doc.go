// Package retry retries connection establishment with exponential backoff.
//
// An Executor runs an operation, asks an ErrorClassifier whether a failure is
// transient, and waits according to a BackoffStrategy before the next attempt.
// Two classifiers are provided: one for PostgreSQL servers reached through pgx
// and one for SQLite database files that are briefly locked by another process.
//
//	exec := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// Statement execution is never retried: a failed insert chunk is reported, not replayed.
package retry
