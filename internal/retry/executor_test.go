package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyOperation struct {
	calls     int
	failTimes int
	failWith  error
}

func (f *flakyOperation) run(context.Context) error {
	f.calls++
	if f.calls <= f.failTimes {
		return f.failWith
	}
	return nil
}

func fastExecutor(attempts int) *Executor {
	return NewExecutor(NewPostgreSQLErrorClassifier(),
		NewExponentialBackoff(attempts, WithInitialDelay(time.Millisecond), WithJitter(0)))
}

var transientErr = &pgconn.PgError{Code: "08006", Message: "connection failure"}

func TestExecutor_SucceedsFirstTime(t *testing.T) {
	op := &flakyOperation{}
	require.NoError(t, fastExecutor(3).Execute(context.Background(), op.run))
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_RetriesTransientFailures(t *testing.T) {
	op := &flakyOperation{failTimes: 2, failWith: transientErr}
	require.NoError(t, fastExecutor(3).Execute(context.Background(), op.run))
	assert.Equal(t, 3, op.calls)
}

func TestExecutor_StopsOnFatalError(t *testing.T) {
	fatal := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	op := &flakyOperation{failTimes: 5, failWith: fatal}

	err := fastExecutor(3).Execute(context.Background(), op.run)
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_ExhaustsAttempts(t *testing.T) {
	op := &flakyOperation{failTimes: 10, failWith: transientErr}

	err := fastExecutor(2).Execute(context.Background(), op.run)
	assert.ErrorIs(t, err, transientErr)
	assert.Equal(t, 3, op.calls)
}

func TestExecutor_NoRetries(t *testing.T) {
	op := &flakyOperation{failTimes: 10, failWith: transientErr}

	err := fastExecutor(0).Execute(context.Background(), op.run)
	assert.Error(t, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_ContextCancelledDuringWait(t *testing.T) {
	exec := NewExecutor(NewPostgreSQLErrorClassifier(),
		NewExponentialBackoff(5, WithInitialDelay(time.Hour), WithJitter(0)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	op := &flakyOperation{failTimes: 10, failWith: transientErr}
	err := exec.Execute(ctx, op.run)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	var attempts []int
	base := fastExecutor(3)
	exec := base.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
		assert.ErrorIs(t, err, transientErr)
	})

	op := &flakyOperation{failTimes: 2, failWith: transientErr}
	require.NoError(t, exec.Execute(context.Background(), op.run))
	assert.Equal(t, []int{0, 1}, attempts)
	assert.Nil(t, base.onRetry)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, NewExponentialBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(NewPostgreSQLErrorClassifier(), nil) })
}
