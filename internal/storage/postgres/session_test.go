package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/internal/storage/postgres"
	testhelpers "github.com/vvka-141/rawload/internal/testing"
)

func newSession(t *testing.T) *postgres.Session {
	t.Helper()

	_, _, pool := testhelpers.NewTestDatabase(t)
	s, err := postgres.NewSession(context.Background(), pool, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestSession_SchemaAndColumns(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureSchema(ctx, "raw"))
	require.NoError(t, s.EnsureSchema(ctx, "raw"), "second call must be a no-op")

	cols, err := s.TableColumns(ctx, "raw", "visits")
	require.NoError(t, err)
	assert.Nil(t, cols)

	require.NoError(t, s.Exec(ctx, `CREATE TABLE raw.visits (id TEXT, "visit date" TIMESTAMP, completed BOOLEAN)`))

	cols, err = s.TableColumns(ctx, "raw", "visits")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "visit date", "completed"}, cols)
}

func TestSession_TransactionCommitAndRollback(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Exec(ctx, "CREATE TABLE t (n INTEGER)"))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "INSERT INTO t VALUES ($1), ($2)", 1, 2))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "INSERT INTO t VALUES ($1)", 3))
	require.NoError(t, tx.Rollback(ctx))

	var n int64
	require.NoError(t, s.QueryRow(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
	assert.Equal(t, int64(2), n)
}

func TestSession_CloseRunsHook(t *testing.T) {
	_, _, pool := testhelpers.NewTestDatabase(t)
	hookErr := errors.New("dialer closed")
	calls := 0

	s, err := postgres.NewSession(context.Background(), pool, func() error {
		calls++
		return hookErr
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Close(context.Background()), hookErr)
	assert.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 1, calls)
}
