package ddl_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/internal/ddl"
	"github.com/vvka-141/rawload/internal/logging"
	"github.com/vvka-141/rawload/internal/storage/postgres"
	"github.com/vvka-141/rawload/internal/storage/sqlite"
	"github.com/vvka-141/rawload/pkg/rawload"
)

func visits() rawload.TargetTable {
	return rawload.TargetTable{
		Schema: "raw",
		Name:   "patient_visits",
		Columns: []rawload.ColumnSchema{
			{Label: "ID", Identifier: "id", Type: rawload.TypeText},
			{Label: "Visit Date", Identifier: "visit_date", Type: rawload.TypeTimestamp},
			{Label: "Completed", Identifier: "completed", Type: rawload.TypeBoolean},
		},
	}
}

func TestBuildCreateTable(t *testing.T) {
	stmt, err := ddl.BuildCreateTable(postgres.Dialect{}, visits())
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS \"raw\".\"patient_visits\" (\n"+
		"  \"id\" TEXT,\n"+
		"  \"visit_date\" TIMESTAMP,\n"+
		"  \"completed\" BOOLEAN\n"+
		")", stmt)
}

func TestBuildCreateTable_QuotesHostileIdentifiers(t *testing.T) {
	table := rawload.TargetTable{
		Name:    `x"); DROP TABLE users; --`,
		Columns: []rawload.ColumnSchema{{Identifier: `a"b`, Type: rawload.TypeInteger}},
	}
	stmt, err := ddl.BuildCreateTable(sqlite.Dialect{}, table)
	require.NoError(t, err)
	assert.Contains(t, stmt, `"x""); DROP TABLE users; --"`)
	assert.Contains(t, stmt, `"a""b" INTEGER`)
}

func TestBuildCreateTable_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		table rawload.TargetTable
	}{
		{"empty name", rawload.TargetTable{Columns: visits().Columns}},
		{"no columns", rawload.TargetTable{Name: "t"}},
		{"empty identifier", rawload.TargetTable{Name: "t", Columns: []rawload.ColumnSchema{{Type: rawload.TypeText}}}},
		{"bad type", rawload.TargetTable{Name: "t", Columns: []rawload.ColumnSchema{{Identifier: "a", Type: rawload.ColumnType(99)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ddl.BuildCreateTable(postgres.Dialect{}, tt.table)
			assert.Error(t, err)
		})
	}
}

func openSQLite(t *testing.T) rawload.Session {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "w.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestCreator_EnsureIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	creator := ddl.NewCreator(logging.NewNullLogger())

	outcome, err := creator.Ensure(ctx, s, visits())
	require.NoError(t, err)
	assert.Equal(t, ddl.Created, outcome)

	outcome, err = creator.Ensure(ctx, s, visits())
	require.NoError(t, err)
	assert.Equal(t, ddl.Existed, outcome)

	var tables int
	require.NoError(t, s.QueryRow(ctx,
		`SELECT COUNT(*) FROM "raw".sqlite_master WHERE type = 'table' AND name = 'patient_visits'`).Scan(&tables))
	assert.Equal(t, 1, tables)

	cols, err := s.TableColumns(ctx, "raw", "patient_visits")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "visit_date", "completed"}, cols)
}

func TestCreator_MismatchWarnsAndKeepsTable(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	logger := logging.NewRecordingLogger()
	creator := ddl.NewCreator(logger)

	_, err := creator.Ensure(ctx, s, visits())
	require.NoError(t, err)

	changed := visits()
	changed.Columns = append(changed.Columns, rawload.ColumnSchema{Identifier: "notes", Type: rawload.TypeText})

	outcome, err := creator.Ensure(ctx, s, changed)
	require.NoError(t, err)
	assert.Equal(t, ddl.Mismatch, outcome)
	require.Len(t, logger.Warns, 1)
	assert.Contains(t, logger.Warns[0], "raw.patient_visits")

	cols, err := s.TableColumns(ctx, "raw", "patient_visits")
	require.NoError(t, err)
	assert.NotContains(t, cols, "notes")
}

func TestEnsureOutcome_String(t *testing.T) {
	assert.Equal(t, "created", ddl.Created.String())
	assert.Equal(t, "existed", ddl.Existed.String())
	assert.Equal(t, "mismatch", ddl.Mismatch.String())
}

func TestNewCreator_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { ddl.NewCreator(nil) })
}
