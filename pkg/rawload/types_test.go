package rawload_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/pkg/rawload"
)

func validConfig() rawload.LoadConfig {
	return rawload.LoadConfig{
		SourceDir:  "./data",
		Connection: rawload.ConnectionConfig{Database: "clinical_trials"},
	}.WithDefaults()
}

func TestLoadConfig_WithDefaults(t *testing.T) {
	cfg := rawload.LoadConfig{SourceDir: "./data"}.WithDefaults()

	assert.Equal(t, "*.csv", cfg.Pattern)
	assert.Equal(t, "raw", cfg.Schema)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, rawload.BackendPostgres, cfg.Backend)
	assert.Equal(t, rawload.DuplicateSuffix, cfg.DuplicatePolicy)
	assert.Equal(t, "postgres", cfg.MaintenanceDatabase)
	assert.Contains(t, cfg.MissingValues, "NA")
	assert.Contains(t, cfg.MissingValues, "")
}

func TestLoadConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := rawload.LoadConfig{
		Schema:        "landing",
		ChunkSize:     50,
		MissingValues: []string{},
	}.WithDefaults()

	assert.Equal(t, "landing", cfg.Schema)
	assert.Equal(t, 50, cfg.ChunkSize)
	assert.Empty(t, cfg.MissingValues, "an explicit empty list disables missing markers")
}

func TestLoadConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*rawload.LoadConfig)
		wantErr error
	}{
		{"valid postgres config", func(*rawload.LoadConfig) {}, nil},
		{
			name: "valid sqlite config",
			mutate: func(c *rawload.LoadConfig) {
				c.Backend = rawload.BackendSQLite
				c.SQLitePath = "raw.db"
				c.Connection = rawload.ConnectionConfig{}
			},
		},
		{"missing source dir", func(c *rawload.LoadConfig) { c.SourceDir = "" }, rawload.ErrInvalidConfig},
		{"zero chunk size", func(c *rawload.LoadConfig) { c.ChunkSize = 0 }, rawload.ErrInvalidConfig},
		{"negative chunk size", func(c *rawload.LoadConfig) { c.ChunkSize = -5 }, rawload.ErrInvalidConfig},
		{"blank schema", func(c *rawload.LoadConfig) { c.Schema = "  " }, rawload.ErrInvalidConfig},
		{"unknown backend", func(c *rawload.LoadConfig) { c.Backend = "oracle" }, rawload.ErrUnsupportedBackend},
		{"postgres without database", func(c *rawload.LoadConfig) { c.Connection.Database = "" }, rawload.ErrInvalidConfig},
		{"sqlite without path", func(c *rawload.LoadConfig) { c.Backend = rawload.BackendSQLite }, rawload.ErrInvalidConfig},
		{
			name: "sqlite with create database",
			mutate: func(c *rawload.LoadConfig) {
				c.Backend = rawload.BackendSQLite
				c.SQLitePath = "raw.db"
				c.CreateDatabase = true
			},
			wantErr: rawload.ErrInvalidConfig,
		},
		{"unknown duplicate policy", func(c *rawload.LoadConfig) { c.DuplicatePolicy = "merge" }, rawload.ErrInvalidConfig},
		{"negative timeout", func(c *rawload.LoadConfig) { c.Timeout = -time.Second }, rawload.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestLoadConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := rawload.LoadConfig{Backend: rawload.BackendPostgres, DuplicatePolicy: rawload.DuplicateSuffix}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SourceDir is required")
	assert.Contains(t, err.Error(), "chunk size must be positive")
	assert.Contains(t, err.Error(), "schema is required")
	assert.Contains(t, err.Error(), "database name is required")
}

func TestColumnType_String(t *testing.T) {
	assert.Equal(t, "INTEGER", rawload.TypeInteger.String())
	assert.Equal(t, "FLOAT", rawload.TypeFloat.String())
	assert.Equal(t, "BOOLEAN", rawload.TypeBoolean.String())
	assert.Equal(t, "TIMESTAMP", rawload.TypeTimestamp.String())
	assert.Equal(t, "TEXT", rawload.TypeText.String())
	assert.Equal(t, "Unknown(42)", rawload.ColumnType(42).String())
	assert.False(t, rawload.ColumnType(42).IsValid())
}

func TestAuthMethod_String(t *testing.T) {
	assert.Equal(t, "Standard", rawload.AuthMethodStandard.String())
	assert.Equal(t, "Azure Entra ID", rawload.AuthMethodAzureEntraID.String())
	assert.True(t, rawload.AuthMethodGoogleIAM.IsValid())
	assert.False(t, rawload.AuthMethod(99).IsValid())
}

func TestDataset_RowsAndRow(t *testing.T) {
	ds := rawload.Dataset{Columns: []rawload.Column{
		{Label: "id", Values: []rawload.Value{rawload.TextValue("1"), rawload.TextValue("2")}},
		{Label: "note", Values: []rawload.Value{rawload.MissingValue(), rawload.TextValue("x")}},
	}}

	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, []rawload.Value{rawload.TextValue("1"), rawload.MissingValue()}, ds.Row(0))
	assert.Equal(t, []string{"id", "note"}, ds.Labels())
	assert.Equal(t, 0, (&rawload.Dataset{}).Rows())
}

func TestInsertReport_Counts(t *testing.T) {
	report := rawload.InsertReport{Chunks: []rawload.ChunkOutcome{
		{Batch: rawload.InsertBatch{Index: 0, Offset: 0, Rows: 1000}},
		{Batch: rawload.InsertBatch{Index: 1, Offset: 1000, Rows: 1000}, Err: errors.New("boom")},
		{Batch: rawload.InsertBatch{Index: 2, Offset: 2000, Rows: 500}},
	}}

	assert.Equal(t, int64(1500), report.Inserted())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, 1, report.Failed()[0].Batch.Index)
}

func TestObservers_FanOut(t *testing.T) {
	var a, b countingObserver
	obs := rawload.Observers{&a, &b, rawload.NopObserver{}}

	obs.FileStarted(rawload.SourceFile{Name: "x.csv"}, "x", 3)
	obs.ChunkDone("x", rawload.ChunkOutcome{})
	obs.FileDone(rawload.FileResult{}, nil)

	assert.Equal(t, 3, a.events)
	assert.Equal(t, 3, b.events)
}

type countingObserver struct{ events int }

func (c *countingObserver) FileStarted(rawload.SourceFile, string, int) { c.events++ }
func (c *countingObserver) ChunkDone(string, rawload.ChunkOutcome)      { c.events++ }
func (c *countingObserver) FileDone(rawload.FileResult, error)          { c.events++ }
