package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/internal/files/filesystem"
	"github.com/vvka-141/rawload/internal/logging"
	"github.com/vvka-141/rawload/internal/services"
	"github.com/vvka-141/rawload/internal/storage"
	"github.com/vvka-141/rawload/pkg/rawload"
)

func newMemoryService(files map[string]string) *services.ExtractionService {
	fs := filesystem.NewMemoryFileSystem("/data")
	for name, content := range files {
		fs.AddFile(name, content)
	}
	return services.NewExtractionService(storage.Open, fs, logging.NewNullLogger(), nil)
}

func TestPlan(t *testing.T) {
	svc := newMemoryService(map[string]string{
		"Sales-2024.csv": "Order ID,Amount,Café\n1,9.99,yes\n2,NA,no\n",
		"2nd file.csv":   "a\n",
	})

	plans, err := svc.Plan(rawload.LoadConfig{SourceDir: "/data"})
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, "raw.t_2nd_file", plans[0].Table.QualifiedName())
	assert.Zero(t, plans[0].Rows)

	sales := plans[1]
	assert.Equal(t, "raw.sales_2024", sales.Table.QualifiedName())
	assert.Equal(t, 2, sales.Rows)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS \"raw\".\"sales_2024\" (\n"+
		"  \"order_id\" INTEGER,\n"+
		"  \"amount\" FLOAT,\n"+
		"  \"cafe\" BOOLEAN\n"+
		")", sales.DDL)
}

func TestPlan_Errors(t *testing.T) {
	svc := newMemoryService(map[string]string{"a.csv": "x\n1\n"})

	_, err := svc.Plan(rawload.LoadConfig{})
	assert.ErrorIs(t, err, rawload.ErrInvalidConfig)

	_, err = svc.Plan(rawload.LoadConfig{SourceDir: "/data", Backend: "oracle"})
	assert.ErrorIs(t, err, rawload.ErrUnsupportedBackend)

	_, err = svc.Plan(rawload.LoadConfig{SourceDir: "/data", Pattern: "*.tsv"})
	assert.ErrorIs(t, err, rawload.ErrNoSourceFiles)

	_, err = newMemoryService(map[string]string{"bad.csv": ""}).Plan(rawload.LoadConfig{SourceDir: "/data"})
	assert.ErrorIs(t, err, rawload.ErrEmptySource)
}

func TestDescribeTable(t *testing.T) {
	ds := &rawload.Dataset{
		Source: rawload.SourceFile{Name: "Patient Visits.csv"},
		Columns: []rawload.Column{
			{Label: "Visit Date", Values: []rawload.Value{rawload.TextValue("15/01/2024"), rawload.MissingValue()}},
			{Label: "", Values: []rawload.Value{rawload.TextValue("x"), rawload.TextValue("y")}},
		},
	}

	table, err := services.DescribeTable(ds, "raw", rawload.DuplicateSuffix)
	require.NoError(t, err)
	assert.Equal(t, "patient_visits", table.Name)
	assert.Equal(t, rawload.ColumnSchema{Label: "Visit Date", Identifier: "visit_date", Type: rawload.TypeTimestamp, Layout: "02/01/2006"}, table.Columns[0])
	assert.Equal(t, "unnamed_1", table.Columns[1].Identifier)

	ds.Source.Name = "!!!.csv"
	_, err = services.DescribeTable(ds, "raw", rawload.DuplicateSuffix)
	assert.ErrorIs(t, err, rawload.ErrEmptyIdentifier)
}
