package validate

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/internal/files/filesystem"
	"github.com/vvka-141/rawload/internal/files/loader"
	"github.com/vvka-141/rawload/internal/logging"
	"github.com/vvka-141/rawload/internal/storage/sqlite"
	"github.com/vvka-141/rawload/pkg/rawload"
)

func TestCountSourceRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"three rows", "id,name\n1,a\n2,b\n3,c\n", 3},
		{"no trailing newline", "id,name\n1,a\n2,b", 2},
		{"crlf", "id,name\r\n1,a\r\n2,b\r\n", 2},
		{"header only", "id,name\n", 0},
		{"empty", "", 0},
		{"blank lines ignored", "id\n\n1\n\r\n2\n\n", 2},
		{"quoted newline", "id,note\n1,\"line one\nline two\"\n2,x\n", 2},
		{"escaped quotes", "id,note\n1,\"say \"\"hi\"\"\nbye\"\n", 1},
		{"whitespace row counts", "id\n   \n", 1},
		{"double-CR blank line", "id,name\r\r\n1,a\r\r\n\r\r\n2,b\r\r\n", 3},
		{"lone CR line", "x,y,z\n\r\r\n", 1},
		{"CR before EOF dropped", "id\n1\r", 1},
		{"CR only before EOF", "id\n\r", 0},
		{"CR inside a field", "id,name\n1,a\rb\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountSourceRows(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountSourceRows_AgreesWithLoader(t *testing.T) {
	inputs := []string{
		"id,name\n1,a\n2,b\n",
		"id,name\r\n1,a\r\n\r\n2,b\r\n",
		"id,name\r\r\n1,a\r\r\n\r\r\n2,b\r\r\n",
		"x,y,z\n\r\r\n",
		"x,y,z\n\r\n\r\r\r\n",
		"id\n\r",
		"id\n1\r",
		"id\n1\r\r",
		"id\n\n\n1\n",
		"id,note\n1,\"a\r\nb\"\r\n\r\n",
		"id,note\n1,\"\"\n",
	}
	for _, input := range inputs {
		t.Run(strconv.Quote(input), func(t *testing.T) {
			mfs := filesystem.NewMemoryFileSystem("/data")
			mfs.AddFile("v.csv", input)
			ds, err := loader.NewLoader(mfs, nil).Load(rawload.SourceFile{Path: "/data/v.csv", Name: "v.csv"})
			require.NoError(t, err)

			counted, err := CountSourceRows(strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, int64(ds.Rows()), counted)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestCountSourceRows_ReadError(t *testing.T) {
	_, err := CountSourceRows(failingReader{})
	assert.ErrorContains(t, err, "disk gone")
}

func setup(t *testing.T, rows int) rawload.Session {
	t.Helper()
	ctx := context.Background()

	s, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "w.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(ctx) })

	require.NoError(t, s.EnsureSchema(ctx, "raw"))
	require.NoError(t, s.Exec(ctx, `CREATE TABLE "raw"."t" ("n" INTEGER)`))
	for i := range rows {
		require.NoError(t, s.Exec(ctx, `INSERT INTO "raw"."t" VALUES (?)`, i))
	}
	return s
}

func TestValidate_Pass(t *testing.T) {
	s := setup(t, 3)
	logger := logging.NewRecordingLogger()

	result, err := NewValidator(logger).Validate(context.Background(), s, 3, "raw", "t")
	require.NoError(t, err)
	assert.Equal(t, rawload.ValidationResult{Table: "raw.t", SourceRows: 3, LoadedRows: 3, Passed: true}, result)
	assert.Equal(t, []string{"✓ Extraction check passed for raw.t: 3 rows"}, logger.Infos)
}

func TestValidate_EmptyTablePasses(t *testing.T) {
	s := setup(t, 0)

	result, err := NewValidator(logging.NewNullLogger()).Validate(context.Background(), s, 0, "raw", "t")
	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestValidate_Mismatch(t *testing.T) {
	s := setup(t, 2)

	result, err := NewValidator(logging.NewNullLogger()).Validate(context.Background(), s, 3, "raw", "t")

	var mismatch *rawload.RowCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.ErrorIs(t, err, rawload.ErrRowCountMismatch)
	assert.Equal(t, int64(3), mismatch.SourceRows)
	assert.Equal(t, int64(2), mismatch.LoadedRows)
	assert.False(t, result.Passed)
}

func TestValidate_MissingTable(t *testing.T) {
	s := setup(t, 0)

	_, err := NewValidator(logging.NewNullLogger()).Validate(context.Background(), s, 0, "raw", "absent")
	require.Error(t, err)
	assert.NotErrorIs(t, err, rawload.ErrRowCountMismatch)
}

func TestNewValidator_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { NewValidator(nil) })
}
