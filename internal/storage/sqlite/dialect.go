package sqlite

import (
	"strings"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// maxBindParams is SQLITE_MAX_VARIABLE_NUMBER for SQLite 3.32 and later.
const maxBindParams = 32766

// Dialect renders SQLite SQL. Schemas map to attached databases.
type Dialect struct{}

var _ rawload.Dialect = Dialect{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) QuoteIdentifier(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ".")
}

func (Dialect) Placeholder(int) string { return "?" }

// TypeName keeps the declared names; SQLite derives column affinity from them.
func (Dialect) TypeName(t rawload.ColumnType) string { return t.String() }

func (Dialect) MaxBindParams() int { return maxBindParams }
