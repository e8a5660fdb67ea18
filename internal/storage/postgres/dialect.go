package postgres

import (
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// maxBindParams is the wire protocol limit on parameters per statement.
const maxBindParams = 65535

// Dialect renders PostgreSQL SQL.
type Dialect struct{}

var _ rawload.Dialect = Dialect{}

func (Dialect) Name() string { return "postgres" }

func (Dialect) QuoteIdentifier(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

func (Dialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// TypeName uses the portable names; FLOAT is double precision in PostgreSQL.
func (Dialect) TypeName(t rawload.ColumnType) string { return t.String() }

func (Dialect) MaxBindParams() int { return maxBindParams }
