package insert

import (
	"strings"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// BuildInsert renders a parameterized multi-row INSERT for rows rows of t.
func BuildInsert(d rawload.Dialect, t rawload.TargetTable, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	if t.Schema != "" {
		b.WriteString(d.QuoteIdentifier(t.Schema, t.Name))
	} else {
		b.WriteString(d.QuoteIdentifier(t.Name))
	}

	b.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.QuoteIdentifier(c.Identifier))
	}
	b.WriteString(") VALUES ")

	n := 0
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range t.Columns {
			if c > 0 {
				b.WriteString(", ")
			}
			n++
			b.WriteString(d.Placeholder(n))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// rowsPerStatement is the most rows one statement can carry under the
// dialect's bind parameter limit.
func rowsPerStatement(d rawload.Dialect, columns int) int {
	if columns <= 0 {
		return 1
	}
	return max(1, d.MaxBindParams()/columns)
}
