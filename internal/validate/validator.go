package validate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// CountSourceRows returns the number of data records in r: records ending at a
// newline outside double quotes, minus the header. Blank lines are not records
// and a final record without a trailing newline still counts. A carriage
// return is content unless it ends the line.
func CountSourceRows(r io.Reader) (int64, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		records  int64
		inQuotes bool
		content  bool
	)
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count source rows: %w", err)
		}

		switch {
		case b == '"':
			inQuotes = !inQuotes
			content = true
		case b == '\n' && !inQuotes:
			if content {
				records++
			}
			content = false
		case b == '\r' && endsLine(br):
		default:
			content = true
		}
	}
	if content {
		records++
	}

	return max(records-1, 0), nil
}

// endsLine reports whether the next byte is a newline or the input is done.
// encoding/csv drops only a carriage return in that position.
func endsLine(br *bufio.Reader) bool {
	next, err := br.Peek(1)
	return err != nil || next[0] == '\n'
}

// Validator compares loaded row counts against source row counts.
type Validator struct {
	logger rawload.Logger
}

func NewValidator(logger rawload.Logger) *Validator {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Validator{logger: logger}
}

// Validate counts the rows of schema.table. A count different from sourceRows
// returns a *rawload.RowCountMismatchError alongside the failed result.
func (v *Validator) Validate(ctx context.Context, session rawload.Session, sourceRows int64, schema, table string) (rawload.ValidationResult, error) {
	t := rawload.TargetTable{Schema: schema, Name: table}
	result := rawload.ValidationResult{Table: t.QualifiedName(), SourceRows: sourceRows}

	quoted := session.Dialect().QuoteIdentifier(table)
	if schema != "" {
		quoted = session.Dialect().QuoteIdentifier(schema, table)
	}

	if err := session.QueryRow(ctx, "SELECT COUNT(*) FROM "+quoted).Scan(&result.LoadedRows); err != nil {
		return result, fmt.Errorf("failed to count rows in %s: %w", result.Table, err)
	}

	if result.LoadedRows != sourceRows {
		return result, &rawload.RowCountMismatchError{
			Table:      result.Table,
			SourceRows: sourceRows,
			LoadedRows: result.LoadedRows,
		}
	}

	result.Passed = true
	v.logger.Info("✓ Extraction check passed for %s: %d rows", result.Table, result.LoadedRows)
	return result, nil
}
