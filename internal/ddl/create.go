package ddl

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// BuildCreateTable renders CREATE TABLE IF NOT EXISTS for t with every identifier
// quoted by d. Columns keep their order in t.
func BuildCreateTable(d rawload.Dialect, t rawload.TargetTable) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", t.QualifiedName())
	}

	cols := make([]string, 0, len(t.Columns))
	for i, c := range t.Columns {
		if c.Identifier == "" {
			return "", fmt.Errorf("ddl: column %d of table %s has an empty identifier", i+1, t.QualifiedName())
		}
		if !c.Type.IsValid() {
			return "", fmt.Errorf("ddl: column %s has unknown type %s", c.Identifier, c.Type)
		}
		cols = append(cols, d.QuoteIdentifier(c.Identifier)+" "+d.TypeName(c.Type))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		qualified(d, t), strings.Join(cols, ",\n  ")), nil
}

func qualified(d rawload.Dialect, t rawload.TargetTable) string {
	if t.Schema == "" {
		return d.QuoteIdentifier(t.Name)
	}
	return d.QuoteIdentifier(t.Schema, t.Name)
}

// EnsureOutcome reports what Ensure found.
type EnsureOutcome int

const (
	Created EnsureOutcome = iota
	Existed
	Mismatch // table existed with a different column list
)

func (o EnsureOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case Existed:
		return "existed"
	case Mismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// Creator ensures target tables exist.
type Creator struct {
	logger rawload.Logger
}

func NewCreator(logger rawload.Logger) *Creator {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Creator{logger: logger}
}

// Ensure creates the schema namespace and the table when absent.
// Calling it again for the same table is a no-op.
func (c *Creator) Ensure(ctx context.Context, session rawload.Session, t rawload.TargetTable) (EnsureOutcome, error) {
	stmt, err := BuildCreateTable(session.Dialect(), t)
	if err != nil {
		return 0, err
	}

	if t.Schema != "" {
		if err := session.EnsureSchema(ctx, t.Schema); err != nil {
			return 0, fmt.Errorf("failed to ensure schema %s: %w", t.Schema, err)
		}
	}

	existing, err := session.TableColumns(ctx, t.Schema, t.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect table %s: %w", t.QualifiedName(), err)
	}

	c.logger.Verbose("Executing:\n%s", stmt)
	if err := session.Exec(ctx, stmt); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", t.QualifiedName(), err)
	}

	switch {
	case existing == nil:
		c.logger.Verbose("Created table %s", t.QualifiedName())
		return Created, nil
	case slices.Equal(existing, t.Identifiers()):
		c.logger.Verbose("Table %s already exists", t.QualifiedName())
		return Existed, nil
	default:
		c.logger.Warn("Table %s already exists with columns (%s), not (%s); it is left unchanged",
			t.QualifiedName(), strings.Join(existing, ", "), strings.Join(t.Identifiers(), ", "))
		return Mismatch, nil
	}
}
