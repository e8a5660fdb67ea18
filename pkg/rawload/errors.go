package rawload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := svc.Extract(ctx, cfg)
//	if errors.Is(err, rawload.ErrRowCountMismatch) {
//	    // a table lost rows; downstream stages must not run
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoSourceFiles indicates the source directory holds no matching files.
	ErrNoSourceFiles = errors.New("no source files found")

	// ErrEmptySource indicates a source file has no header row.
	ErrEmptySource = errors.New("source file is empty")

	// ErrMalformedSource indicates a source file could not be parsed as delimited text.
	ErrMalformedSource = errors.New("malformed source file")

	// ErrEmptyIdentifier indicates a label normalized to nothing.
	ErrEmptyIdentifier = errors.New("identifier is empty after normalization")

	// ErrDuplicateIdentifier indicates two labels normalized to the same identifier.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrInsertChunk indicates at least one insert chunk failed.
	ErrInsertChunk = errors.New("insert chunk failed")

	// ErrRowCountMismatch indicates loaded and source row counts differ.
	ErrRowCountMismatch = errors.New("row count mismatch")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrUnsupportedBackend indicates an unknown database backend.
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// DuplicateIdentifierError reports two column labels that collide after normalization.
type DuplicateIdentifierError struct {
	Identifier string
	First      string
	Second     string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("columns %q and %q both normalize to %q", e.First, e.Second, e.Identifier)
}

func (e *DuplicateIdentifierError) Unwrap() error { return ErrDuplicateIdentifier }

// InsertChunkError aggregates every chunk that was not committed while loading a table.
type InsertChunkError struct {
	Table  string
	Total  int
	Failed []ChunkOutcome
}

func (e *InsertChunkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d chunks failed for table %s", len(e.Failed), e.Total, e.Table)
	for _, f := range e.Failed {
		fmt.Fprintf(&b, "\n  chunk %d (rows %d-%d): ", f.Batch.Index, f.Batch.Offset, f.Batch.End()-1)
		if f.Skipped {
			b.WriteString("skipped")
		} else {
			b.WriteString(f.Err.Error())
		}
	}
	return b.String()
}

func (e *InsertChunkError) Unwrap() error { return ErrInsertChunk }

// RowCountMismatchError reports a table whose loaded row count differs from its source.
type RowCountMismatchError struct {
	Table      string
	SourceRows int64
	LoadedRows int64
}

func (e *RowCountMismatchError) Error() string {
	return fmt.Sprintf("extraction check failed for table %s: %d rows in database != %d rows in source",
		e.Table, e.LoadedRows, e.SourceRows)
}

func (e *RowCountMismatchError) Unwrap() error { return ErrRowCountMismatch }

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrUnsupportedAuthMethod),
		errors.Is(err, ErrUnsupportedBackend):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrNoSourceFiles):
		return ExitNoSourceFiles
	case errors.Is(err, ErrEmptyIdentifier),
		errors.Is(err, ErrDuplicateIdentifier),
		errors.Is(err, ErrEmptySource):
		return ExitSchemaError
	case errors.Is(err, ErrInsertChunk):
		return ExitInsertFailed
	case errors.Is(err, ErrRowCountMismatch):
		return ExitValidationFailed
	}

	errStr := err.Error()
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// isUsageError matches the messages cobra returns for bad arguments and flags.
func isUsageError(msg string) bool {
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "invalid argument", "required flag"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return strings.HasPrefix(msg, "accepts ") && strings.Contains(msg, "arg(s)")
}
