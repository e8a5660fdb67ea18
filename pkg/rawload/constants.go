package rawload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Run completed and every table validated
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitConnectionError  = 11 // Failed to connect to database
	ExitNoSourceFiles    = 12 // Source directory holds no matching files
	ExitSchemaError      = 13 // A file could not be mapped to a table (identifiers, empty file)
	ExitInsertFailed     = 14 // One or more insert chunks failed
	ExitValidationFailed = 15 // Loaded row count differs from source row count
)

const (
	// DefaultChunkSize is the number of rows per insert transaction.
	DefaultChunkSize = 1000

	// DefaultSchema is the namespace source tables are created in.
	DefaultSchema = "raw"

	// DefaultPattern matches the files loaded from the source directory.
	DefaultPattern = "*.csv"

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultManagementDB is the database connected to for CREATE DATABASE.
	DefaultManagementDB = "postgres"

	// DefaultAppName is reported to the server as application_name.
	DefaultAppName = "rawload"

	// MaxIdentifierLength is the longest identifier PostgreSQL keeps (NAMEDATALEN-1).
	MaxIdentifierLength = 63
)

// DefaultMissingValues returns the cell strings read as missing by default.
// The set matches the NA strings recognised by common dataframe CSV readers.
func DefaultMissingValues() []string {
	return []string{
		"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
		"n/a", "nan", "null",
	}
}
