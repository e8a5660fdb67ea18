package rawload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ColumnType is one of the fixed database column types a source column can map to.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeTimestamp
)

// String returns the SQL type name.
func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeFloat:
		return "FLOAT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeText:
		return "TEXT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// IsValid returns true if the ColumnType is a defined value.
func (t ColumnType) IsValid() bool {
	return t >= TypeText && t <= TypeTimestamp
}

// Value is a single raw cell read from a source file.
// Missing is the explicit missing-value marker; Text is meaningless when it is set.
type Value struct {
	Text    string
	Missing bool
}

// MissingValue returns a Value carrying the missing marker.
func MissingValue() Value {
	return Value{Missing: true}
}

// TextValue returns a present Value.
func TextValue(s string) Value {
	return Value{Text: s}
}

// Column is a named sequence of cells in source header order.
type Column struct {
	Label  string
	Values []Value
}

// SourceFile describes a delimited text file discovered in the source directory.
type SourceFile struct {
	// Path is the absolute path of the file
	Path string

	// Name is the base name including extension
	Name string

	// Size in bytes
	Size int64

	// Checksum is the content fingerprint (xxh3, hex)
	Checksum string
}

// Dataset is an in-memory table read from a SourceFile.
// All columns hold the same number of values.
type Dataset struct {
	Source  SourceFile
	Columns []Column
}

// Rows returns the number of data rows.
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// Row returns the cells of row i across all columns.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.Columns))
	for c := range d.Columns {
		row[c] = d.Columns[c].Values[i]
	}
	return row
}

// Labels returns the original column labels in order.
func (d *Dataset) Labels() []string {
	labels := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		labels[i] = c.Label
	}
	return labels
}

// ColumnSchema pairs a source column label with its database identifier and type.
type ColumnSchema struct {
	Label      string
	Identifier string
	Type       ColumnType

	// Layout is the time layout used to parse TIMESTAMP values.
	Layout string
}

// TargetTable is a table in a schema namespace with its ordered columns.
type TargetTable struct {
	Schema  string
	Name    string
	Columns []ColumnSchema
}

// Identifiers returns the column identifiers in order.
func (t TargetTable) Identifiers() []string {
	ids := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		ids[i] = c.Identifier
	}
	return ids
}

// QualifiedName returns schema.table for log output. Not quoted.
func (t TargetTable) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// InsertBatch is a contiguous slice of dataset rows committed as one unit.
type InsertBatch struct {
	Index  int // zero-based chunk number
	Offset int // first row of the chunk
	Rows   int
}

// End returns the row index just past the chunk.
func (b InsertBatch) End() int {
	return b.Offset + b.Rows
}

// ChunkOutcome records what happened to a single InsertBatch.
type ChunkOutcome struct {
	Batch   InsertBatch
	Err     error
	Skipped bool
}

// Committed reports whether the chunk's rows were committed.
func (o ChunkOutcome) Committed() bool {
	return o.Err == nil && !o.Skipped
}

// InsertReport collects every chunk outcome of one table load.
type InsertReport struct {
	Table  string
	Chunks []ChunkOutcome
}

// Inserted returns the number of committed rows.
func (r InsertReport) Inserted() int64 {
	var n int64
	for _, c := range r.Chunks {
		if c.Committed() {
			n += int64(c.Batch.Rows)
		}
	}
	return n
}

// Failed returns the outcomes that were not committed.
func (r InsertReport) Failed() []ChunkOutcome {
	var failed []ChunkOutcome
	for _, c := range r.Chunks {
		if !c.Committed() {
			failed = append(failed, c)
		}
	}
	return failed
}

// ValidationResult is the comparison of source and loaded row counts.
type ValidationResult struct {
	Table      string
	SourceRows int64
	LoadedRows int64
	Passed     bool
}

// FileResult summarizes the load of one SourceFile.
type FileResult struct {
	Source     SourceFile
	Table      TargetTable
	Created    bool
	Report     InsertReport
	Validation ValidationResult
	Duration   time.Duration
}

// RunSummary summarizes an extraction run.
type RunSummary struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	Files    []FileResult
}

// TotalRows returns the number of rows committed across all files.
func (s *RunSummary) TotalRows() int64 {
	var n int64
	for _, f := range s.Files {
		n += f.Report.Inserted()
	}
	return n
}

// Backend selects the database engine a run loads into.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// IsValid returns true for a supported backend.
func (b Backend) IsValid() bool {
	return b == BackendPostgres || b == BackendSQLite
}

// DuplicatePolicy decides what happens when two column labels normalize to the same identifier.
type DuplicatePolicy string

const (
	// DuplicateSuffix appends _2, _3, ... to later columns.
	DuplicateSuffix DuplicatePolicy = "suffix"

	// DuplicateError fails the file with a DuplicateIdentifierError.
	DuplicateError DuplicatePolicy = "error"
)

// IsValid returns true for a known policy.
func (p DuplicatePolicy) IsValid() bool {
	return p == DuplicateSuffix || p == DuplicateError
}

// LoadConfig contains all parameters needed for an extraction run.
type LoadConfig struct {
	// SourceDir is the directory scanned for source files
	SourceDir string

	// Pattern is the glob matched against file names in SourceDir
	Pattern string

	// Schema is the namespace tables are created in
	Schema string

	// ChunkSize is the number of rows per insert transaction
	ChunkSize int

	// Backend selects the database engine
	Backend Backend

	// Connection is used by the postgres backend
	Connection ConnectionConfig

	// SQLitePath is the database file used by the sqlite backend
	SQLitePath string

	// DuplicatePolicy resolves colliding column identifiers
	DuplicatePolicy DuplicatePolicy

	// MissingValues are the cell strings read as the missing marker.
	// Nil means DefaultMissingValues.
	MissingValues []string

	// AtomicFile loads each file in a single transaction instead of per chunk
	AtomicFile bool

	// CreateDatabase creates the target database first if it does not exist (postgres only)
	CreateDatabase bool

	// MaintenanceDatabase is connected to for CREATE DATABASE
	MaintenanceDatabase string

	// Timeout bounds the whole run; zero disables it
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// WithDefaults returns a copy with empty fields set to their defaults.
func (c LoadConfig) WithDefaults() LoadConfig {
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Backend == "" {
		c.Backend = BackendPostgres
	}
	if c.DuplicatePolicy == "" {
		c.DuplicatePolicy = DuplicateSuffix
	}
	if c.MissingValues == nil {
		c.MissingValues = DefaultMissingValues()
	}
	if c.MaintenanceDatabase == "" {
		c.MaintenanceDatabase = DefaultManagementDB
	}
	return c
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.SourceDir == "" {
		errs = append(errs, fmt.Errorf("SourceDir is required: %w", ErrInvalidConfig))
	}

	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d: %w", c.ChunkSize, ErrInvalidConfig))
	}

	if strings.TrimSpace(c.Schema) == "" {
		errs = append(errs, fmt.Errorf("schema is required: %w", ErrInvalidConfig))
	}

	if !c.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("backend %q: %w", c.Backend, ErrUnsupportedBackend))
	}

	if c.Backend == BackendPostgres && c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required for the postgres backend: %w", ErrInvalidConfig))
	}

	if c.Backend == BackendSQLite && c.SQLitePath == "" {
		errs = append(errs, fmt.Errorf("sqlite path is required for the sqlite backend: %w", ErrInvalidConfig))
	}

	if c.Backend == BackendSQLite && c.CreateDatabase {
		errs = append(errs, fmt.Errorf("create database is only supported by the postgres backend: %w", ErrInvalidConfig))
	}

	if !c.DuplicatePolicy.IsValid() {
		errs = append(errs, fmt.Errorf("unknown duplicate column policy %q: %w", c.DuplicatePolicy, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// Otherwise the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
