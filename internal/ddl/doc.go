// Package ddl creates target tables from an inferred TargetTable.
//
// Creation is idempotent and never migrates: an existing table with a
// different column set is left untouched and reported as a mismatch.
package ddl
