// Package validate checks that a loaded table holds exactly as many rows as its source file.
//
// The source count is taken from the raw bytes, independently of the CSV
// reader that produced the loaded rows.
package validate
