// Package naming turns file names and column labels into safe SQL identifiers.
//
// Normalization is deterministic and idempotent:
//  1. Strip a delimited-data file extension (.csv, .tsv, .txt, .psv, .dat)
//  2. Lowercase
//  3. Fold accents (é → e)
//  4. Collapse runs of whitespace and hyphens into a single underscore
//  5. Drop anything outside [a-z0-9_]
//  6. Prefix t_ when the result does not start with a letter or underscore
//  7. Truncate to 63 bytes
//
// A label with nothing left after step 5 is rejected with rawload.ErrEmptyIdentifier.
//
// # Example Usage
//
//	table, err := naming.TableName("/data/Patient Visits.csv") // "patient_visits"
//	cols, err := naming.Columns([]string{"ID", "Visit Date"}, rawload.DuplicateSuffix)
package naming
