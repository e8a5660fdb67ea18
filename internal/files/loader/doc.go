// Package loader reads delimited source files into in-memory datasets.
//
// A dataset keeps every cell as raw text in header order. Cells that match
// the configured missing-value strings are replaced by the explicit missing
// marker, so type inference and insertion never have to guess about them.
//
// The delimiter is chosen from the file extension: tab for .tsv, pipe for
// .psv, comma for everything else.
package loader
