// Package scanner discovers the source files of an extraction run.
//
// Discovery is non-recursive: only regular files directly inside the source
// directory whose names match the glob pattern are returned, in name order.
// Each file is fingerprinted with the checksum package so runs can be traced
// back to the exact content they loaded.
package scanner
