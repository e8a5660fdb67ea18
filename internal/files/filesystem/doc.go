// Package filesystem abstracts access to source directories so discovery and
// loading can run against the OS or an in-memory tree in tests.
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for testing
package filesystem
