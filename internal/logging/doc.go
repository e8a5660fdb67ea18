// Package logging provides the rawload.Logger implementations.
//
//   - ConsoleLogger prefixes each line with its level and writes it to stderr,
//     an arbitrary writer, or a line sink such as a terminal UI's print function.
//   - NullLogger discards everything.
//   - RecordingLogger keeps every line in memory for assertions in tests.
//
// All loggers are safe for concurrent use.
package logging
