package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// ConsoleLogger writes one line per message. Verbose lines are dropped unless enabled.
type ConsoleLogger struct {
	verbose bool
	mu      sync.Mutex
	sink    func(line string)
}

var _ rawload.Logger = (*ConsoleLogger)(nil)

// NewConsoleLogger writes to stderr.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewWriterLogger(os.Stderr, verbose)
}

// NewWriterLogger writes to w.
func NewWriterLogger(w io.Writer, verbose bool) *ConsoleLogger {
	return NewSinkLogger(verbose, func(line string) {
		fmt.Fprintln(w, line)
	})
}

// NewSinkLogger hands each formatted line, without a trailing newline, to sink.
func NewSinkLogger(verbose bool, sink func(line string)) *ConsoleLogger {
	return &ConsoleLogger{verbose: verbose, sink: sink}
}

func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if l.verbose {
		l.emit("[VERBOSE] ", format, args)
	}
}

func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.emit("", format, args)
}

func (l *ConsoleLogger) Warn(format string, args ...interface{}) {
	l.emit("[WARN] ", format, args)
}

func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.emit("[ERROR] ", format, args)
}

func (l *ConsoleLogger) emit(prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	msg = strings.TrimSuffix(msg, "\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink(prefix + msg)
}
