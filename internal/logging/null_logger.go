package logging

import (
	"fmt"
	"sync"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// NullLogger discards all messages.
type NullLogger struct{}

var _ rawload.Logger = (*NullLogger)(nil)

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}
func (l *NullLogger) Info(format string, args ...interface{})    {}
func (l *NullLogger) Warn(format string, args ...interface{})    {}
func (l *NullLogger) Error(format string, args ...interface{})   {}

// RecordingLogger stores messages by level.
type RecordingLogger struct {
	mu       sync.Mutex
	Verboses []string
	Infos    []string
	Warns    []string
	Errors   []string
}

var _ rawload.Logger = (*RecordingLogger)(nil)

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.record(&l.Verboses, format, args)
}

func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.record(&l.Infos, format, args)
}

func (l *RecordingLogger) Warn(format string, args ...interface{}) {
	l.record(&l.Warns, format, args)
}

func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.record(&l.Errors, format, args)
}

func (l *RecordingLogger) record(dst *[]string, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}
