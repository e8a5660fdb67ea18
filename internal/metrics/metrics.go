// Package metrics records run metrics through a pluggable backend.
//
// The default backend discards everything, so recording is always safe.
// Concrete backends live in subpackages (prompush, datadog) and are
// installed with SetBackend before a run starts.
package metrics

import "time"

// Metric names.
const (
	FilesTotal          = "rawload_files_total"
	FileDurationSeconds = "rawload_file_duration_seconds"
	ChunksTotal         = "rawload_chunks_total"
	RowsTotal           = "rawload_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives counters and observations.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush pushes buffered metrics, if the backend buffers.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs b. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordFile counts one loaded (or failed) file and its duration.
func RecordFile(table string, ok bool, d time.Duration) {
	lbls := Labels{"table": table, "status": status(ok)}
	backend.IncCounter(FilesTotal, 1, lbls)
	backend.ObserveHistogram(FileDurationSeconds, d.Seconds(), lbls)
}

// RecordChunk counts one insert chunk.
func RecordChunk(table string, ok bool) {
	backend.IncCounter(ChunksTotal, 1, Labels{"table": table, "status": status(ok)})
}

// RecordRows adds delta rows of the given kind ("inserted", "failed").
func RecordRows(table, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{"table": table, "kind": kind})
}
