package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/pkg/rawload"
)

type call struct {
	name   string
	value  float64
	labels Labels
}

// fakeBackend records every call.
type fakeBackend struct {
	mu         sync.Mutex
	counters   []call
	histograms []call
	flushes    int
	flushErr   error
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, call{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, call{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.flushes++
	return f.flushErr
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	SetBackend(fb)
	t.Cleanup(func() { SetBackend(nil) })
	return fb
}

func TestRecordFile(t *testing.T) {
	fb := install(t)

	RecordFile("raw.a", true, 1500*time.Millisecond)
	RecordFile("raw.b", false, time.Second)

	require.Len(t, fb.counters, 2)
	assert.Equal(t, call{FilesTotal, 1, Labels{"table": "raw.a", "status": "success"}}, fb.counters[0])
	assert.Equal(t, "failure", fb.counters[1].labels["status"])
	require.Len(t, fb.histograms, 2)
	assert.InDelta(t, 1.5, fb.histograms[0].value, 1e-9)
}

func TestRecordRows_IgnoresNonPositive(t *testing.T) {
	fb := install(t)

	RecordRows("raw.a", "inserted", 0)
	RecordRows("raw.a", "inserted", -3)
	RecordRows("raw.a", "inserted", 7)

	require.Len(t, fb.counters, 1)
	assert.Equal(t, float64(7), fb.counters[0].value)
}

func TestFlush(t *testing.T) {
	fb := install(t)
	fb.flushErr = errors.New("gateway down")

	assert.EqualError(t, Flush(), "gateway down")
	assert.Equal(t, 1, fb.flushes)

	SetBackend(nil)
	assert.NoError(t, Flush())
}

func TestObserver(t *testing.T) {
	fb := install(t)
	obs := Observer{}

	ok := rawload.ChunkOutcome{Batch: rawload.InsertBatch{Index: 0, Rows: 1000}}
	bad := rawload.ChunkOutcome{Batch: rawload.InsertBatch{Index: 1, Offset: 1000, Rows: 500}, Err: errors.New("x")}
	obs.ChunkDone("raw.a", ok)
	obs.ChunkDone("raw.a", bad)
	obs.FileDone(rawload.FileResult{
		Table:    rawload.TargetTable{Schema: "raw", Name: "a"},
		Report:   rawload.InsertReport{Chunks: []rawload.ChunkOutcome{ok, bad}},
		Duration: time.Second,
	}, errors.New("insert chunk failed"))

	rows := map[string]float64{}
	chunks := map[string]int{}
	for _, c := range fb.counters {
		switch c.name {
		case RowsTotal:
			rows[c.labels["kind"]] += c.value
		case ChunksTotal:
			chunks[c.labels["status"]]++
		case FilesTotal:
			assert.Equal(t, "failure", c.labels["status"])
		}
	}
	assert.Equal(t, map[string]float64{"inserted": 1000, "failed": 500}, rows)
	assert.Equal(t, map[string]int{"success": 1, "failure": 1}, chunks)
	assert.Len(t, fb.histograms, 1)
}

func TestObserver_FileFailedBeforeTable(t *testing.T) {
	fb := install(t)

	Observer{}.FileDone(rawload.FileResult{Source: rawload.SourceFile{Name: "bad.csv"}}, errors.New("empty"))

	require.Len(t, fb.counters, 1)
	assert.Equal(t, "bad.csv", fb.counters[0].labels["table"])
}
