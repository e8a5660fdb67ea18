package tui

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/pkg/rawload"
)

type fakeSender struct {
	msgs []tea.Msg
}

func (f *fakeSender) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestObserver_TranslatesEvents(t *testing.T) {
	s := &fakeSender{}
	obs := observer{s: s}
	source := rawload.SourceFile{Name: "a.csv"}

	obs.FileStarted(source, "raw.a", 1500)
	obs.ChunkDone("raw.a", rawload.ChunkOutcome{Batch: rawload.InsertBatch{Index: 0, Rows: 1000}})
	obs.ChunkDone("raw.a", rawload.ChunkOutcome{Batch: rawload.InsertBatch{Index: 1, Offset: 1000, Rows: 500}, Err: errors.New("boom")})
	obs.FileDone(rawload.FileResult{
		Source:   source,
		Table:    rawload.TargetTable{Schema: "raw", Name: "a"},
		Report:   rawload.InsertReport{Chunks: []rawload.ChunkOutcome{{Batch: rawload.InsertBatch{Rows: 1000}}}},
		Duration: time.Second,
	}, nil)

	require.Len(t, s.msgs, 4)
	assert.Equal(t, fileStartedMsg{table: "raw.a", rows: 1500}, s.msgs[0])
	assert.Equal(t, chunkDoneMsg{rows: 1000, ok: true}, s.msgs[1])
	assert.Equal(t, chunkDoneMsg{rows: 500, ok: false}, s.msgs[2])
	assert.Equal(t, fileDoneMsg{table: "raw.a", rows: 1000, duration: time.Second}, s.msgs[3])
}

func TestObserver_FileDoneBeforeTableKnown(t *testing.T) {
	s := &fakeSender{}
	loadErr := errors.New("malformed")

	observer{s: s}.FileDone(rawload.FileResult{Source: rawload.SourceFile{Name: "bad.csv"}}, loadErr)

	require.Len(t, s.msgs, 1)
	done := s.msgs[0].(fileDoneMsg)
	assert.Equal(t, "bad.csv", done.table)
	assert.Equal(t, loadErr, done.err)
}

func TestProgress_RunsUntilFinished(t *testing.T) {
	p := NewProgress(func() {}, tea.WithInput(nil), tea.WithOutput(io.Discard))

	done := make(chan error, 1)
	go func() { done <- p.Run() }()

	obs := p.Observer()
	obs.FileStarted(rawload.SourceFile{Name: "a.csv"}, "raw.a", 2)
	obs.ChunkDone("raw.a", rawload.ChunkOutcome{Batch: rawload.InsertBatch{Rows: 2}})
	p.Println("loaded")
	p.Finish()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("progress view did not stop")
	}
}

func TestProgress_PrintlnAfterStopFallsBack(t *testing.T) {
	p := NewProgress(func() {}, tea.WithInput(nil), tea.WithOutput(io.Discard))
	var buf bytes.Buffer
	p.out = &buf

	done := make(chan error, 1)
	go func() { done <- p.Run() }()
	p.Finish()
	require.NoError(t, <-done)

	p.Println("late line")
	assert.Equal(t, "late line\n", buf.String())
}
