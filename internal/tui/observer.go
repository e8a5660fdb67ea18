package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/rawload/pkg/rawload"
)

type sender interface {
	Send(msg tea.Msg)
}

// observer forwards extraction events to a running program.
type observer struct {
	s sender
}

var _ rawload.Observer = observer{}

func (o observer) FileStarted(_ rawload.SourceFile, table string, rows int) {
	o.s.Send(fileStartedMsg{table: table, rows: rows})
}

func (o observer) ChunkDone(_ string, outcome rawload.ChunkOutcome) {
	o.s.Send(chunkDoneMsg{rows: outcome.Batch.Rows, ok: outcome.Committed()})
}

func (o observer) FileDone(result rawload.FileResult, err error) {
	table := result.Table.QualifiedName()
	if table == "" {
		table = result.Source.Name
	}
	o.s.Send(fileDoneMsg{table: table, rows: result.Report.Inserted(), duration: result.Duration, err: err})
}
