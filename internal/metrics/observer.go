package metrics

import "github.com/vvka-141/rawload/pkg/rawload"

// Observer turns extraction progress events into metrics.
type Observer struct{}

var _ rawload.Observer = Observer{}

func (Observer) FileStarted(rawload.SourceFile, string, int) {}

func (Observer) ChunkDone(table string, outcome rawload.ChunkOutcome) {
	RecordChunk(table, outcome.Committed())
	if !outcome.Committed() {
		RecordRows(table, "failed", int64(outcome.Batch.Rows))
	}
}

// FileDone records inserted rows from the report, since chunks of an atomic
// load only count once the file commits.
func (Observer) FileDone(result rawload.FileResult, err error) {
	table := result.Table.QualifiedName()
	if table == "" {
		table = result.Source.Name
	}
	RecordRows(table, "inserted", result.Report.Inserted())
	RecordFile(table, err == nil, result.Duration)
}
