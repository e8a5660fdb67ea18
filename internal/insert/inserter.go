package insert

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvka-141/rawload/internal/infer"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// ErrRolledBack marks chunks that were written but undone with their file transaction.
var ErrRolledBack = errors.New("rolled back with the file transaction")

// Inserter loads datasets chunk by chunk.
type Inserter struct {
	logger   rawload.Logger
	observer rawload.Observer
	atomic   bool
}

// Option configures an Inserter.
type Option func(*Inserter)

// WithObserver reports every chunk outcome to obs.
func WithObserver(obs rawload.Observer) Option {
	return func(i *Inserter) {
		if obs != nil {
			i.observer = obs
		}
	}
}

// WithAtomicFile loads each file in a single transaction.
func WithAtomicFile(atomic bool) Option {
	return func(i *Inserter) {
		i.atomic = atomic
	}
}

func NewInserter(logger rawload.Logger, opts ...Option) *Inserter {
	if logger == nil {
		panic("logger cannot be nil")
	}
	i := &Inserter{logger: logger, observer: rawload.NopObserver{}}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Insert writes every row of ds into t. The report always lists every chunk.
// If any chunk was not committed the error is a *rawload.InsertChunkError.
func (i *Inserter) Insert(ctx context.Context, session rawload.Session, t rawload.TargetTable, ds *rawload.Dataset, chunkSize int) (rawload.InsertReport, error) {
	report := rawload.InsertReport{Table: t.QualifiedName()}

	if chunkSize <= 0 {
		return report, fmt.Errorf("chunk size must be positive, got %d: %w", chunkSize, rawload.ErrInvalidConfig)
	}
	if len(ds.Columns) != len(t.Columns) {
		return report, fmt.Errorf("table %s has %d columns but the dataset has %d", t.QualifiedName(), len(t.Columns), len(ds.Columns))
	}

	w := newWriter(session.Dialect(), t, ds)
	batches := Partition(ds.Rows(), chunkSize)

	var err error
	if i.atomic {
		report.Chunks, err = i.insertAtomic(ctx, session, w, batches)
	} else {
		report.Chunks, err = i.insertChunked(ctx, session, w, batches)
	}
	if err != nil {
		return report, err
	}

	if failed := report.Failed(); len(failed) > 0 {
		return report, &rawload.InsertChunkError{Table: report.Table, Total: len(batches), Failed: failed}
	}
	return report, nil
}

func (i *Inserter) insertChunked(ctx context.Context, session rawload.Session, w *writer, batches []rawload.InsertBatch) ([]rawload.ChunkOutcome, error) {
	outcomes := make([]rawload.ChunkOutcome, 0, len(batches))
	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("insert into %s interrupted before chunk %d: %w", w.table.QualifiedName(), b.Index, err)
		}

		outcome := rawload.ChunkOutcome{Batch: b, Err: i.commitChunk(ctx, session, w, b)}
		i.record(w, outcome)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (i *Inserter) commitChunk(ctx context.Context, session rawload.Session, w *writer, b rawload.InsertBatch) error {
	tx, err := session.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := w.write(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (i *Inserter) insertAtomic(ctx context.Context, session rawload.Session, w *writer, batches []rawload.InsertBatch) ([]rawload.ChunkOutcome, error) {
	if len(batches) == 0 {
		return nil, nil
	}

	tx, err := session.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for %s: %w", w.table.QualifiedName(), err)
	}
	defer tx.Rollback(ctx)

	outcomes := make([]rawload.ChunkOutcome, len(batches))
	var failure error
	for n, b := range batches {
		outcomes[n].Batch = b
		if failure != nil {
			outcomes[n].Skipped = true
		} else if err := w.write(ctx, tx, b); err != nil {
			failure = err
			outcomes[n].Err = err
		}
		i.observer.ChunkDone(w.table.QualifiedName(), outcomes[n])
	}

	if failure == nil {
		failure = tx.Commit(ctx)
		if failure != nil {
			failure = fmt.Errorf("failed to commit: %w", failure)
		}
	}
	if failure == nil {
		i.logger.Verbose("%d chunks committed to %s in one transaction", len(batches), w.table.QualifiedName())
		return outcomes, nil
	}

	for n := range outcomes {
		if outcomes[n].Err == nil && !outcomes[n].Skipped {
			outcomes[n].Err = ErrRolledBack
		}
	}
	i.logger.Error("Loading %s rolled back: %v", w.table.QualifiedName(), failure)
	return outcomes, nil
}

func (i *Inserter) record(w *writer, outcome rawload.ChunkOutcome) {
	b := outcome.Batch
	if outcome.Err != nil {
		i.logger.Error("Batch %d (rows %d-%d) of %s failed: %v", b.Index, b.Offset, b.End()-1, w.table.QualifiedName(), outcome.Err)
	} else {
		i.logger.Info("Batch %d inserted into %s (rows %d-%d)", b.Index, w.table.QualifiedName(), b.Offset, b.End()-1)
	}
	i.observer.ChunkDone(w.table.QualifiedName(), outcome)
}

// writer turns dataset rows into INSERT statements for one table.
type writer struct {
	dialect rawload.Dialect
	table   rawload.TargetTable
	ds      *rawload.Dataset
	conv    []infer.Classification
	perStmt int
	stmts   map[int]string
}

func newWriter(d rawload.Dialect, t rawload.TargetTable, ds *rawload.Dataset) *writer {
	conv := make([]infer.Classification, len(t.Columns))
	for c, col := range t.Columns {
		conv[c] = infer.Classification{Type: col.Type, Layout: col.Layout}
	}
	return &writer{
		dialect: d,
		table:   t,
		ds:      ds,
		conv:    conv,
		perStmt: rowsPerStatement(d, len(t.Columns)),
		stmts:   make(map[int]string),
	}
}

// write inserts the rows of b, split into as many statements as the bind limit requires.
func (w *writer) write(ctx context.Context, ex rawload.Execer, b rawload.InsertBatch) error {
	cols := len(w.table.Columns)
	for start := b.Offset; start < b.End(); start += w.perStmt {
		end := min(start+w.perStmt, b.End())

		args := make([]any, 0, (end-start)*cols)
		for r := start; r < end; r++ {
			for c := 0; c < cols; c++ {
				v, err := w.conv[c].Convert(w.ds.Columns[c].Values[r])
				if err != nil {
					return fmt.Errorf("row %d, column %s: %w", r+1, w.table.Columns[c].Identifier, err)
				}
				args = append(args, v)
			}
		}

		if err := ex.Exec(ctx, w.statement(end-start), args...); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) statement(rows int) string {
	stmt, ok := w.stmts[rows]
	if !ok {
		stmt = BuildInsert(w.dialect, w.table, rows)
		w.stmts[rows] = stmt
	}
	return stmt
}
