package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/rawload/internal/checksum"
	"github.com/vvka-141/rawload/internal/ddl"
	"github.com/vvka-141/rawload/internal/files/filesystem"
	"github.com/vvka-141/rawload/internal/files/loader"
	"github.com/vvka-141/rawload/internal/files/scanner"
	"github.com/vvka-141/rawload/internal/insert"
	"github.com/vvka-141/rawload/internal/validate"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// SessionOpener opens the database session of a run.
type SessionOpener func(ctx context.Context, cfg rawload.LoadConfig, logger rawload.Logger) (rawload.Session, error)

// ExtractionService loads a directory of source files into tables.
// Thread-Safety: NOT safe for concurrent Extract() calls on the same instance.
type ExtractionService struct {
	openSession SessionOpener
	fsProvider  filesystem.FileSystemProvider
	scanner     rawload.FileScanner
	logger      rawload.Logger
	observer    rawload.Observer
}

// NewExtractionService creates an ExtractionService with all dependencies injected.
// A nil observer discards progress events. Panics on other nil dependencies.
func NewExtractionService(
	openSession SessionOpener,
	fsProvider filesystem.FileSystemProvider,
	logger rawload.Logger,
	observer rawload.Observer,
) *ExtractionService {
	if openSession == nil {
		panic("openSession cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if observer == nil {
		observer = rawload.NopObserver{}
	}

	return &ExtractionService{
		openSession: openSession,
		fsProvider:  fsProvider,
		scanner:     scanner.NewScannerWithFS(checksum.New(), fsProvider),
		logger:      logger,
		observer:    observer,
	}
}

// Extract loads every source file of cfg.SourceDir, in name order, over one session.
// The first failing file stops the run; its error is wrapped with the file name.
// The summary is returned also with an error; its last entry is then the
// partial result of the failing file.
func (s *ExtractionService) Extract(ctx context.Context, cfg rawload.LoadConfig) (*rawload.RunSummary, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	summary := &rawload.RunSummary{RunID: uuid.New(), Started: time.Now()}
	defer func() { summary.Finished = time.Now() }()

	files, err := s.scanner.Discover(cfg.SourceDir, cfg.Pattern)
	if err != nil {
		return summary, err
	}
	s.logger.Verbose("Found %d source files in %s (run %s)", len(files), cfg.SourceDir, summary.RunID)

	if cfg.Connection.AppName == "" {
		cfg.Connection.AppName = rawload.DefaultAppName + "-" + summary.RunID.String()[:8]
	}

	session, err := s.openSession(ctx, cfg, s.logger)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := session.Close(context.Background()); err != nil {
			s.logger.Warn("Failed to close database session: %v", err)
		}
	}()

	r := &run{
		cfg:       cfg,
		session:   session,
		loader:    loader.NewLoader(s.fsProvider, cfg.MissingValues),
		creator:   ddl.NewCreator(s.logger),
		inserter:  insert.NewInserter(s.logger, insert.WithObserver(s.observer), insert.WithAtomicFile(cfg.AtomicFile)),
		validator: validate.NewValidator(s.logger),
	}

	for _, file := range files {
		result, err := s.extractFile(ctx, r, file)
		s.observer.FileDone(result, err)
		summary.Files = append(summary.Files, result)
		if err != nil {
			return summary, fmt.Errorf("%s: %w", file.Name, err)
		}
	}

	s.logger.Info("✓ Loaded %d files (%d rows) into %s", len(summary.Files), summary.TotalRows(), cfg.Schema)
	return summary, nil
}

// run holds the per-run collaborators shared by every file.
type run struct {
	cfg       rawload.LoadConfig
	session   rawload.Session
	loader    *loader.Loader
	creator   *ddl.Creator
	inserter  *insert.Inserter
	validator *validate.Validator
}

func (s *ExtractionService) extractFile(ctx context.Context, r *run, file rawload.SourceFile) (result rawload.FileResult, err error) {
	start := time.Now()
	result.Source = file
	defer func() { result.Duration = time.Since(start) }()

	ds, err := r.loader.Load(file)
	if err != nil {
		return result, err
	}

	table, err := DescribeTable(ds, r.cfg.Schema, r.cfg.DuplicatePolicy)
	if err != nil {
		return result, err
	}
	result.Table = table

	s.observer.FileStarted(file, table.QualifiedName(), ds.Rows())
	s.logger.Info("Loading %s into %s (%d rows)", file.Name, table.QualifiedName(), ds.Rows())

	outcome, err := r.creator.Ensure(ctx, r.session, table)
	if err != nil {
		return result, err
	}
	result.Created = outcome == ddl.Created

	result.Report, err = r.inserter.Insert(ctx, r.session, table, ds, r.cfg.ChunkSize)
	if err != nil {
		return result, err
	}

	sourceRows, err := s.countSourceRows(file)
	if err != nil {
		return result, err
	}

	result.Validation, err = r.validator.Validate(ctx, r.session, sourceRows, table.Schema, table.Name)
	return result, err
}

func (s *ExtractionService) countSourceRows(file rawload.SourceFile) (int64, error) {
	rc, err := s.fsProvider.Open(file.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to reopen %s: %w", file.Path, err)
	}
	defer rc.Close()
	return validate.CountSourceRows(rc)
}
