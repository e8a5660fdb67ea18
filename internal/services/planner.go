package services

import (
	"fmt"

	"github.com/vvka-141/rawload/internal/ddl"
	"github.com/vvka-141/rawload/internal/files/loader"
	"github.com/vvka-141/rawload/internal/storage"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// PlannedTable is the table a source file would be loaded into.
type PlannedTable struct {
	Source rawload.SourceFile
	Table  rawload.TargetTable
	Rows   int
	DDL    string
}

// Plan discovers, loads and describes every source file without connecting
// to a database. DDL is rendered in the dialect of cfg.Backend.
func (s *ExtractionService) Plan(cfg rawload.LoadConfig) ([]PlannedTable, error) {
	cfg = cfg.WithDefaults()
	if cfg.SourceDir == "" {
		return nil, fmt.Errorf("SourceDir is required: %w", rawload.ErrInvalidConfig)
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d: %w", cfg.ChunkSize, rawload.ErrInvalidConfig)
	}
	dialect, err := storage.Dialect(cfg.Backend)
	if err != nil {
		return nil, err
	}

	files, err := s.scanner.Discover(cfg.SourceDir, cfg.Pattern)
	if err != nil {
		return nil, err
	}

	ld := loader.NewLoader(s.fsProvider, cfg.MissingValues)
	plans := make([]PlannedTable, 0, len(files))
	for _, file := range files {
		ds, err := ld.Load(file)
		if err != nil {
			return plans, err
		}
		table, err := DescribeTable(ds, cfg.Schema, cfg.DuplicatePolicy)
		if err != nil {
			return plans, fmt.Errorf("%s: %w", file.Name, err)
		}
		stmt, err := ddl.BuildCreateTable(dialect, table)
		if err != nil {
			return plans, fmt.Errorf("%s: %w", file.Name, err)
		}
		s.logger.Verbose("Planned %s from %s", table.QualifiedName(), file.Name)
		plans = append(plans, PlannedTable{Source: file, Table: table, Rows: ds.Rows(), DDL: stmt})
	}
	return plans, nil
}
