package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vvka-141/rawload/pkg/rawload"
)

const (
	summaryText = "text"
	summaryJSON = "json"
)

type fileSummary struct {
	Source       string `json:"source"`
	Checksum     string `json:"checksum"`
	Table        string `json:"table"`
	Created      bool   `json:"created"`
	Inserted     int64  `json:"inserted"`
	FailedChunks int    `json:"failed_chunks"`
	SourceRows   int64  `json:"source_rows"`
	LoadedRows   int64  `json:"loaded_rows"`
	Passed       bool   `json:"passed"`
	DurationMS   int64  `json:"duration_ms"`
}

type runSummary struct {
	RunID     string        `json:"run_id"`
	Started   time.Time     `json:"started"`
	Finished  time.Time     `json:"finished"`
	TotalRows int64         `json:"total_rows"`
	Files     []fileSummary `json:"files"`
}

func newRunSummary(s *rawload.RunSummary) runSummary {
	out := runSummary{
		RunID:     s.RunID.String(),
		Started:   s.Started,
		Finished:  s.Finished,
		TotalRows: s.TotalRows(),
		Files:     make([]fileSummary, 0, len(s.Files)),
	}
	for _, f := range s.Files {
		out.Files = append(out.Files, fileSummary{
			Source:       f.Source.Name,
			Checksum:     f.Source.Checksum,
			Table:        f.Table.QualifiedName(),
			Created:      f.Created,
			Inserted:     f.Report.Inserted(),
			FailedChunks: len(f.Report.Failed()),
			SourceRows:   f.Validation.SourceRows,
			LoadedRows:   f.Validation.LoadedRows,
			Passed:       f.Validation.Passed,
			DurationMS:   f.Duration.Milliseconds(),
		})
	}
	return out
}

// writeSummary prints the run summary in format (text or json).
func writeSummary(w io.Writer, s *rawload.RunSummary, format string) error {
	summary := newRunSummary(s)

	if format == summaryJSON {
		jsonBytes, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonBytes))
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SOURCE", "TABLE", "ROWS", "SOURCE ROWS", "STATUS", "TIME")
	for _, f := range summary.Files {
		t.Row(f.Source, f.Table, strconv.FormatInt(f.Inserted, 10), strconv.FormatInt(f.SourceRows, 10),
			fileStatus(f), (time.Duration(f.DurationMS) * time.Millisecond).String())
	}

	_, err := fmt.Fprintf(w, "Run %s: %d files, %d rows in %s\n%s\n",
		summary.RunID, len(summary.Files), summary.TotalRows,
		summary.Finished.Sub(summary.Started).Round(time.Millisecond), t.Render())
	return err
}

func fileStatus(f fileSummary) string {
	switch {
	case f.Passed:
		if f.Created {
			return "created"
		}
		return "loaded"
	case f.FailedChunks > 0:
		return fmt.Sprintf("%d chunks failed", f.FailedChunks)
	default:
		return "failed"
	}
}

func validateSummaryFormat(format string) error {
	if format != summaryText && format != summaryJSON {
		return fmt.Errorf("unknown summary format %q (want text or json): %w", format, rawload.ErrInvalidConfig)
	}
	return nil
}
