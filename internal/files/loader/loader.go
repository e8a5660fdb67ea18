package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vvka-141/rawload/internal/files/filesystem"
	"github.com/vvka-141/rawload/pkg/rawload"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads source files into datasets.
type Loader struct {
	fsProvider filesystem.FileSystemProvider
	missing    map[string]struct{}
}

// NewLoader creates a loader that reads through fsProvider and treats every
// string in missingValues as a missing cell. A nil missingValues selects
// rawload.DefaultMissingValues; an empty non-nil slice disables the marker.
// Panics if fsProvider is nil.
func NewLoader(fsProvider filesystem.FileSystemProvider, missingValues []string) *Loader {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if missingValues == nil {
		missingValues = rawload.DefaultMissingValues()
	}
	missing := make(map[string]struct{}, len(missingValues))
	for _, v := range missingValues {
		missing[v] = struct{}{}
	}
	return &Loader{fsProvider: fsProvider, missing: missing}
}

// Delimiter returns the field separator used for a file name.
func Delimiter(name string) rune {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv":
		return '\t'
	case ".psv":
		return '|'
	default:
		return ','
	}
}

// Load reads file into a dataset. The first record is the header.
func (l *Loader) Load(file rawload.SourceFile) (*rawload.Dataset, error) {
	rc, err := l.fsProvider.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer rc.Close()

	ds, err := l.read(rc, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Name, err)
	}
	return ds, nil
}

func (l *Loader) read(r io.Reader, file rawload.SourceFile) (*rawload.Dataset, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = Delimiter(file.Name)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, rawload.ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("header: %v: %w", err, rawload.ErrMalformedSource)
	}

	ds := &rawload.Dataset{Source: file, Columns: make([]rawload.Column, len(header))}
	for i, label := range header {
		ds.Columns[i].Label = label
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, rawload.ErrMalformedSource)
		}
		if len(record) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d: %w",
				line, len(header), len(record), rawload.ErrMalformedSource)
		}
		for i := range ds.Columns {
			v := rawload.MissingValue()
			if i < len(record) {
				v = l.cell(record[i])
			}
			ds.Columns[i].Values = append(ds.Columns[i].Values, v)
		}
	}
	return ds, nil
}

func (l *Loader) cell(s string) rawload.Value {
	if _, ok := l.missing[s]; ok {
		return rawload.MissingValue()
	}
	return rawload.TextValue(s)
}
