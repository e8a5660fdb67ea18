package scanner

import (
	"fmt"

	"github.com/vvka-141/rawload/internal/checksum"
	"github.com/vvka-141/rawload/internal/files/filesystem"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// Scanner discovers source files in a directory and fingerprints them.
// Scanner is safe for concurrent use as long as the calculator and
// fsProvider are.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.FileSystemProvider
}

var _ rawload.FileScanner = (*Scanner)(nil)

// NewScanner creates a scanner over the OS filesystem.
// Panics if calculator is nil.
func NewScanner(calculator checksum.Calculator) *Scanner {
	return NewScannerWithFS(calculator, filesystem.NewOSFileSystem())
}

// NewScannerWithFS creates a scanner with a custom filesystem provider.
// Panics if calculator or fsProvider is nil.
func NewScannerWithFS(calculator checksum.Calculator, fsProvider filesystem.FileSystemProvider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
	}
}

// Discover returns the files in dir matching pattern, sorted by name.
// It returns rawload.ErrNoSourceFiles when nothing matches.
func (s *Scanner) Discover(dir, pattern string) ([]rawload.SourceFile, error) {
	files, err := s.fsProvider.Glob(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files matching %q in %s: %w", pattern, dir, rawload.ErrNoSourceFiles)
	}

	sources := make([]rawload.SourceFile, 0, len(files))
	for _, f := range files {
		sum, err := s.fingerprint(f)
		if err != nil {
			return nil, fmt.Errorf("failed to fingerprint %s: %w", f.Path(), err)
		}
		sources = append(sources, rawload.SourceFile{
			Path:     f.Path(),
			Name:     f.Info().Name(),
			Size:     f.Info().Size(),
			Checksum: sum,
		})
	}
	return sources, nil
}

func (s *Scanner) fingerprint(f filesystem.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return s.calculator.CalculateReader(rc)
}
