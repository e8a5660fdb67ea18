package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

type osFile struct {
	absPath string
	info    FileInfo
}

func (f *osFile) Path() string   { return f.absPath }
func (f *osFile) Info() FileInfo { return f.info }

func (f *osFile) Open() (io.ReadCloser, error) {
	return os.Open(f.absPath)
}

// OSFileSystem implements FileSystemProvider for the OS filesystem
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Glob(dir, pattern string) ([]File, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if matched, _ := filepath.Match(pattern, entry.Name()); !matched {
			continue
		}
		// Stat follows symlinks so linked data files are picked up
		fi, err := os.Stat(filepath.Join(absDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, &osFile{absPath: filepath.Join(absDir, entry.Name()), info: fi})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Info().Name() < files[j].Info().Name()
	})
	return files, nil
}

func (p *OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}
