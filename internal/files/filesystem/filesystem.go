package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File is a regular file found in a source directory.
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// Info returns file metadata
	Info() FileInfo

	// Open returns a reader over the file content. The caller closes it.
	Open() (io.ReadCloser, error)
}

// FileSystemProvider gives access to source directories and their files.
type FileSystemProvider interface {
	// Glob returns the regular files directly inside dir whose base names
	// match pattern (filepath.Match syntax), sorted by name.
	Glob(dir, pattern string) ([]File, error)

	// Open opens the file at path for reading.
	Open(path string) (io.ReadCloser, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
