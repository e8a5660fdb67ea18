package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

func (f *memoryFileInfo) Mode() fs.FileMode {
	if f.isDir {
		return fs.ModeDir | 0755
	}
	return 0644
}

type memoryFile struct {
	absPath string
	content []byte
	info    *memoryFileInfo
}

func (f *memoryFile) Path() string   { return f.absPath }
func (f *memoryFile) Info() FileInfo { return f.info }

func (f *memoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.content)), nil
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Paths use forward slashes regardless of platform.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	root  string
	files map[string]*memoryFile
	dirs  map[string]bool
}

// NewMemoryFileSystem creates an empty in-memory filesystem rooted at root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = cleanPath(root)
	return &MemoryFileSystem{
		root:  root,
		files: make(map[string]*memoryFile),
		dirs:  map[string]bool{root: true},
	}
}

// AddFile adds a file. Relative paths are resolved against the root.
func (m *MemoryFileSystem) AddFile(filePath string, content string) {
	m.AddFileWithTime(filePath, content, time.Now())
}

// AddFileWithTime adds a file with a specific modification time
func (m *MemoryFileSystem) AddFileWithTime(filePath string, content string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.resolve(filePath)
	m.files[p] = &memoryFile{
		absPath: p,
		content: []byte(content),
		info:    &memoryFileInfo{name: path.Base(p), size: int64(len(content)), modTime: modTime},
	}
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" || dir == "." || dir == m.root {
			break
		}
	}
}

// AddDir adds an empty directory.
func (m *MemoryFileSystem) AddDir(dirPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[m.resolve(dirPath)] = true
}

func (m *MemoryFileSystem) Glob(dir, pattern string) ([]File, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	d := m.resolve(dir)
	if !m.dirs[d] {
		if _, isFile := m.files[d]; isFile {
			return nil, fmt.Errorf("path is not a directory: %s", dir)
		}
		return nil, fmt.Errorf("failed to access path: %w", fs.ErrNotExist)
	}

	var files []File
	for p, f := range m.files {
		if path.Dir(p) != d {
			continue
		}
		if matched, _ := path.Match(pattern, f.info.name); matched {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Info().Name() < files[j].Info().Name()
	})
	return files, nil
}

func (m *MemoryFileSystem) Open(filePath string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[m.resolve(filePath)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}
	return f.Open()
}

func (m *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.resolve(statPath)
	if f, ok := m.files[p]; ok {
		return f.info, nil
	}
	if m.dirs[p] {
		return &memoryFileInfo{name: path.Base(p), isDir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: statPath, Err: fs.ErrNotExist}
}

func (m *MemoryFileSystem) resolve(p string) string {
	p = cleanPath(p)
	if strings.HasPrefix(p, "/") {
		return p
	}
	return path.Join(m.root, p)
}

func cleanPath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
