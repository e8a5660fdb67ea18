package rawload

// FileScanner discovers the source files of a run.
type FileScanner interface {
	// Discover returns the files in dir whose names match pattern, sorted by name.
	// It returns ErrNoSourceFiles when nothing matches.
	Discover(dir, pattern string) ([]SourceFile, error)
}
