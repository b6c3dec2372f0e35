package entities

import (
	"context"
	"strings"
	"sync"
)

// RepositoryFile is a file of a repository with its decoded text content.
// Binary files are never represented.
type RepositoryFile struct {
	Path    string
	Content string
}

// NewRepositoryFile creates a RepositoryFile, dropping any leading slash from the path.
func NewRepositoryFile(path, content string) RepositoryFile {
	return RepositoryFile{Path: strings.TrimPrefix(path, "/"), Content: content}
}

// Repository is a source repository discovered on a hosting platform.
type Repository interface {
	// URL is the canonical web URL and identifies the repository within a run.
	URL() string
	Name() string
	Owner() string
	// Description returns an empty string when the platform has none.
	Description() string
	Topics() []string
	// Files returns the repository files. The listing is fetched once per
	// instance; repeated and concurrent calls observe the same result.
	Files(ctx context.Context) ([]RepositoryFile, error)
}

// FindFile returns the file with the exact given path.
func FindFile(files []RepositoryFile, path string) (RepositoryFile, bool) {
	for _, file := range files {
		if file.Path == path {
			return file, true
		}
	}
	return RepositoryFile{}, false
}

// FileFetcher retrieves the files of a repository from its platform.
type FileFetcher func(ctx context.Context) ([]RepositoryFile, error)

// FileList memoizes the outcome of a FileFetcher. The first caller triggers the
// fetch with its context; concurrent callers wait for it. Failures are cached
// too, so a repository whose listing failed stays failed for the whole run.
type FileList struct {
	once  sync.Once
	fetch FileFetcher
	files []RepositoryFile
	err   error
}

// NewFileList wraps fetch in a single-flight memo.
func NewFileList(fetch FileFetcher) *FileList {
	return &FileList{fetch: fetch}
}

// Get returns the memoized files, fetching them on first use.
func (l *FileList) Get(ctx context.Context) ([]RepositoryFile, error) {
	l.once.Do(func() {
		l.files, l.err = l.fetch(ctx)
	})
	return l.files, l.err
}
