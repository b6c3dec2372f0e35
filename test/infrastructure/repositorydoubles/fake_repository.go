//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// FakeRepository implements entities.Repository with in-memory values.
type FakeRepository struct {
	URLValue         string
	NameValue        string
	OwnerValue       string
	DescriptionValue string
	TopicsValue      []string
	FilesValue       []entities.RepositoryFile
	FilesErr         error

	mu             sync.Mutex
	filesCallCount int
}

var _ entities.Repository = (*FakeRepository)(nil)

func (r *FakeRepository) URL() string         { return r.URLValue }
func (r *FakeRepository) Name() string        { return r.NameValue }
func (r *FakeRepository) Owner() string       { return r.OwnerValue }
func (r *FakeRepository) Description() string { return r.DescriptionValue }
func (r *FakeRepository) Topics() []string    { return r.TopicsValue }

func (r *FakeRepository) Files(_ context.Context) ([]entities.RepositoryFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filesCallCount++
	return r.FilesValue, r.FilesErr
}

// FilesCallCount returns how many times Files was called.
func (r *FakeRepository) FilesCallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filesCallCount
}
