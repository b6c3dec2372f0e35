//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	doubles "github.com/rios0rios0/catalogdiscovery/test/infrastructure/repositorydoubles"
)

// RepositoryBuilder helps create fake repositories with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	owner       string
	name        string
	description string
	topics      []string
	files       []entities.RepositoryFile
	filesErr    error
}

// NewRepositoryBuilder creates a new repository builder with sensible defaults.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		owner:       "acme",
		name:        "test-repo",
	}
}

// WithOwner sets the owner, which is also the first segment of the URL.
func (b *RepositoryBuilder) WithOwner(owner string) *RepositoryBuilder {
	b.owner = owner
	return b
}

// WithName sets the repository name.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	return b
}

// WithDescription sets the description.
func (b *RepositoryBuilder) WithDescription(description string) *RepositoryBuilder {
	b.description = description
	return b
}

// WithTopics sets the topics.
func (b *RepositoryBuilder) WithTopics(topics ...string) *RepositoryBuilder {
	b.topics = topics
	return b
}

// WithFile adds a file.
func (b *RepositoryBuilder) WithFile(path, content string) *RepositoryBuilder {
	b.files = append(b.files, entities.NewRepositoryFile(path, content))
	return b
}

// WithFilesErr makes Files fail.
func (b *RepositoryBuilder) WithFilesErr(err error) *RepositoryBuilder {
	b.filesErr = err
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() *doubles.FakeRepository {
	return &doubles.FakeRepository{
		URLValue:         "https://github.com/" + b.owner + "/" + b.name,
		NameValue:        b.name,
		OwnerValue:       b.owner,
		DescriptionValue: b.description,
		TopicsValue:      append([]string(nil), b.topics...),
		FilesValue:       append([]entities.RepositoryFile(nil), b.files...),
		FilesErr:         b.filesErr,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.owner = "acme"
	b.name = "test-repo"
	b.description = ""
	b.topics = nil
	b.files = nil
	b.filesErr = nil
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		owner:       b.owner,
		name:        b.name,
		description: b.description,
		topics:      append([]string(nil), b.topics...),
		files:       append([]entities.RepositoryFile(nil), b.files...),
		filesErr:    b.filesErr,
	}
}
