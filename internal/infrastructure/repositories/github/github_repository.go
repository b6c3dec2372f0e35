package github

import (
	"context"
	"path"
	"unicode/utf8"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// GitHubRepository is a repository listed by the GraphQL API. Its files are
// fetched lazily, once.
type GitHubRepository struct {
	node  repositoryNode
	owner string
	files *entities.FileList
}

func newGitHubRepository(client *graphqlClient, node repositoryNode, owner string) *GitHubRepository {
	repo := &GitHubRepository{node: node, owner: owner}
	repo.files = entities.NewFileList(func(ctx context.Context) ([]entities.RepositoryFile, error) {
		return repo.fetchFiles(ctx, client)
	})
	return repo
}

func (r *GitHubRepository) URL() string         { return r.node.URL }
func (r *GitHubRepository) Name() string        { return r.node.Name }
func (r *GitHubRepository) Owner() string       { return r.owner }
func (r *GitHubRepository) Description() string { return r.node.Description }
func (r *GitHubRepository) Topics() []string    { return r.node.topics() }

// DefaultBranch returns the name of the default branch, or "" for an empty repository.
func (r *GitHubRepository) DefaultBranch() string {
	if r.node.DefaultBranchRef == nil {
		return ""
	}
	return r.node.DefaultBranchRef.Name
}

func (r *GitHubRepository) Files(ctx context.Context) ([]entities.RepositoryFile, error) {
	return r.files.Get(ctx)
}

func (r *GitHubRepository) fetchFiles(
	ctx context.Context,
	client *graphqlClient,
) ([]entities.RepositoryFile, error) {
	data, err := query[filesData](ctx, client, "list files of "+r.owner+"/"+r.node.Name, filesQuery,
		map[string]any{"owner": r.owner, "name": r.node.Name},
	)
	if err != nil {
		return nil, err
	}
	if data.Repository == nil {
		return []entities.RepositoryFile{}, nil
	}

	files := []entities.RepositoryFile{}
	files = appendBlobs(files, "", data.Repository.Root)
	files = appendBlobs(files, ".github", data.Repository.GitHub)
	files = appendBlobs(files, "docs", data.Repository.Docs)
	return files, nil
}

// appendBlobs keeps the text blobs of tree. GitHub returns a null text for
// binary and oversized blobs; both are skipped, as is anything not valid UTF-8.
func appendBlobs(files []entities.RepositoryFile, dir string, tree *treeObject) []entities.RepositoryFile {
	if tree == nil {
		return files
	}
	for _, entry := range tree.Entries {
		if entry.Type != "blob" || entry.Object == nil || entry.Object.Text == nil {
			continue
		}
		if entry.Object.IsBinary != nil && *entry.Object.IsBinary {
			continue
		}
		if !utf8.ValidString(*entry.Object.Text) {
			continue
		}
		files = append(files, entities.NewRepositoryFile(path.Join(dir, entry.Name), *entry.Object.Text))
	}
	return files
}
