package local

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// maxFileSize skips large blobs such as vendored bundles or fixtures.
const maxFileSize = 1 << 20

// LocalRepository is a clone read from its committed HEAD tree, so that
// uncommitted changes never leak into the catalog.
type LocalRepository struct {
	repo      *git.Repository
	root      string
	remoteURL string
	files     *entities.FileList
}

func newLocalRepository(repo *git.Repository, dir string) (*LocalRepository, error) {
	root := dir
	if worktree, err := repo.Worktree(); err == nil {
		root = worktree.Filesystem.Root()
	}

	remoteURL := ""
	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil && len(remote.Config().URLs) > 0 {
		remoteURL = remote.Config().URLs[0]
	} else if err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return nil, fmt.Errorf("failed to read remote of %q: %w", root, err)
	}

	local := &LocalRepository{repo: repo, root: root, remoteURL: remoteURL}
	local.files = entities.NewFileList(local.readHeadTree)
	return local, nil
}

// URL returns the web URL of the origin remote when it has one, and the
// "file://" URL of the clone otherwise.
func (r *LocalRepository) URL() string {
	if webURL := remoteWebURL(r.remoteURL); webURL != "" {
		return webURL
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(r.root)}).String()
}

func (r *LocalRepository) Name() string { return filepath.Base(r.root) }

// Owner is the namespace of the origin remote, if any.
func (r *LocalRepository) Owner() string {
	webURL := remoteWebURL(r.remoteURL)
	if webURL == "" {
		return ""
	}
	parsed, err := url.Parse(webURL)
	if err != nil {
		return ""
	}
	namespace := filepath.ToSlash(filepath.Dir(strings.Trim(parsed.Path, "/")))
	if namespace == "." {
		return ""
	}
	return namespace
}

func (r *LocalRepository) Description() string { return "" }
func (r *LocalRepository) Topics() []string    { return nil }

func (r *LocalRepository) Files(ctx context.Context) ([]entities.RepositoryFile, error) {
	return r.files.Get(ctx)
}

func (r *LocalRepository) readHeadTree(ctx context.Context) ([]entities.RepositoryFile, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []entities.RepositoryFile{}, nil
		}
		return nil, fmt.Errorf("failed to resolve HEAD of %q: %w", r.root, err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit of %q: %w", r.root, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree of %q: %w", r.root, err)
	}

	files := []entities.RepositoryFile{}
	err = tree.Files().ForEach(func(file *object.File) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !file.Mode.IsFile() || file.Size > maxFileSize {
			return nil
		}
		binary, binErr := file.IsBinary()
		if binErr != nil || binary {
			return binErr
		}
		content, readErr := file.Contents()
		if readErr != nil {
			return readErr
		}
		if utf8.ValidString(content) {
			files = append(files, entities.NewRepositoryFile(file.Name, content))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read files of %q: %w", r.root, err)
	}
	return files, nil
}

// remoteWebURL turns "git@host:group/repo.git" and "https://host/group/repo.git"
// into "https://host/group/repo".
func remoteWebURL(remote string) string {
	if remote == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(remote, "git@"); ok {
		host, path, found := strings.Cut(rest, ":")
		if !found {
			return ""
		}
		return "https://" + host + "/" + strings.TrimSuffix(path, ".git")
	}
	parsed, err := url.Parse(remote)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" && parsed.Scheme != "ssh" {
		return ""
	}
	return "https://" + parsed.Hostname() + "/" + strings.TrimSuffix(strings.Trim(parsed.Path, "/"), ".git")
}
