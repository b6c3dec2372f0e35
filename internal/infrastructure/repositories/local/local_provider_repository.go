package local

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

const providerName = "Local"

// LocalProviderRepository discovers git clones on the local filesystem. It
// accepts "file://" URLs and paths of existing directories. A directory that
// is not itself inside a clone is scanned one level deep for clones.
type LocalProviderRepository struct{}

// NewProviderRepository creates a local filesystem provider.
func NewProviderRepository() repositories.ProviderRepository {
	return &LocalProviderRepository{}
}

func (p *LocalProviderRepository) Name() string { return providerName }

func (p *LocalProviderRepository) Discover(
	ctx context.Context,
	rawURL string,
) ([]entities.Repository, bool, error) {
	dir, ok := localPath(rawURL)
	if !ok {
		return nil, false, nil
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		localRepo, openErr := newLocalRepository(repo, dir)
		if openErr != nil {
			return nil, true, openErr
		}
		return []entities.Repository{localRepo}, true, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, true, fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var result []entities.Repository
	for _, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, true, ctxErr
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		childRepo, openErr := git.PlainOpen(child)
		if openErr != nil {
			logger.Debugf("Skipping %q: %v", child, openErr)
			continue
		}
		localRepo, openErr := newLocalRepository(childRepo, child)
		if openErr != nil {
			return nil, true, openErr
		}
		result = append(result, localRepo)
	}
	return result, true, nil
}

// localPath accepts "file://" URLs and bare paths of existing directories.
func localPath(rawURL string) (string, bool) {
	candidate := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return "", false
		}
		candidate = parsed.Path
	} else if strings.Contains(rawURL, "://") {
		return "", false
	}

	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}
	return abs, true
}
