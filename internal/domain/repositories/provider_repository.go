package repositories

import (
	"context"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// ProviderRepository abstracts a Git hosting platform (GitHub, GitLab, a local clone, etc.)
// as a source of repositories.
type ProviderRepository interface {
	// Name returns the human-readable platform label (e.g. "GitHub").
	Name() string

	// Discover lists the repositories under rawURL. accepted is false when the URL
	// does not belong to this platform; that is a decline, not an error. An error
	// returned for an accepted URL is fatal for the run.
	Discover(ctx context.Context, rawURL string) (repositories []entities.Repository, accepted bool, err error)
}
