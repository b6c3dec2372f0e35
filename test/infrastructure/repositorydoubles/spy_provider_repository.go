//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// SpyProviderRepository implements repositories.ProviderRepository as a configurable spy.
// Configure the response fields, then inspect DiscoveredURLs.
type SpyProviderRepository struct {
	// --- identity ---
	ProviderName string

	// --- Discover ---
	Accepts        bool
	Repositories   []entities.Repository
	DiscoverErr    error
	DiscoveredURLs []string
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

func (p *SpyProviderRepository) Name() string { return p.ProviderName }

func (p *SpyProviderRepository) Discover(_ context.Context, rawURL string) ([]entities.Repository, bool, error) {
	p.DiscoveredURLs = append(p.DiscoveredURLs, rawURL)
	if !p.Accepts {
		return nil, false, nil
	}
	if p.DiscoverErr != nil {
		return nil, true, p.DiscoverErr
	}
	return p.Repositories, true, nil
}
