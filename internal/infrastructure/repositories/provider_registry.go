package repositories

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	domainRepos "github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// ProviderFactory builds a provider from the settings and the credentials resolver.
type ProviderFactory func(
	settings *entities.Settings,
	resolver domainRepos.CredentialsRepository,
) domainRepos.ProviderRepository

// CredentialsFactory builds the credentials resolver shared by every provider of a run.
type CredentialsFactory func(settings *entities.Settings) domainRepos.CredentialsRepository

// ProviderRegistry manages the provider implementations in registration order,
// which is the order discovery consults them in.
type ProviderRegistry struct {
	credentials CredentialsFactory
	names       []string
	factories   map[string]ProviderFactory
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry(credentials CredentialsFactory) *ProviderRegistry {
	return &ProviderRegistry{
		credentials: credentials,
		factories:   make(map[string]ProviderFactory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
// Registering a name twice replaces the factory but keeps its position.
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	if _, exists := r.factories[name]; !exists {
		r.names = append(r.names, name)
	}
	r.factories[name] = factory
}

// Build returns configured providers in registration order. When only is not
// empty, the result holds that single provider.
func (r *ProviderRegistry) Build(
	settings *entities.Settings,
	only string,
) ([]domainRepos.ProviderRepository, error) {
	var resolver domainRepos.CredentialsRepository
	if r.credentials != nil {
		resolver = r.credentials(settings)
	}

	if only != "" {
		factory, ok := r.factories[strings.ToLower(only)]
		if !ok {
			return nil, fmt.Errorf("unknown provider type: %q (available: %s)", only, strings.Join(r.names, ", "))
		}
		return []domainRepos.ProviderRepository{factory(settings, resolver)}, nil
	}

	providers := make([]domainRepos.ProviderRepository, 0, len(r.names))
	for _, name := range r.names {
		providers = append(providers, r.factories[name](settings, resolver))
	}
	return providers, nil
}

// Names returns the registered provider names in registration order.
func (r *ProviderRegistry) Names() []string {
	return append([]string(nil), r.names...)
}
