package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
	"github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/credentials"
	"github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/pagination"
)

const (
	providerName = "GitHub"
	tokenEnvVar  = "GITHUB_TOKEN"
)

// GitHubProviderRepository discovers the repositories of a GitHub organization
// or user through the GraphQL API.
type GitHubProviderRepository struct {
	integrations []entities.IntegrationConfig
	credentials  repositories.CredentialsRepository
	envToken     string
	httpClient   *http.Client
	maxPages     int
	limiter      *rate.Limiter
}

// Option customizes a GitHubProviderRepository.
type Option func(*GitHubProviderRepository)

// WithEnvToken sets the token used when the credentials resolver has none.
func WithEnvToken(token string) Option {
	return func(p *GitHubProviderRepository) { p.envToken = token }
}

// WithHTTPClient sets the client the authenticated transport is layered on.
func WithHTTPClient(client *http.Client) Option {
	return func(p *GitHubProviderRepository) { p.httpClient = client }
}

// WithMaxPages caps the number of repository pages fetched per discovery.
func WithMaxPages(maxPages int) Option {
	return func(p *GitHubProviderRepository) { p.maxPages = maxPages }
}

// WithRequestsPerSecond throttles API calls; zero or less disables throttling.
func WithRequestsPerSecond(rps float64) Option {
	return func(p *GitHubProviderRepository) {
		if rps <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewProviderRepository creates a GitHub provider serving the given integrations.
func NewProviderRepository(
	integrations []entities.IntegrationConfig,
	resolver repositories.CredentialsRepository,
	opts ...Option,
) repositories.ProviderRepository {
	provider := &GitHubProviderRepository{
		integrations: integrations,
		credentials:  resolver,
		maxPages:     entities.DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// NewProviderRepositoryFromSettings creates a GitHub provider from the settings,
// reading the fallback token from GITHUB_TOKEN.
func NewProviderRepositoryFromSettings(
	settings *entities.Settings,
	resolver repositories.CredentialsRepository,
) repositories.ProviderRepository {
	return NewProviderRepository(
		settings.Integrations.GitHub,
		resolver,
		WithEnvToken(os.Getenv(tokenEnvVar)),
		WithMaxPages(settings.Discovery.MaxPages),
		WithRequestsPerSecond(settings.Discovery.RequestsPerSecond),
	)
}

func (p *GitHubProviderRepository) Name() string { return providerName }

// Discover lists the non-archived, non-forked repositories of the owner named by
// the first path segment of rawURL whose URL lies under rawURL. Both
// "https://github.com/acme" and "https://github.com/acme/svc" resolve the owner
// "acme"; the second one then narrows the listing to a single repository.
// Any other URL shape is interpreted the same way, which is a heuristic.
func (p *GitHubProviderRepository) Discover(
	ctx context.Context,
	rawURL string,
) ([]entities.Repository, bool, error) {
	integration, ok := entities.IntegrationForURL(p.integrations, rawURL)
	if !ok {
		return nil, false, nil
	}

	owner, err := ownerFromURL(rawURL)
	if err != nil {
		return nil, true, err
	}

	creds, err := credentials.Resolve(ctx, p.credentials, rawURL, p.envToken, credentials.Platform{
		Name:   providerName,
		EnvVar: tokenEnvVar,
	})
	if err != nil {
		return nil, true, err
	}

	client := &graphqlClient{
		client: gh.NewClient(
			credentials.NewAuthenticatedClient(ctx, creds, credentials.NewRetryingClient(p.httpClient)),
		),
		endpoint: graphqlEndpoint(integration.APIBaseURL),
		limiter:  p.limiter,
	}

	logger.Debugf("Listing repositories of %q through %s", owner, client.endpoint)
	nodes, err := pagination.Paginate(
		ctx,
		func(ctx context.Context, variables pagination.Variables) (repositoriesData, error) {
			return query[repositoriesData](ctx, client, "list repositories of "+owner, repositoriesQuery, variables)
		},
		func(data repositoriesData) *pagination.Page[repositoryNode] {
			if data.RepositoryOwner == nil {
				return nil
			}
			return data.RepositoryOwner.Repositories
		},
		pagination.Identity[repositoryNode],
		pagination.Variables{"org": owner},
		pagination.WithMaxPages(p.maxPages),
	)
	if err != nil {
		return nil, true, fmt.Errorf("failed to list repositories of %q: %w", owner, err)
	}

	prefix := strings.TrimSuffix(rawURL, "/")
	var result []entities.Repository
	for _, node := range nodes {
		if node.IsArchived || node.IsFork || !underPrefix(node.URL, prefix) {
			continue
		}
		result = append(result, newGitHubRepository(client, node, owner))
	}
	return result, true, nil
}

func ownerFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if segments[0] == "" {
		return "", fmt.Errorf("URL %q does not name an organization or user", rawURL)
	}
	return segments[0], nil
}

// underPrefix matches whole path segments so that "acme/svc" does not select "acme/svc-b".
func underPrefix(repoURL, prefix string) bool {
	repoURL = strings.ToLower(repoURL)
	prefix = strings.ToLower(prefix)
	return repoURL == prefix || strings.HasPrefix(repoURL, prefix+"/")
}
