package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
	"github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/credentials"
	"github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/pagination"
)

const (
	providerName = "GitLab"
	tokenEnvVar  = "GITLAB_TOKEN"
	perPage      = 100
)

var errEmptyProjectPath = errors.New("URL does not name a GitLab project or group")

// GitLabProviderRepository discovers a single GitLab project, or every project
// of a group and its subgroups, through the REST API.
type GitLabProviderRepository struct {
	integrations    []entities.IntegrationConfig
	credentials     repositories.CredentialsRepository
	envToken        string
	httpClient      *http.Client
	maxPages        int
	fileConcurrency int
	limiter         *rate.Limiter
}

// Option customizes a GitLabProviderRepository.
type Option func(*GitLabProviderRepository)

// WithEnvToken sets the token used when the credentials resolver has none.
func WithEnvToken(token string) Option {
	return func(p *GitLabProviderRepository) { p.envToken = token }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *GitLabProviderRepository) { p.httpClient = client }
}

// WithMaxPages caps the number of pages fetched per listing.
func WithMaxPages(maxPages int) Option {
	return func(p *GitLabProviderRepository) { p.maxPages = maxPages }
}

// WithFileConcurrency bounds the number of file downloads in flight per project.
func WithFileConcurrency(n int) Option {
	return func(p *GitLabProviderRepository) { p.fileConcurrency = n }
}

// WithRequestsPerSecond throttles API calls; zero or less disables throttling.
func WithRequestsPerSecond(rps float64) Option {
	return func(p *GitLabProviderRepository) {
		if rps <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewProviderRepository creates a GitLab provider serving the given integrations.
func NewProviderRepository(
	integrations []entities.IntegrationConfig,
	resolver repositories.CredentialsRepository,
	opts ...Option,
) repositories.ProviderRepository {
	provider := &GitLabProviderRepository{
		integrations:    integrations,
		credentials:     resolver,
		maxPages:        entities.DefaultMaxPages,
		fileConcurrency: entities.DefaultFileConcurrency,
		limiter:         rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// NewProviderRepositoryFromSettings creates a GitLab provider from the settings,
// reading the fallback token from GITLAB_TOKEN.
func NewProviderRepositoryFromSettings(
	settings *entities.Settings,
	resolver repositories.CredentialsRepository,
) repositories.ProviderRepository {
	return NewProviderRepository(
		settings.Integrations.GitLab,
		resolver,
		WithEnvToken(os.Getenv(tokenEnvVar)),
		WithMaxPages(settings.Discovery.MaxPages),
		WithFileConcurrency(settings.Discovery.FileConcurrency),
		WithRequestsPerSecond(settings.Discovery.RequestsPerSecond),
	)
}

func (p *GitLabProviderRepository) Name() string { return providerName }

// Discover resolves rawURL to a project first and, when there is no such
// project, to a group whose non-archived projects (subgroups included) are listed.
func (p *GitLabProviderRepository) Discover(
	ctx context.Context,
	rawURL string,
) ([]entities.Repository, bool, error) {
	integration, ok := entities.IntegrationForURL(p.integrations, rawURL)
	if !ok {
		return nil, false, nil
	}

	fullPath, err := projectPath(rawURL)
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

	client, err := p.newClient(creds, integration.APIBaseURL)
	if err != nil {
		return nil, true, err
	}

	project, resp, err := client.Projects.GetProject(fullPath, nil, gl.WithContext(ctx))
	switch {
	case err == nil:
		return []entities.Repository{newGitLabProject(client, project, p.fileConcurrency)}, true, nil
	case !isNotFound(resp):
		return nil, true, upstreamError("get project "+fullPath, resp, err)
	}

	logger.Debugf("No GitLab project at %q, listing it as a group", fullPath)
	projects, err := p.listGroupProjects(ctx, client, fullPath)
	if err != nil {
		return nil, true, err
	}

	result := make([]entities.Repository, 0, len(projects))
	for _, groupProject := range projects {
		if groupProject.Archived || groupProject.ForkedFromProject != nil {
			continue
		}
		result = append(result, newGitLabProject(client, groupProject, p.fileConcurrency))
	}
	return result, true, nil
}

func (p *GitLabProviderRepository) newClient(creds *entities.Credentials, apiBaseURL string) (*gl.Client, error) {
	httpClient := p.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: credentials.DefaultRequestTimeout}
	}
	if len(creds.Headers) > 0 {
		httpClient = &http.Client{
			Transport: &credentials.HeaderTransport{Headers: creds.Headers, Base: httpClient.Transport},
			Timeout:   httpClient.Timeout,
		}
	}

	client, err := gl.NewClient(
		creds.Token,
		gl.WithBaseURL(apiBaseURL),
		gl.WithHTTPClient(httpClient),
		gl.WithCustomRetryMax(credentials.MaxRetries),
		gl.WithCustomLimiter(p.limiter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client for %s: %w", apiBaseURL, err)
	}
	return client, nil
}

// listGroupProjects returns an empty list when the group does not exist either.
func (p *GitLabProviderRepository) listGroupProjects(
	ctx context.Context,
	client *gl.Client,
	group string,
) ([]*gl.Project, error) {
	type projectsPage struct {
		projects []*gl.Project
		resp     *gl.Response
	}

	return pagination.Paginate(
		ctx,
		func(ctx context.Context, variables pagination.Variables) (*projectsPage, error) {
			opts := &gl.ListGroupProjectsOptions{
				ListOptions:      gl.ListOptions{PerPage: perPage},
				IncludeSubGroups: gl.Ptr(true),
				Archived:         gl.Ptr(false),
			}
			if cursor := variables.Cursor(); cursor != "" {
				if _, err := fmt.Sscan(cursor, &opts.Page); err != nil {
					return nil, fmt.Errorf("invalid page cursor %q: %w", cursor, err)
				}
			}

			projects, resp, err := client.Groups.ListGroupProjects(group, opts, gl.WithContext(ctx))
			if err != nil {
				if isNotFound(resp) {
					logger.Warnf("No GitLab project or group found at %q", group)
					return nil, nil
				}
				return nil, upstreamError("list projects of group "+group, resp, err)
			}
			return &projectsPage{projects: projects, resp: resp}, nil
		},
		func(page *projectsPage) *pagination.Page[*gl.Project] {
			if page == nil {
				return nil
			}
			return &pagination.Page[*gl.Project]{
				Nodes: page.projects,
				PageInfo: pagination.PageInfo{
					HasNextPage: page.resp.NextPage != 0,
					EndCursor:   fmt.Sprint(page.resp.NextPage),
				},
			}
		},
		pagination.Identity[*gl.Project],
		nil,
		pagination.WithMaxPages(p.maxPages),
	)
}

// projectPath extracts "group/sub/project" from a web URL, dropping any
// "/-/..." suffix (tree, blob, merge request pages) and a trailing ".git".
func projectPath(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}
	fullPath := strings.Trim(parsed.Path, "/")
	if before, _, found := strings.Cut(fullPath, "/-/"); found {
		fullPath = before
	}
	fullPath = strings.TrimSuffix(strings.TrimSuffix(fullPath, "/-"), ".git")
	if fullPath == "" {
		return "", fmt.Errorf("%w: %s", errEmptyProjectPath, rawURL)
	}
	return fullPath, nil
}

func isNotFound(resp *gl.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

func upstreamError(operation string, resp *gl.Response, err error) error {
	upstream := &entities.UpstreamError{Platform: providerName, Operation: operation, Err: err}
	if resp != nil {
		upstream.StatusCode = resp.StatusCode
	}
	return upstream
}
