package credentials

import (
	"context"
	"fmt"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// SettingsCredentialsRepository resolves tokens from the configured integrations.
type SettingsCredentialsRepository struct {
	integrations []entities.IntegrationConfig
}

// NewSettingsCredentialsRepository creates a resolver over every GitHub and GitLab integration.
func NewSettingsCredentialsRepository(settings *entities.Settings) repositories.CredentialsRepository {
	integrations := make([]entities.IntegrationConfig, 0,
		len(settings.Integrations.GitHub)+len(settings.Integrations.GitLab))
	integrations = append(integrations, settings.Integrations.GitHub...)
	integrations = append(integrations, settings.Integrations.GitLab...)
	return &SettingsCredentialsRepository{integrations: integrations}
}

// GetCredentials returns the token of the integration serving rawURL.
func (r *SettingsCredentialsRepository) GetCredentials(
	_ context.Context,
	rawURL string,
) (*entities.Credentials, error) {
	integration, ok := entities.IntegrationForURL(r.integrations, rawURL)
	if !ok || integration.Token == "" {
		return nil, fmt.Errorf("%w for %s", entities.ErrNoCredentials, rawURL)
	}
	return &entities.Credentials{Token: integration.Token}, nil
}
