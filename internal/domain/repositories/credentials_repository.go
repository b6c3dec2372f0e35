package repositories

import (
	"context"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// CredentialsRepository resolves the credentials to use when calling the API behind a URL.
type CredentialsRepository interface {
	GetCredentials(ctx context.Context, rawURL string) (*entities.Credentials, error)
}
