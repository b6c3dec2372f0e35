package credentials

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// Platform identifies who is asking for credentials, for error messages.
type Platform struct {
	Name   string // e.g. "GitHub"
	EnvVar string // e.g. "GITHUB_TOKEN"
}

// Resolve applies the fallback chain used by every provider, in this order:
// the resolver's headers, the resolver's token, then envToken. A resolver error
// only moves on to the next source. When nothing yields a credential, an
// *entities.AuthenticationError naming the platform is returned.
func Resolve(
	ctx context.Context,
	resolver repositories.CredentialsRepository,
	rawURL string,
	envToken string,
	platform Platform,
) (*entities.Credentials, error) {
	if resolver != nil {
		creds, err := resolver.GetCredentials(ctx, rawURL)
		switch {
		case err != nil:
			logger.Debugf("No %s credentials from integrations for %s: %v", platform.Name, rawURL, err)
		case creds != nil && len(creds.Headers) > 0:
			return &entities.Credentials{Headers: creds.Headers}, nil
		case creds != nil && creds.Token != "":
			return &entities.Credentials{Token: creds.Token}, nil
		}
	}

	if envToken != "" {
		return &entities.Credentials{Token: envToken}, nil
	}

	return nil, &entities.AuthenticationError{Platform: platform.Name, EnvVar: platform.EnvVar}
}
