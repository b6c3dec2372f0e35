//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// StubCredentialsRepository returns fixed credentials or a fixed error.
type StubCredentialsRepository struct {
	Credentials *entities.Credentials
	Err         error

	mu            sync.Mutex
	RequestedURLs []string
}

var _ repositories.CredentialsRepository = (*StubCredentialsRepository)(nil)

func (s *StubCredentialsRepository) GetCredentials(_ context.Context, rawURL string) (*entities.Credentials, error) {
	s.mu.Lock()
	s.RequestedURLs = append(s.RequestedURLs, rawURL)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Credentials, nil
}
