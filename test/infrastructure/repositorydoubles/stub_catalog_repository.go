//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// StubCatalogRepository captures what would have been written.
type StubCatalogRepository struct {
	// --- WriteEntities ---
	WriteErr       error
	WriteCallCount int
	WrittenPath    string
	Written        []entities.CatalogEntity

	// --- RegisterLocation ---
	RegisterErr         error
	RegisteredAppConfig string
	RegisteredTarget    string
}

var _ repositories.CatalogRepository = (*StubCatalogRepository)(nil)

func (s *StubCatalogRepository) WriteEntities(path string, catalog []entities.CatalogEntity) error {
	s.WriteCallCount++
	s.WrittenPath = path
	s.Written = catalog
	return s.WriteErr
}

func (s *StubCatalogRepository) RegisterLocation(appConfigPath, target string) error {
	s.RegisteredAppConfig = appConfigPath
	s.RegisteredTarget = target
	return s.RegisterErr
}
