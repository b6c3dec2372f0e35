package repositories

import (
	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// CatalogRepository persists the outcome of a discovery run.
type CatalogRepository interface {
	// WriteEntities writes every entity as one document of a multi-document file.
	WriteEntities(path string, catalog []entities.CatalogEntity) error

	// RegisterLocation points the application config at the written catalog file.
	RegisterLocation(appConfigPath, target string) error
}
