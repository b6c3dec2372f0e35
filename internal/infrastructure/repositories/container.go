package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	domainRepos "github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
	basicRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/basic"
	catalogRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/catalog"
	ownersRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/codeowners"
	credsRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/credentials"
	ghRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/gitlab"
	goRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/golang"
	jsRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/javascript"
	localRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/local"
	reporterRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/reporter"
	tfRepo "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/terraform"
)

// NewDefaultProviderRegistry registers every provider in discovery order.
func NewDefaultProviderRegistry() *ProviderRegistry {
	reg := NewProviderRegistry(credsRepo.NewSettingsCredentialsRepository)
	reg.Register("github", ghRepo.NewProviderRepositoryFromSettings)
	reg.Register("gitlab", glRepo.NewProviderRepositoryFromSettings)
	reg.Register("local", func(_ *entities.Settings, _ domainRepos.CredentialsRepository) domainRepos.ProviderRepository {
		return localRepo.NewProviderRepository()
	})
	return reg
}

// NewDefaultAnalyzerRegistry registers every analyzer. The basic analyzer comes
// first so that the others enrich its entity.
func NewDefaultAnalyzerRegistry() *AnalyzerRegistry {
	reg := NewAnalyzerRegistry()
	reg.Register(basicRepo.NewAnalyzerRepository())
	reg.Register(jsRepo.NewAnalyzerRepository())
	reg.Register(goRepo.NewAnalyzerRepository())
	reg.Register(tfRepo.NewAnalyzerRepository())
	reg.Register(ownersRepo.NewAnalyzerRepository())
	return reg
}

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewDefaultProviderRegistry); err != nil {
		return err
	}
	if err := container.Provide(NewDefaultAnalyzerRegistry); err != nil {
		return err
	}
	if err := container.Provide(reporterRepo.NewLogrusProgressReporter); err != nil {
		return err
	}
	if err := container.Provide(catalogRepo.NewYAMLCatalogRepository); err != nil {
		return err
	}
	return nil
}
