//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/commands"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	domainRepos "github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories"
	"github.com/rios0rios0/catalogdiscovery/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/catalogdiscovery/test/infrastructure/repositorydoubles"
)

func providerRegistryWith(providers map[string]*doubles.SpyProviderRepository, order ...string) *infraRepos.ProviderRegistry {
	registry := infraRepos.NewProviderRegistry(nil)
	for _, name := range order {
		provider := providers[name]
		registry.Register(name, func(_ *entities.Settings, _ domainRepos.CredentialsRepository) domainRepos.ProviderRepository {
			return provider
		})
	}
	return registry
}

func analyzerRegistryWith(analyzers ...domainRepos.AnalyzerRepository) *infraRepos.AnalyzerRegistry {
	registry := infraRepos.NewAnalyzerRegistry()
	for _, analyzer := range analyzers {
		registry.Register(analyzer)
	}
	return registry
}

func acmeProvider(names ...string) *doubles.SpyProviderRepository {
	listed := make([]entities.Repository, 0, len(names))
	for _, name := range names {
		listed = append(listed, entitybuilders.NewRepositoryBuilder().WithName(name).BuildRepository())
	}
	return &doubles.SpyProviderRepository{ProviderName: "GitHub", Accepts: true, Repositories: listed}
}

func TestDiscoverCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should write the entities and register the catalog file", func(t *testing.T) {
		t.Parallel()

		// given
		providers := providerRegistryWith(
			map[string]*doubles.SpyProviderRepository{"github": acmeProvider("svc-a", "svc-b")},
			"github",
		)
		analyzers := analyzerRegistryWith(&doubles.StubAnalyzerRepository{
			AnalyzerName: "basic",
			AnalyzeFunc: func(repository entities.Repository, output *entities.AnalysisOutputs) {
				output.EntityOrNew(repository.Name())
			},
		})
		reporter := &doubles.SpyProgressReporter{}
		catalog := &doubles.StubCatalogRepository{}
		cmd := commands.NewDiscoverCommand(providers, analyzers, reporter, catalog)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL: "https://github.com/acme",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, catalog.WriteCallCount)
		assert.Equal(t, entities.DefaultCatalogFile, catalog.WrittenPath)
		assert.Equal(t, []string{"svc-a", "svc-b"}, entityNames(catalog.Written))
		assert.Equal(t, entities.DefaultAppConfigFile, catalog.RegisteredAppConfig)
		assert.Equal(t, entities.DefaultCatalogFile, catalog.RegisteredTarget)
		assert.Contains(t, reporter.Messages(), "Wrote "+entities.DefaultCatalogFile)
	})

	t.Run("should write nothing when nothing is found", func(t *testing.T) {
		t.Parallel()

		// given
		providers := providerRegistryWith(
			map[string]*doubles.SpyProviderRepository{"github": {ProviderName: "GitHub"}},
			"github",
		)
		reporter := &doubles.SpyProgressReporter{}
		catalog := &doubles.StubCatalogRepository{}
		cmd := commands.NewDiscoverCommand(providers, analyzerRegistryWith(), reporter, catalog)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL: "https://unknown.example/acme",
		})

		// then
		require.NoError(t, err)
		assert.Zero(t, catalog.WriteCallCount)
		assert.Empty(t, catalog.RegisteredAppConfig)
		assert.Contains(t, reporter.Messages(), "Nothing found unfortunately")
	})

	t.Run("should not write anything in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		providers := providerRegistryWith(
			map[string]*doubles.SpyProviderRepository{"github": acmeProvider("svc")},
			"github",
		)
		analyzers := analyzerRegistryWith(&doubles.StubAnalyzerRepository{
			AnalyzerName: "basic",
			AnalyzeFunc: func(repository entities.Repository, output *entities.AnalysisOutputs) {
				output.EntityOrNew(repository.Name())
			},
		})
		reporter := &doubles.SpyProgressReporter{}
		catalog := &doubles.StubCatalogRepository{}
		cmd := commands.NewDiscoverCommand(providers, analyzers, reporter, catalog)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL:    "https://github.com/acme",
			DryRun: true,
		})

		// then
		require.NoError(t, err)
		assert.Zero(t, catalog.WriteCallCount)
		assert.Contains(t, reporter.Messages(), "[DRY RUN] Would add svc")
	})

	t.Run("should honor the output overrides", func(t *testing.T) {
		t.Parallel()

		// given
		providers := providerRegistryWith(
			map[string]*doubles.SpyProviderRepository{"github": acmeProvider("svc")},
			"github",
		)
		analyzers := analyzerRegistryWith(&doubles.StubAnalyzerRepository{
			AnalyzerName: "basic",
			AnalyzeFunc: func(repository entities.Repository, output *entities.AnalysisOutputs) {
				output.EntityOrNew(repository.Name())
			},
		})
		catalog := &doubles.StubCatalogRepository{}
		cmd := commands.NewDiscoverCommand(providers, analyzers, &doubles.SpyProgressReporter{}, catalog)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL:           "https://github.com/acme",
			CatalogFile:   "catalog/all.yaml",
			AppConfigFile: "backstage/app-config.yaml",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "catalog/all.yaml", catalog.WrittenPath)
		assert.Equal(t, "backstage/app-config.yaml", catalog.RegisteredAppConfig)
		assert.Equal(t, "catalog/all.yaml", catalog.RegisteredTarget)
	})

	t.Run("should only consult the requested provider", func(t *testing.T) {
		t.Parallel()

		// given
		github := acmeProvider("svc")
		gitlab := &doubles.SpyProviderRepository{ProviderName: "GitLab", Accepts: true}
		providers := providerRegistryWith(
			map[string]*doubles.SpyProviderRepository{"github": github, "gitlab": gitlab},
			"github", "gitlab",
		)
		cmd := commands.NewDiscoverCommand(
			providers, analyzerRegistryWith(), &doubles.SpyProgressReporter{}, &doubles.StubCatalogRepository{},
		)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL:          "https://github.com/acme",
			ProviderName: "gitlab",
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, github.DiscoveredURLs)
		assert.Equal(t, []string{"https://github.com/acme"}, gitlab.DiscoveredURLs)
	})

	t.Run("should return an error for an unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewDiscoverCommand(
			providerRegistryWith(nil), analyzerRegistryWith(),
			&doubles.SpyProgressReporter{}, &doubles.StubCatalogRepository{},
		)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL:          "https://github.com/acme",
			ProviderName: "bitbucket",
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider type")
	})

	t.Run("should return an error for an unknown analyzer", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewDiscoverCommand(
			providerRegistryWith(nil), analyzerRegistryWith(),
			&doubles.SpyProgressReporter{}, &doubles.StubCatalogRepository{},
		)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL:       "https://github.com/acme",
			Analyzers: []string{"cobol"},
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown analyzer")
	})

	t.Run("should require a URL", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewDiscoverCommand(
			providerRegistryWith(nil), analyzerRegistryWith(),
			&doubles.SpyProgressReporter{}, &doubles.StubCatalogRepository{},
		)

		// when
		err := cmd.Execute(context.Background(), nil, commands.DiscoverOptions{})

		// then
		require.Error(t, err)
	})

	t.Run("should not write the catalog when discovery fails", func(t *testing.T) {
		t.Parallel()

		// given
		discoverErr := errors.New("service unavailable")
		providers := providerRegistryWith(
			map[string]*doubles.SpyProviderRepository{
				"github": {ProviderName: "GitHub", Accepts: true, DiscoverErr: discoverErr},
			},
			"github",
		)
		catalog := &doubles.StubCatalogRepository{}
		cmd := commands.NewDiscoverCommand(providers, analyzerRegistryWith(), &doubles.SpyProgressReporter{}, catalog)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL: "https://github.com/acme",
		})

		// then
		require.ErrorIs(t, err, discoverErr)
		assert.Zero(t, catalog.WriteCallCount)
	})

	t.Run("should propagate catalog write failures", func(t *testing.T) {
		t.Parallel()

		// given
		writeErr := errors.New("read-only file system")
		providers := providerRegistryWith(
			map[string]*doubles.SpyProviderRepository{"github": acmeProvider("svc")},
			"github",
		)
		analyzers := analyzerRegistryWith(&doubles.StubAnalyzerRepository{
			AnalyzerName: "basic",
			AnalyzeFunc: func(repository entities.Repository, output *entities.AnalysisOutputs) {
				output.EntityOrNew(repository.Name())
			},
		})
		catalog := &doubles.StubCatalogRepository{WriteErr: writeErr}
		cmd := commands.NewDiscoverCommand(providers, analyzers, &doubles.SpyProgressReporter{}, catalog)

		// when
		err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.DiscoverOptions{
			URL: "https://github.com/acme",
		})

		// then
		require.ErrorIs(t, err, writeErr)
		assert.Empty(t, catalog.RegisteredAppConfig)
	})
}
