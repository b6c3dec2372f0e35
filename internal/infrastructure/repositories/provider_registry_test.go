//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	domainRepos "github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/catalogdiscovery/test/infrastructure/repositorydoubles"
)

func spyFactory(name string) infraRepos.ProviderFactory {
	return func(_ *entities.Settings, _ domainRepos.CredentialsRepository) domainRepos.ProviderRepository {
		return &doubles.SpyProviderRepository{ProviderName: name}
	}
}

func providerNames(providers []domainRepos.ProviderRepository) []string {
	names := make([]string, 0, len(providers))
	for _, provider := range providers {
		names = append(names, provider.Name())
	}
	return names
}

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should build every provider in registration order", func(t *testing.T) {
		t.Parallel()

		// given
		reg := infraRepos.NewProviderRegistry(nil)
		reg.Register("github", spyFactory("GitHub"))
		reg.Register("gitlab", spyFactory("GitLab"))
		reg.Register("local", spyFactory("Local"))

		// when
		providers, err := reg.Build(entities.NewDefaultSettings(), "")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"GitHub", "GitLab", "Local"}, providerNames(providers))
	})

	t.Run("should build only the requested provider", func(t *testing.T) {
		t.Parallel()

		// given
		reg := infraRepos.NewProviderRegistry(nil)
		reg.Register("github", spyFactory("GitHub"))
		reg.Register("gitlab", spyFactory("GitLab"))

		// when
		providers, err := reg.Build(entities.NewDefaultSettings(), "GitLab")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"GitLab"}, providerNames(providers))
	})

	t.Run("should return error for unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		reg := infraRepos.NewProviderRegistry(nil)
		reg.Register("github", spyFactory("GitHub"))

		// when
		providers, err := reg.Build(entities.NewDefaultSettings(), "bitbucket")

		// then
		require.Error(t, err)
		assert.Nil(t, providers)
		assert.Contains(t, err.Error(), "unknown provider type")
		assert.Contains(t, err.Error(), "github")
	})

	t.Run("should share one credentials resolver between providers", func(t *testing.T) {
		t.Parallel()

		// given
		resolver := &doubles.StubCredentialsRepository{}
		var received []domainRepos.CredentialsRepository
		reg := infraRepos.NewProviderRegistry(func(_ *entities.Settings) domainRepos.CredentialsRepository {
			return resolver
		})
		capture := func(_ *entities.Settings, r domainRepos.CredentialsRepository) domainRepos.ProviderRepository {
			received = append(received, r)
			return &doubles.SpyProviderRepository{}
		}
		reg.Register("github", capture)
		reg.Register("gitlab", capture)

		// when
		_, err := reg.Build(entities.NewDefaultSettings(), "")

		// then
		require.NoError(t, err)
		require.Len(t, received, 2)
		assert.Same(t, resolver, received[0])
		assert.Same(t, resolver, received[1])
	})

	t.Run("should keep the position of a replaced provider", func(t *testing.T) {
		t.Parallel()

		// given
		reg := infraRepos.NewProviderRegistry(nil)
		reg.Register("github", spyFactory("GitHub"))
		reg.Register("gitlab", spyFactory("GitLab"))
		reg.Register("github", spyFactory("GitHub Enterprise"))

		// when
		providers, err := reg.Build(entities.NewDefaultSettings(), "")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"github", "gitlab"}, reg.Names())
		assert.Equal(t, []string{"GitHub Enterprise", "GitLab"}, providerNames(providers))
	})

	t.Run("should register the default providers", func(t *testing.T) {
		t.Parallel()

		// given
		reg := infraRepos.NewDefaultProviderRegistry()

		// when
		providers, err := reg.Build(entities.NewDefaultSettings(), "")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"github", "gitlab", "local"}, reg.Names())
		assert.Equal(t, []string{"GitHub", "GitLab", "Local"}, providerNames(providers))
	})
}
