//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalogdiscovery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should fill in defaults for an empty file", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettings(t, "{}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.IntegrationConfig{
			{Host: entities.DefaultGitHubHost, APIBaseURL: entities.DefaultGitHubAPIBaseURL},
		}, settings.Integrations.GitHub)
		assert.Equal(t, []entities.IntegrationConfig{
			{Host: entities.DefaultGitLabHost, APIBaseURL: entities.DefaultGitLabAPIBaseURL},
		}, settings.Integrations.GitLab)
		assert.Equal(t, entities.DefaultConcurrency, settings.Discovery.Concurrency)
		assert.Equal(t, entities.DefaultMaxPages, settings.Discovery.MaxPages)
		assert.Equal(t, entities.DefaultTimeout, settings.Discovery.Timeout)
		assert.Equal(t, entities.DefaultCatalogFile, settings.Output.CatalogFile)
		assert.Equal(t, entities.DefaultAppConfigFile, settings.Output.AppConfigFile)
	})

	t.Run("should keep configured instances next to the public one", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettings(t, `
integrations:
  github:
    - host: ghe.acme.io
      api_base_url: https://ghe.acme.io/api/v3
      token: inline-token
discovery:
  concurrency: 4
  timeout: 30s
  fail_fast: true
output:
  catalog_file: catalog/all.yaml
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		require.Len(t, settings.Integrations.GitHub, 2)
		assert.Equal(t, "ghe.acme.io", settings.Integrations.GitHub[0].Host)
		assert.Equal(t, "inline-token", settings.Integrations.GitHub[0].Token)
		assert.Equal(t, entities.DefaultGitHubHost, settings.Integrations.GitHub[1].Host)
		assert.Equal(t, 4, settings.Discovery.Concurrency)
		assert.Equal(t, 30*time.Second, settings.Discovery.Timeout)
		assert.True(t, settings.Discovery.FailFast)
		assert.Equal(t, "catalog/all.yaml", settings.Output.CatalogFile)
	})

	t.Run("should read a token from a file", func(t *testing.T) {
		t.Parallel()

		// given
		tokenPath := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenPath, []byte("file-token\n"), 0o600))
		path := writeSettings(t, "integrations:\n  gitlab:\n    - host: gitlab.com\n      token: "+tokenPath+"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-token", settings.Integrations.GitLab[0].Token)
		assert.Equal(t, entities.DefaultGitLabAPIBaseURL, settings.Integrations.GitLab[0].APIBaseURL)
	})

	t.Run("should reject an integration without an API base URL", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettings(t, "integrations:\n  gitlab:\n    - host: gitlab.acme.io\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Nil(t, settings)
		assert.Contains(t, err.Error(), "api_base_url is required")
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Nil(t, settings)
	})
}

//nolint:paralleltest // t.Setenv cannot be combined with t.Parallel
func TestNewSettings_ExpandsEnvironmentVariables(t *testing.T) {
	// given
	t.Setenv("CATALOGDISCOVERY_TEST_TOKEN", "env-token")
	path := writeSettings(t, "integrations:\n  github:\n    - host: github.com\n      token: ${CATALOGDISCOVERY_TEST_TOKEN}\n")

	// when
	settings, err := entities.NewSettings(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, "env-token", settings.Integrations.GitHub[0].Token)
}

func TestIntegrationForURL(t *testing.T) {
	t.Parallel()

	integrations := []entities.IntegrationConfig{
		{Host: "github.com", APIBaseURL: entities.DefaultGitHubAPIBaseURL},
		{Host: "ghe.acme.io", APIBaseURL: "https://ghe.acme.io/api/v3"},
	}

	tests := []struct {
		name     string
		rawURL   string
		expected string
		found    bool
	}{
		{name: "should match the public host", rawURL: "https://github.com/acme", expected: "github.com", found: true},
		{name: "should match hosts case-insensitively", rawURL: "https://GHE.acme.io/x", expected: "ghe.acme.io", found: true},
		{name: "should not match another host", rawURL: "https://gitlab.com/acme", found: false},
		{name: "should not match a file URL", rawURL: "file:///src/acme", found: false},
		{name: "should not match a bare path", rawURL: "/src/acme", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			rawURL := tt.rawURL

			// when
			integration, found := entities.IntegrationForURL(integrations, rawURL)

			// then
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, integration.Host)
		})
	}
}
