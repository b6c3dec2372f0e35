//go:build unit

package catalog_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/catalog"
)

func TestYAMLCatalogRepository_WriteEntities(t *testing.T) {
	t.Parallel()

	t.Run("should write one document per entity and create missing directories", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "examples", "entities.yaml")
		first := entities.NewComponentEntity("svc-a")
		first.Spec.Owner = "platform"
		second := entities.NewComponentEntity("svc-b")
		repo := catalog.NewYAMLCatalogRepository()

		// when
		err := repo.WriteEntities(path, []entities.CatalogEntity{*first, *second})

		// then
		require.NoError(t, err)
		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()

		var decoded []entities.CatalogEntity
		decoder := yaml.NewDecoder(file)
		for {
			var entity entities.CatalogEntity
			decodeErr := decoder.Decode(&entity)
			if errors.Is(decodeErr, io.EOF) {
				break
			}
			require.NoError(t, decodeErr)
			decoded = append(decoded, entity)
		}
		assert.Equal(t, []entities.CatalogEntity{*first, *second}, decoded)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(raw), "---"))
		assert.Contains(t, string(raw), "apiVersion: backstage.io/v1alpha1")
	})

	t.Run("should replace an existing catalog", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "entities.yaml")
		require.NoError(t, os.WriteFile(path, []byte("stale: true\n"), 0o600))
		repo := catalog.NewYAMLCatalogRepository()

		// when
		err := repo.WriteEntities(path, []entities.CatalogEntity{*entities.NewComponentEntity("svc")})

		// then
		require.NoError(t, err)
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "stale")
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

type appConfig struct {
	App struct {
		Title string `yaml:"title"`
	} `yaml:"app"`
	Catalog struct {
		Locations []struct {
			Type   string `yaml:"type"`
			Target string `yaml:"target"`
		} `yaml:"locations"`
	} `yaml:"catalog"`
}

func readAppConfig(t *testing.T, path string) appConfig {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var config appConfig
	require.NoError(t, yaml.Unmarshal(raw, &config))
	return config
}

func TestYAMLCatalogRepository_RegisterLocation(t *testing.T) {
	t.Parallel()

	t.Run("should create the app config with a location relative to it", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		appConfigPath := filepath.Join(dir, "app-config.yaml")
		repo := catalog.NewYAMLCatalogRepository()

		// when
		err := repo.RegisterLocation(appConfigPath, filepath.Join(dir, "examples", "entities.yaml"))

		// then
		require.NoError(t, err)
		config := readAppConfig(t, appConfigPath)
		require.Len(t, config.Catalog.Locations, 1)
		assert.Equal(t, "file", config.Catalog.Locations[0].Type)
		assert.Equal(t, "examples/entities.yaml", config.Catalog.Locations[0].Target)
	})

	t.Run("should append to existing locations and keep the rest of the file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		appConfigPath := filepath.Join(dir, "app-config.yaml")
		require.NoError(t, os.WriteFile(appConfigPath, []byte(`# local overrides
app:
  title: Acme Portal
catalog:
  locations:
    - type: url
      target: https://github.com/acme/catalog/blob/main/all.yaml
`), 0o600))
		repo := catalog.NewYAMLCatalogRepository()

		// when
		err := repo.RegisterLocation(appConfigPath, filepath.Join(dir, "entities.yaml"))

		// then
		require.NoError(t, err)
		config := readAppConfig(t, appConfigPath)
		assert.Equal(t, "Acme Portal", config.App.Title)
		require.Len(t, config.Catalog.Locations, 2)
		assert.Equal(t, "url", config.Catalog.Locations[0].Type)
		assert.Equal(t, "entities.yaml", config.Catalog.Locations[1].Target)
		raw, err := os.ReadFile(appConfigPath)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "# local overrides")
	})

	t.Run("should not register the same target twice", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		appConfigPath := filepath.Join(dir, "app-config.yaml")
		catalogPath := filepath.Join(dir, "entities.yaml")
		repo := catalog.NewYAMLCatalogRepository()
		require.NoError(t, repo.RegisterLocation(appConfigPath, catalogPath))

		// when
		err := repo.RegisterLocation(appConfigPath, catalogPath)

		// then
		require.NoError(t, err)
		assert.Len(t, readAppConfig(t, appConfigPath).Catalog.Locations, 1)
	})

	t.Run("should fill an empty catalog section", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		appConfigPath := filepath.Join(dir, "app-config.yaml")
		require.NoError(t, os.WriteFile(appConfigPath, []byte("catalog:\n"), 0o600))
		repo := catalog.NewYAMLCatalogRepository()

		// when
		err := repo.RegisterLocation(appConfigPath, filepath.Join(dir, "entities.yaml"))

		// then
		require.NoError(t, err)
		assert.Len(t, readAppConfig(t, appConfigPath).Catalog.Locations, 1)
	})

	t.Run("should refuse a config whose locations are not a list", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		appConfigPath := filepath.Join(dir, "app-config.yaml")
		require.NoError(t, os.WriteFile(appConfigPath, []byte("catalog:\n  locations: none\n"), 0o600))
		repo := catalog.NewYAMLCatalogRepository()

		// when
		err := repo.RegisterLocation(appConfigPath, filepath.Join(dir, "entities.yaml"))

		// then
		require.Error(t, err)
	})
}
