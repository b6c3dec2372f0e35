//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/catalogdiscovery/test/infrastructure/repositorydoubles"
)

func analyzerNames(analyzers []domainRepos.AnalyzerRepository) []string {
	names := make([]string, 0, len(analyzers))
	for _, analyzer := range analyzers {
		names = append(names, analyzer.Name())
	}
	return names
}

func registryOf(names ...string) *infraRepos.AnalyzerRegistry {
	reg := infraRepos.NewAnalyzerRegistry()
	for _, name := range names {
		reg.Register(&doubles.StubAnalyzerRepository{AnalyzerName: name})
	}
	return reg
}

func TestAnalyzerRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should select every analyzer when no name is given", func(t *testing.T) {
		t.Parallel()

		// given
		reg := registryOf("basic", "javascript", "codeowners")

		// when
		selected, err := reg.Select(nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"basic", "javascript", "codeowners"}, analyzerNames(selected))
	})

	t.Run("should keep the registration order and the basic analyzer", func(t *testing.T) {
		t.Parallel()

		// given
		reg := registryOf("basic", "javascript", "golang", "codeowners")

		// when
		selected, err := reg.Select([]string{"codeowners", "javascript"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"basic", "javascript", "codeowners"}, analyzerNames(selected))
	})

	t.Run("should return error for unknown analyzer", func(t *testing.T) {
		t.Parallel()

		// given
		reg := registryOf("basic")

		// when
		selected, err := reg.Select([]string{"cobol"})

		// then
		require.Error(t, err)
		assert.Nil(t, selected)
		assert.Contains(t, err.Error(), "unknown analyzer")
	})

	t.Run("should return nil for an unregistered name", func(t *testing.T) {
		t.Parallel()

		// given
		reg := registryOf("basic")

		// when
		analyzer := reg.Get("terraform")

		// then
		assert.Nil(t, analyzer)
	})

	t.Run("should register the default analyzers with basic first", func(t *testing.T) {
		t.Parallel()

		// given
		reg := infraRepos.NewDefaultAnalyzerRegistry()

		// when
		names := reg.Names()

		// then
		assert.Equal(t, []string{"basic", "javascript", "golang", "terraform", "codeowners"}, names)
	})
}
