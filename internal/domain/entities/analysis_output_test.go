//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

func TestAnalysisOutputs(t *testing.T) {
	t.Parallel()

	t.Run("should keep outputs in insertion order", func(t *testing.T) {
		t.Parallel()

		// given
		output := entities.NewAnalysisOutputs()

		// when
		output.AddEntity("b", entities.NewComponentEntity("b"))
		output.AddEntity("a", entities.NewComponentEntity("a"))

		// then
		list := output.List()
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[0].Key)
		assert.Equal(t, "a", list[1].Key)
		assert.Equal(t, entities.OutputKindEntity, list[0].Kind)
	})

	t.Run("should return the recorded entity for enrichment", func(t *testing.T) {
		t.Parallel()

		// given
		output := entities.NewAnalysisOutputs()
		output.EntityOrNew("svc")

		// when
		output.EntityOrNew("svc").Spec.Owner = "team-a"

		// then
		found := output.Entities()
		require.Len(t, found, 1)
		assert.Equal(t, "team-a", found[0].Spec.Owner)
	})

	t.Run("should find an entity by key even after it was renamed", func(t *testing.T) {
		t.Parallel()

		// given
		output := entities.NewAnalysisOutputs()
		output.EntityOrNew("svc").Metadata.Name = "svc-pkg"

		// when
		entity := output.Entity("svc")

		// then
		require.NotNil(t, entity)
		assert.Equal(t, "svc-pkg", entity.Metadata.Name)
		assert.Nil(t, output.Entity("svc-pkg"))
	})

	t.Run("should not expose its storage through List", func(t *testing.T) {
		t.Parallel()

		// given
		output := entities.NewAnalysisOutputs()
		output.AddEntity("svc", entities.NewComponentEntity("svc"))

		// when
		list := output.List()
		list[0].Key = "changed"

		// then
		assert.Equal(t, "svc", output.List()[0].Key)
	})

	t.Run("should return no entities for an empty sink", func(t *testing.T) {
		t.Parallel()

		// given
		output := entities.NewAnalysisOutputs()

		// when
		found := output.Entities()

		// then
		assert.Empty(t, found)
	})
}
