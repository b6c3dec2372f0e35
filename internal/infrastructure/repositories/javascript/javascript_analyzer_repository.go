package javascript

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

const (
	analyzerName = "javascript"
	manifestPath = "package.json"

	// AnnotationPackageName keeps the declared package name, which may not be a valid entity name.
	AnnotationPackageName = "catalogdiscovery.io/npm-package"
)

// frameworkTags maps well-known dependencies to the tag they contribute.
var frameworkTags = map[string]string{ //nolint:gochecknoglobals // read-only lookup table
	"typescript":                 "typescript",
	"react":                      "react",
	"vue":                        "vue",
	"@angular/core":              "angular",
	"svelte":                     "svelte",
	"next":                       "nextjs",
	"express":                    "express",
	"fastify":                    "fastify",
	"@nestjs/core":               "nestjs",
	"@backstage/core-plugin-api": "backstage",
}

type packageManifest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Keywords        []string          `json:"keywords"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// JavaScriptAnalyzerRepository enriches the entity of repositories holding a
// package.json at their root.
type JavaScriptAnalyzerRepository struct{}

// NewAnalyzerRepository creates the package.json analyzer.
func NewAnalyzerRepository() repositories.AnalyzerRepository {
	return &JavaScriptAnalyzerRepository{}
}

func (a *JavaScriptAnalyzerRepository) Name() string { return analyzerName }

// Analyze lets the manifest name and description override the ones derived
// from the repository. A malformed manifest contributes nothing.
func (a *JavaScriptAnalyzerRepository) Analyze(
	ctx context.Context,
	repository entities.Repository,
	output *entities.AnalysisOutputs,
) error {
	files, err := repository.Files(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files of %s: %w", repository.Name(), err)
	}

	file, found := entities.FindFile(files, manifestPath)
	if !found {
		return nil
	}

	var manifest packageManifest
	if unmarshalErr := json.Unmarshal([]byte(file.Content), &manifest); unmarshalErr != nil {
		logger.Debugf("Ignoring malformed %s of %s: %v", manifestPath, repository.Name(), unmarshalErr)
		return nil
	}

	entity := output.EntityOrNew(repository.Name())
	if name := entities.SanitizeEntityName(manifest.Name); name != "" {
		entity.Metadata.Name = name
		entity.SetAnnotation(AnnotationPackageName, strings.TrimSpace(manifest.Name))
	}
	if manifest.Description != "" {
		entity.Metadata.Description = manifest.Description
	}

	entity.AddTags("javascript")
	entity.AddTags(manifest.Keywords...)
	entity.AddTags(dependencyTags(manifest)...)
	return nil
}

// dependencyTags returns the framework tags sorted by dependency name so that
// the output does not depend on map iteration.
func dependencyTags(manifest packageManifest) []string {
	var tags []string
	for _, dependency := range slices.Sorted(maps.Keys(frameworkTags)) {
		_, inDeps := manifest.Dependencies[dependency]
		_, inDevDeps := manifest.DevDependencies[dependency]
		if inDeps || inDevDeps {
			tags = append(tags, frameworkTags[dependency])
		}
	}
	return tags
}
