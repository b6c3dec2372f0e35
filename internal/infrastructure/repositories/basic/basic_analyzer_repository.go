package basic

import (
	"context"
	"strings"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

const analyzerName = "basic"

// BasicAnalyzerRepository records the baseline entity of every repository from
// its identity alone. It never reads files.
type BasicAnalyzerRepository struct{}

// NewAnalyzerRepository creates the basic analyzer.
func NewAnalyzerRepository() repositories.AnalyzerRepository {
	return &BasicAnalyzerRepository{}
}

func (a *BasicAnalyzerRepository) Name() string { return analyzerName }

func (a *BasicAnalyzerRepository) Analyze(
	_ context.Context,
	repository entities.Repository,
	output *entities.AnalysisOutputs,
) error {
	entity := output.EntityOrNew(repository.Name())

	if description := repository.Description(); description != "" && entity.Metadata.Description == "" {
		entity.Metadata.Description = description
	}

	if url := repository.URL(); url != "" {
		entity.SetAnnotation(entities.AnnotationSourceLocation, "url:"+strings.TrimSuffix(url, "/")+"/")
		entity.AddLink(url, "Repository")
	}
	if owner := repository.Owner(); owner != "" {
		entity.SetAnnotation(entities.AnnotationProjectSlug, owner+"/"+repository.Name())
	}

	entity.AddTags(repository.Topics()...)
	return nil
}
