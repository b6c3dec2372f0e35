package codeowners

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

const analyzerName = "codeowners"

// Locations are searched in the order GitHub applies them; the first one found is used.
var Locations = []string{ //nolint:gochecknoglobals // read-only lookup table
	".github/CODEOWNERS",
	"CODEOWNERS",
	"docs/CODEOWNERS",
	".gitlab/CODEOWNERS",
}

// CodeownersAnalyzerRepository sets the entity owner from the rule covering the
// whole repository in its CODEOWNERS file.
type CodeownersAnalyzerRepository struct{}

// NewAnalyzerRepository creates the ownership-file analyzer.
func NewAnalyzerRepository() repositories.AnalyzerRepository {
	return &CodeownersAnalyzerRepository{}
}

func (a *CodeownersAnalyzerRepository) Name() string { return analyzerName }

func (a *CodeownersAnalyzerRepository) Analyze(
	ctx context.Context,
	repository entities.Repository,
	output *entities.AnalysisOutputs,
) error {
	files, err := repository.Files(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files of %s: %w", repository.Name(), err)
	}

	for _, location := range Locations {
		file, found := entities.FindFile(files, location)
		if !found {
			continue
		}

		owner := ParseOwnershipRules(file.Content).RootOwner()
		if owner == "" {
			logger.Debugf("%s of %s has no rule for the whole repository", location, repository.Name())
			return nil
		}
		output.EntityOrNew(repository.Name()).Spec.Owner = NormalizeOwner(owner)
		return nil
	}
	return nil
}
