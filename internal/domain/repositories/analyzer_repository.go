package repositories

import (
	"context"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// AnalyzerRepository inspects the content of a repository and records facts about it.
// Analyzers are independent from each other and only ever append to, or enrich
// entities already present in, the output sink.
type AnalyzerRepository interface {
	// Name returns the analyzer identifier (e.g. "basic", "codeowners").
	Name() string

	// Analyze records zero or more outputs for repository. Finding nothing is not
	// an error; only I/O failures are reported.
	Analyze(ctx context.Context, repository entities.Repository, output *entities.AnalysisOutputs) error
}
