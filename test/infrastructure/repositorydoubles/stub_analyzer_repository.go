//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// StubAnalyzerRepository runs AnalyzeFunc (when set) and records every repository it saw.
type StubAnalyzerRepository struct {
	AnalyzerName string
	AnalyzeFunc  func(repository entities.Repository, output *entities.AnalysisOutputs)
	AnalyzeErr   error

	mu       sync.Mutex
	analyzed []string
}

var _ repositories.AnalyzerRepository = (*StubAnalyzerRepository)(nil)

func (s *StubAnalyzerRepository) Name() string { return s.AnalyzerName }

func (s *StubAnalyzerRepository) Analyze(
	_ context.Context,
	repository entities.Repository,
	output *entities.AnalysisOutputs,
) error {
	s.mu.Lock()
	s.analyzed = append(s.analyzed, repository.Name())
	s.mu.Unlock()

	if s.AnalyzeErr != nil {
		return s.AnalyzeErr
	}
	if s.AnalyzeFunc != nil {
		s.AnalyzeFunc(repository, output)
	}
	return nil
}

// Analyzed returns the names of the analyzed repositories in call order.
func (s *StubAnalyzerRepository) Analyzed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.analyzed...)
}
