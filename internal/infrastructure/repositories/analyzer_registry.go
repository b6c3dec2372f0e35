package repositories

import (
	"fmt"
	"strings"

	domainRepos "github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// AnalyzerRegistry manages the analyzer implementations in registration order,
// which is also the order they enrich an entity in.
type AnalyzerRegistry struct {
	analyzers []domainRepos.AnalyzerRepository
}

// NewAnalyzerRegistry creates an empty analyzer registry.
func NewAnalyzerRegistry() *AnalyzerRegistry {
	return &AnalyzerRegistry{}
}

// Register appends an analyzer.
func (r *AnalyzerRegistry) Register(a domainRepos.AnalyzerRepository) {
	r.analyzers = append(r.analyzers, a)
}

// Get returns the analyzer with the given name, or nil if not registered.
func (r *AnalyzerRegistry) Get(name string) domainRepos.AnalyzerRepository {
	for _, a := range r.analyzers {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// All returns every registered analyzer in registration order.
func (r *AnalyzerRegistry) All() []domainRepos.AnalyzerRepository {
	return append([]domainRepos.AnalyzerRepository(nil), r.analyzers...)
}

// Select returns the named analyzers in registration order. An empty list
// selects all of them; "basic" is always kept so every repository yields an entity.
func (r *AnalyzerRegistry) Select(names []string) ([]domainRepos.AnalyzerRepository, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	wanted := map[string]bool{"basic": true}
	for _, name := range names {
		if r.Get(name) == nil {
			return nil, fmt.Errorf("unknown analyzer: %q (available: %s)", name, strings.Join(r.Names(), ", "))
		}
		wanted[name] = true
	}

	var selected []domainRepos.AnalyzerRepository
	for _, a := range r.analyzers {
		if wanted[a.Name()] {
			selected = append(selected, a)
		}
	}
	return selected, nil
}

// Names returns the registered analyzer names in registration order.
func (r *AnalyzerRegistry) Names() []string {
	names := make([]string, 0, len(r.analyzers))
	for _, a := range r.analyzers {
		names = append(names, a.Name())
	}
	return names
}
