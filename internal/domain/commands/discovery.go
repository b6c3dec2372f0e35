package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// DiscoveryOptions tunes how a Discovery analyzes the repositories it finds.
type DiscoveryOptions struct {
	// Concurrency is the number of repositories analyzed in parallel; values
	// below one mean one. The result order never depends on it.
	Concurrency int
	// FailFast turns an analyzer error into a fatal error for the run instead
	// of a warning that skips the failing analyzer for that repository.
	FailFast bool
}

// Discovery turns a root URL into catalog entities: the first provider that
// accepts the URL lists the repositories, then every analyzer runs over each
// repository, in registration order, against a sink of its own.
type Discovery struct {
	reporter  repositories.ProgressReporter
	options   DiscoveryOptions
	providers []repositories.ProviderRepository
	analyzers []repositories.AnalyzerRepository
}

// NewDiscovery creates a Discovery without providers or analyzers.
func NewDiscovery(reporter repositories.ProgressReporter, options DiscoveryOptions) *Discovery {
	return &Discovery{reporter: reporter, options: options}
}

// AddProvider registers a provider after the ones already registered.
func (it *Discovery) AddProvider(provider repositories.ProviderRepository) {
	it.providers = append(it.providers, provider)
}

// AddAnalyzer registers an analyzer after the ones already registered.
func (it *Discovery) AddAnalyzer(analyzer repositories.AnalyzerRepository) {
	it.analyzers = append(it.analyzers, analyzer)
}

// Run returns the entities of every repository under rawURL, in the order the
// provider listed the repositories. A URL no provider accepts yields an empty
// list. Any error is fatal and discards what was collected so far.
func (it *Discovery) Run(ctx context.Context, rawURL string) ([]entities.CatalogEntity, error) {
	it.reporter.Log(fmt.Sprintf("Running discovery for %s...", rawURL))

	for _, provider := range it.providers {
		found, accepted, err := provider.Discover(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to discover repositories with %s: %w", provider.Name(), err)
		}
		if !accepted {
			logger.Debugf("%s does not handle %s", provider.Name(), rawURL)
			continue
		}

		it.reporter.Log(fmt.Sprintf("Discovered %d repositories for %s", len(found), provider.Name()))
		result, err := it.analyzeAll(ctx, found)
		if err != nil {
			return nil, err
		}

		if len(result) == 0 {
			it.reporter.Log("Produced no entities")
		} else {
			it.reporter.Log(fmt.Sprintf("Produced %d entities", len(result)))
		}
		return result, nil
	}

	logger.Warnf("No provider handles %s", rawURL)
	return []entities.CatalogEntity{}, nil
}

func (it *Discovery) analyzeAll(
	ctx context.Context,
	found []entities.Repository,
) ([]entities.CatalogEntity, error) {
	perRepository := make([][]entities.CatalogEntity, len(found))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(it.options.Concurrency, 1))
	for i, repository := range found {
		group.Go(func() error {
			produced, err := it.analyze(groupCtx, repository)
			perRepository[i] = produced
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := []entities.CatalogEntity{}
	for _, produced := range perRepository {
		result = append(result, produced...)
	}
	return result, nil
}

// analyze runs every analyzer over repository with a fresh sink.
func (it *Discovery) analyze(
	ctx context.Context,
	repository entities.Repository,
) ([]entities.CatalogEntity, error) {
	output := entities.NewAnalysisOutputs()
	err := it.reporter.ForItem("Analyzing", repository.Name(), func() error {
		for _, analyzer := range it.analyzers {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := analyzer.Analyze(ctx, repository, output); err != nil {
				if it.options.FailFast {
					return fmt.Errorf("analyzer %s failed on %s: %w", analyzer.Name(), repository.URL(), err)
				}
				logger.Warnf("Analyzer %s failed on %s, skipping it: %v", analyzer.Name(), repository.URL(), err)
			}
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	produced := output.Entities()
	if len(produced) > 0 {
		logger.Infof("    Found %d entities", len(produced))
	}
	return produced, nil
}
