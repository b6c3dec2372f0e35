package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories"
)

var errMissingURL = errors.New("a root URL is required")

// Discover is the interface for the discover command.
type Discover interface {
	Execute(ctx context.Context, settings *entities.Settings, opts DiscoverOptions) error
}

// DiscoverOptions holds the runtime options of a single discovery.
type DiscoverOptions struct {
	URL           string
	ProviderName  string   // If set, only this provider is consulted
	Analyzers     []string // If set, only these analyzers (plus "basic") run
	CatalogFile   string   // Overrides settings.Output.CatalogFile
	AppConfigFile string   // Overrides settings.Output.AppConfigFile
	Concurrency   int      // Overrides settings.Discovery.Concurrency when positive
	DryRun        bool
}

// DiscoverCommand onboards the repositories under a root URL: it discovers
// them, writes their entities to the catalog file and registers that file in
// the application config.
type DiscoverCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	analyzerRegistry *infraRepos.AnalyzerRegistry
	reporter         repositories.ProgressReporter
	catalog          repositories.CatalogRepository
}

// NewDiscoverCommand creates a new DiscoverCommand.
func NewDiscoverCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	analyzerRegistry *infraRepos.AnalyzerRegistry,
	reporter repositories.ProgressReporter,
	catalog repositories.CatalogRepository,
) *DiscoverCommand {
	return &DiscoverCommand{
		providerRegistry: providerRegistry,
		analyzerRegistry: analyzerRegistry,
		reporter:         reporter,
		catalog:          catalog,
	}
}

// Execute runs one discovery bounded by settings.Discovery.Timeout. Nothing is
// written when discovery fails or finds nothing.
func (it *DiscoverCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts DiscoverOptions,
) error {
	if opts.URL == "" {
		return errMissingURL
	}
	if settings == nil {
		settings = entities.NewDefaultSettings()
	}
	if settings.Discovery.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Discovery.Timeout)
		defer cancel()
	}

	discovery, err := it.newDiscovery(settings, opts)
	if err != nil {
		return err
	}

	found, err := discovery.Run(ctx, opts.URL)
	if err != nil {
		return fmt.Errorf("discovery of %s failed: %w", opts.URL, err)
	}
	if len(found) == 0 {
		it.reporter.Log("Nothing found unfortunately")
		return nil
	}
	warnDuplicateNames(found)

	catalogFile := firstNonEmpty(opts.CatalogFile, settings.Output.CatalogFile, entities.DefaultCatalogFile)
	appConfigFile := firstNonEmpty(opts.AppConfigFile, settings.Output.AppConfigFile)

	if opts.DryRun {
		for _, entity := range found {
			it.reporter.Log(fmt.Sprintf("[DRY RUN] Would add %s", entity.Metadata.Name))
		}
		logger.Infof("[DRY RUN] Would write %d entities to %s", len(found), catalogFile)
		return nil
	}

	err = it.reporter.ForItem("Writing", fmt.Sprintf("%d entities to %s", len(found), catalogFile), func() error {
		return it.catalog.WriteEntities(catalogFile, found)
	})
	if err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", catalogFile, err)
	}
	it.reporter.Log("Wrote " + catalogFile)

	if appConfigFile == "" {
		return nil
	}
	err = it.reporter.ForItem("Registering", catalogFile+" in "+appConfigFile, func() error {
		return it.catalog.RegisterLocation(appConfigFile, catalogFile)
	})
	if err != nil {
		return fmt.Errorf("failed to register %s in %s: %w", catalogFile, appConfigFile, err)
	}
	return nil
}

func (it *DiscoverCommand) newDiscovery(settings *entities.Settings, opts DiscoverOptions) (*Discovery, error) {
	providers, err := it.providerRegistry.Build(settings, opts.ProviderName)
	if err != nil {
		return nil, err
	}
	analyzers, err := it.analyzerRegistry.Select(opts.Analyzers)
	if err != nil {
		return nil, err
	}

	concurrency := settings.Discovery.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	discovery := NewDiscovery(it.reporter, DiscoveryOptions{
		Concurrency: concurrency,
		FailFast:    settings.Discovery.FailFast,
	})
	for _, provider := range providers {
		discovery.AddProvider(provider)
	}
	for _, analyzer := range analyzers {
		discovery.AddAnalyzer(analyzer)
	}
	return discovery, nil
}

// warnDuplicateNames reports entity names produced more than once; the catalog
// would reject all but one of them.
func warnDuplicateNames(found []entities.CatalogEntity) {
	seen := make(map[string]bool, len(found))
	for _, entity := range found {
		if seen[entity.Metadata.Name] {
			logger.Warnf("Entity name %q is produced by more than one repository", entity.Metadata.Name)
		}
		seen[entity.Metadata.Name] = true
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
