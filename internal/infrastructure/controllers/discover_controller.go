package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/commands"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// DiscoverController handles the "discover" subcommand.
type DiscoverController struct {
	command commands.Discover
}

// NewDiscoverController creates a new DiscoverController.
func NewDiscoverController(command commands.Discover) *DiscoverController {
	return &DiscoverController{command: command}
}

// GetBind returns the Cobra command metadata for the discover controller.
func (it *DiscoverController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "discover <url>",
		Short: "Discover repositories and write their catalog entities",
		Long: `Discover every repository under a URL and describe it as a catalog entity.

The URL may point at a GitHub organization or user, a GitLab group or
project, a single repository, or a local clone (a path or file:// URL).
Each repository is analyzed (package.json, go.mod, Terraform files and
CODEOWNERS) and the resulting entities are written to a single catalog
file, which is then registered in the application config.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute runs a discovery for the URL given as the only argument.
func (it *DiscoverController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	providerName, _ := cmd.Flags().GetString("provider")
	analyzers, _ := cmd.Flags().GetStringSlice("analyzers")
	output, _ := cmd.Flags().GetString("output")
	appConfig, _ := cmd.Flags().GetString("app-config")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	failFast, _ := cmd.Flags().GetBool("fail-fast")
	if failFast {
		settings.Discovery.FailFast = true
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return it.command.Execute(ctx, settings, commands.DiscoverOptions{
		URL:           strings.TrimSpace(args[0]),
		ProviderName:  providerName,
		Analyzers:     analyzers,
		CatalogFile:   output,
		AppConfigFile: appConfig,
		Concurrency:   concurrency,
		DryRun:        dryRun,
	})
}

// AddFlags adds the discover-specific flags to the given Cobra command.
func (it *DiscoverController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Only consult this provider (github, gitlab, local)")
	cmd.Flags().StringSlice("analyzers", nil,
		"Only run these analyzers (basic, javascript, golang, terraform, codeowners)")
	cmd.Flags().StringP("output", "o", "",
		fmt.Sprintf("Catalog file to write (default %q)", entities.DefaultCatalogFile))
	cmd.Flags().String("app-config", "",
		fmt.Sprintf("Application config to register the catalog in (default %q)", entities.DefaultAppConfigFile))
	cmd.Flags().Int("concurrency", 0, "Number of repositories analyzed in parallel")
	cmd.Flags().Bool("dry-run", false, "Show what would be written without writing anything")
	cmd.Flags().Bool("fail-fast", false, "Abort the run on the first analyzer error")
}

// loadSettings reads --config, then the first config file found in the default
// locations, and falls back to the public instances when there is none.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if errors.Is(err, entities.ErrConfigNotFound) {
			logger.Debug("No config file found, using the public GitHub and GitLab instances")
			return entities.NewDefaultSettings(), nil
		}
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}
