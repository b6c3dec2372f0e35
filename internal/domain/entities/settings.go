package entities

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGitHubHost       = "github.com"
	DefaultGitHubAPIBaseURL = "https://api.github.com"
	DefaultGitLabHost       = "gitlab.com"
	DefaultGitLabAPIBaseURL = "https://gitlab.com/api/v4"

	DefaultConcurrency       = 1
	DefaultFileConcurrency   = 8
	DefaultMaxPages          = 1000
	DefaultTimeout           = 10 * time.Minute
	DefaultRequestsPerSecond = 10

	DefaultCatalogFile   = "examples/entities.yaml"
	DefaultAppConfigFile = "app-config.yaml"
)

// Settings is the top-level configuration for catalogdiscovery.
type Settings struct {
	Integrations Integrations      `yaml:"integrations"`
	Discovery    DiscoverySettings `yaml:"discovery"`
	Output       OutputSettings    `yaml:"output"`
}

// Integrations lists the hosting platform instances discovery may talk to.
type Integrations struct {
	GitHub []IntegrationConfig `yaml:"github"`
	GitLab []IntegrationConfig `yaml:"gitlab"`
}

// IntegrationConfig describes a single hosting platform instance.
type IntegrationConfig struct {
	Host       string `yaml:"host"`
	APIBaseURL string `yaml:"api_base_url"`
	Token      string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// DiscoverySettings bounds the remote work done by a discovery run.
type DiscoverySettings struct {
	Concurrency       int           `yaml:"concurrency"`
	FileConcurrency   int           `yaml:"file_concurrency"`
	MaxPages          int           `yaml:"max_pages"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	FailFast          bool          `yaml:"fail_fast"`
}

// OutputSettings controls where the produced catalog is written.
type OutputSettings struct {
	CatalogFile   string `yaml:"catalog_file"`
	AppConfigFile string `yaml:"app_config_file"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables, resolving token file paths and filling in defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	for i := range settings.Integrations.GitHub {
		settings.Integrations.GitHub[i].Token = resolveToken(settings.Integrations.GitHub[i].Token)
	}
	for i := range settings.Integrations.GitLab {
		settings.Integrations.GitLab[i].Token = resolveToken(settings.Integrations.GitLab[i].Token)
	}

	settings.applyDefaults()
	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// NewDefaultSettings returns the settings used when no config file exists:
// the public github.com and gitlab.com instances with environment tokens only.
func NewDefaultSettings() *Settings {
	var settings Settings
	settings.applyDefaults()
	return &settings
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or ErrConfigNotFound.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".catalogdiscovery.yaml",
		".catalogdiscovery.yml",
		"catalogdiscovery.yaml",
		"catalogdiscovery.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", ErrConfigNotFound
}

// IntegrationForURL returns the integration whose host serves rawURL.
func IntegrationForURL(integrations []IntegrationConfig, rawURL string) (IntegrationConfig, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return IntegrationConfig{}, false
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return IntegrationConfig{}, false
	}
	for _, integration := range integrations {
		if strings.EqualFold(integration.Host, parsed.Host) {
			return integration, true
		}
	}
	return IntegrationConfig{}, false
}

func (s *Settings) applyDefaults() {
	s.Integrations.GitHub = withDefaultIntegration(
		s.Integrations.GitHub, DefaultGitHubHost, DefaultGitHubAPIBaseURL,
	)
	s.Integrations.GitLab = withDefaultIntegration(
		s.Integrations.GitLab, DefaultGitLabHost, DefaultGitLabAPIBaseURL,
	)

	if s.Discovery.Concurrency <= 0 {
		s.Discovery.Concurrency = DefaultConcurrency
	}
	if s.Discovery.FileConcurrency <= 0 {
		s.Discovery.FileConcurrency = DefaultFileConcurrency
	}
	if s.Discovery.MaxPages <= 0 {
		s.Discovery.MaxPages = DefaultMaxPages
	}
	if s.Discovery.Timeout <= 0 {
		s.Discovery.Timeout = DefaultTimeout
	}
	if s.Discovery.RequestsPerSecond <= 0 {
		s.Discovery.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if s.Output.CatalogFile == "" {
		s.Output.CatalogFile = DefaultCatalogFile
	}
	if s.Output.AppConfigFile == "" {
		s.Output.AppConfigFile = DefaultAppConfigFile
	}
}

// withDefaultIntegration makes sure the public instance is always present, and
// derives "https://<host>/api/..." style base URLs for entries that omit one.
func withDefaultIntegration(integrations []IntegrationConfig, host, apiBaseURL string) []IntegrationConfig {
	hasDefault := false
	for i := range integrations {
		if strings.EqualFold(integrations[i].Host, host) {
			hasDefault = true
			if integrations[i].APIBaseURL == "" {
				integrations[i].APIBaseURL = apiBaseURL
			}
		}
	}
	if !hasDefault {
		integrations = append(integrations, IntegrationConfig{Host: host, APIBaseURL: apiBaseURL})
	}
	return integrations
}

// validate checks for required configuration values.
func (s *Settings) validate() error {
	for i, integration := range s.Integrations.GitHub {
		if integration.Host == "" {
			return fmt.Errorf("integrations.github[%d].host is required", i)
		}
		if integration.APIBaseURL == "" {
			return fmt.Errorf("integrations.github[%d].api_base_url is required for host %q", i, integration.Host)
		}
	}
	for i, integration := range s.Integrations.GitLab {
		if integration.Host == "" {
			return fmt.Errorf("integrations.gitlab[%d].host is required", i)
		}
		if integration.APIBaseURL == "" {
			return fmt.Errorf("integrations.gitlab[%d].api_base_url is required for host %q", i, integration.Host)
		}
	}
	return nil
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
	if resolved == "" {
		return resolved
	}

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
