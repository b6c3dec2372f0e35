package terraform

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	logger "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

const (
	analyzerName = "terraform"

	// ComponentTypeInfrastructure replaces the default component type of
	// repositories holding a root Terraform configuration.
	ComponentTypeInfrastructure = "infrastructure"
)

var rootSchema = &hcl.BodySchema{ //nolint:gochecknoglobals // immutable schema
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "terraform"},
		{Type: "provider", LabelNames: []string{"name"}},
	},
}

var terraformSchema = &hcl.BodySchema{ //nolint:gochecknoglobals // immutable schema
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "required_providers"},
	},
}

// TerraformAnalyzerRepository tags repositories whose root holds *.tf files
// with "terraform" and the providers they configure.
type TerraformAnalyzerRepository struct{}

// NewAnalyzerRepository creates the Terraform analyzer.
func NewAnalyzerRepository() repositories.AnalyzerRepository {
	return &TerraformAnalyzerRepository{}
}

func (a *TerraformAnalyzerRepository) Name() string { return analyzerName }

func (a *TerraformAnalyzerRepository) Analyze(
	ctx context.Context,
	repository entities.Repository,
	output *entities.AnalysisOutputs,
) error {
	files, err := repository.Files(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files of %s: %w", repository.Name(), err)
	}

	parser := hclparse.NewParser()
	var providers []string
	found := false
	for _, file := range files {
		if strings.Contains(file.Path, "/") || path.Ext(file.Path) != ".tf" {
			continue
		}
		found = true

		hclFile, diags := parser.ParseHCL([]byte(file.Content), file.Path)
		if diags.HasErrors() {
			logger.Debugf("Ignoring malformed %s of %s: %s", file.Path, repository.Name(), diags.Error())
			continue
		}
		providers = append(providers, providerNames(hclFile.Body)...)
	}
	if !found {
		return nil
	}

	entity := output.EntityOrNew(repository.Name())
	entity.AddTags("terraform")
	entity.AddTags(providers...)
	if entity.Spec.Type == entities.DefaultComponentType {
		entity.Spec.Type = ComponentTypeInfrastructure
	}
	return nil
}

// providerNames collects the names of "provider" blocks and of the entries of
// "terraform { required_providers { ... } }", in declaration order.
func providerNames(body hcl.Body) []string {
	content, _, _ := body.PartialContent(rootSchema)
	if content == nil {
		return nil
	}

	var names []string
	for _, block := range content.Blocks {
		switch block.Type {
		case "provider":
			names = append(names, block.Labels[0])
		case "terraform":
			names = append(names, requiredProviders(block.Body)...)
		}
	}
	return names
}

// requiredProviders prefers the type part of a "source" address
// ("hashicorp/aws" gives "aws") over the local name.
func requiredProviders(body hcl.Body) []string {
	content, _, _ := body.PartialContent(terraformSchema)
	if content == nil {
		return nil
	}

	var names []string
	for _, block := range content.Blocks {
		attributes, _ := block.Body.JustAttributes()
		for _, attribute := range sortedAttributes(attributes) {
			names = append(names, providerName(attribute))
		}
	}
	return names
}

func providerName(attribute *hcl.Attribute) string {
	value, diags := attribute.Expr.Value(nil)
	if diags.HasErrors() || value.IsNull() || !value.IsKnown() {
		return attribute.Name
	}
	if !value.Type().IsObjectType() || !value.Type().HasAttribute("source") {
		return attribute.Name
	}
	source := value.GetAttr("source")
	if source.IsNull() || !source.IsKnown() || !source.Type().Equals(cty.String) {
		return attribute.Name
	}
	address := source.AsString()
	return address[strings.LastIndex(address, "/")+1:]
}

// sortedAttributes orders attributes by their position in the source.
func sortedAttributes(attributes hcl.Attributes) []*hcl.Attribute {
	list := make([]*hcl.Attribute, 0, len(attributes))
	for _, attribute := range attributes {
		list = append(list, attribute)
	}
	slices.SortFunc(list, func(a, b *hcl.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})
	return list
}
