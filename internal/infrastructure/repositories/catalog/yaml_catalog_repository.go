package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

const (
	locationType = "file"
	yamlIndent   = 2
	dirMode      = 0o755
	fileMode     = 0o644
)

// YAMLCatalogRepository writes entities as a multi-document YAML file and
// registers it under "catalog.locations" of the application config.
type YAMLCatalogRepository struct{}

// NewYAMLCatalogRepository creates the YAML catalog writer.
func NewYAMLCatalogRepository() repositories.CatalogRepository {
	return &YAMLCatalogRepository{}
}

// WriteEntities replaces path with one "---"-separated document per entity.
// The file is written next to its destination and renamed into place, so a
// failure never leaves a truncated catalog behind.
func (r *YAMLCatalogRepository) WriteEntities(path string, catalog []entities.CatalogEntity) error {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	for i := range catalog {
		if err := encoder.Encode(&catalog[i]); err != nil {
			return fmt.Errorf("failed to encode entity %q: %w", catalog[i].Metadata.Name, err)
		}
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	return writeFileAtomically(path, buffer.Bytes())
}

// RegisterLocation adds a {type: file, target: ...} entry for catalogPath to
// appConfigPath, creating the file when missing. The target is relative to the
// directory of the config file. Existing content and comments are preserved and
// an already registered target is left alone.
func (r *YAMLCatalogRepository) RegisterLocation(appConfigPath, catalogPath string) error {
	target, err := relativeTarget(appConfigPath, catalogPath)
	if err != nil {
		return err
	}

	var document yaml.Node
	data, err := os.ReadFile(appConfigPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read %q: %w", appConfigPath, err)
	default:
		if unmarshalErr := yaml.Unmarshal(data, &document); unmarshalErr != nil {
			return fmt.Errorf("failed to parse %q: %w", appConfigPath, unmarshalErr)
		}
	}

	root, err := documentRoot(&document)
	if err != nil {
		return fmt.Errorf("failed to update %q: %w", appConfigPath, err)
	}
	locations := ensureKey(ensureKey(root, "catalog", yaml.MappingNode), "locations", yaml.SequenceNode)
	if locations.Kind != yaml.SequenceNode {
		return fmt.Errorf("failed to update %q: catalog.locations is not a list", appConfigPath)
	}

	for _, location := range locations.Content {
		if scalarValue(location, "type") == locationType && scalarValue(location, "target") == target {
			logger.Infof("%s already registers %s", appConfigPath, target)
			return nil
		}
	}
	locations.Content = append(locations.Content, &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("type"), scalar(locationType),
			scalar("target"), scalar(target),
		},
	})

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeErr := encoder.Encode(&document); encodeErr != nil {
		return fmt.Errorf("failed to encode %q: %w", appConfigPath, encodeErr)
	}
	if closeErr := encoder.Close(); closeErr != nil {
		return fmt.Errorf("failed to encode %q: %w", appConfigPath, closeErr)
	}
	return writeFileAtomically(appConfigPath, buffer.Bytes())
}

func relativeTarget(appConfigPath, catalogPath string) (string, error) {
	configDir, err := filepath.Abs(filepath.Dir(appConfigPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", appConfigPath, err)
	}
	catalogAbs, err := filepath.Abs(catalogPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", catalogPath, err)
	}
	rel, err := filepath.Rel(configDir, catalogAbs)
	if err != nil {
		return filepath.ToSlash(catalogAbs), nil //nolint:nilerr // different volumes, keep the absolute path
	}
	return filepath.ToSlash(rel), nil
}

// documentRoot returns the top-level mapping of document, initializing an empty document.
func documentRoot(document *yaml.Node) (*yaml.Node, error) {
	if document.Kind == 0 {
		document.Kind = yaml.DocumentNode
	}
	if len(document.Content) == 0 {
		document.Content = []*yaml.Node{{Kind: yaml.MappingNode}}
	}
	root := document.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("top-level value is not a mapping")
	}
	return root, nil
}

// ensureKey returns the value under key in mapping, adding an empty node of
// the given kind when absent or null.
func ensureKey(mapping *yaml.Node, key string, kind yaml.Kind) *yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return mapping
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}
		value := mapping.Content[i+1]
		if value.Tag == "!!null" || (value.Kind == yaml.ScalarNode && value.Value == "") {
			*value = yaml.Node{Kind: kind}
		}
		return value
	}
	value := &yaml.Node{Kind: kind}
	mapping.Content = append(mapping.Content, scalar(key), value)
	return value
}

func scalarValue(mapping *yaml.Node, key string) string {
	if mapping.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1].Value
		}
	}
	return ""
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func writeFileAtomically(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // best effort, gone after a successful rename

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), fileMode); err != nil {
		return fmt.Errorf("failed to set permissions of %q: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}
