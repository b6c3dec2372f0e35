package entities

import (
	"regexp"
	"slices"
	"strings"
)

const (
	CatalogAPIVersion = "backstage.io/v1alpha1"
	KindComponent     = "Component"

	DefaultComponentType = "service"
	DefaultLifecycle     = "experimental"

	AnnotationSourceLocation = "backstage.io/source-location"
	AnnotationProjectSlug    = "catalogdiscovery.io/project-slug"

	maxNameLength = 63
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]+`)
	invalidTagChars  = regexp.MustCompile(`[^a-z0-9:+#]+`)
)

// CatalogEntity is a software catalog record describing one discovered repository.
type CatalogEntity struct {
	APIVersion string         `yaml:"apiVersion"`
	Kind       string         `yaml:"kind"`
	Metadata   EntityMetadata `yaml:"metadata"`
	Spec       EntitySpec     `yaml:"spec"`
}

// EntityMetadata holds the identifying and descriptive part of an entity.
type EntityMetadata struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	Links       []EntityLink      `yaml:"links,omitempty"`
}

// EntityLink is an external link attached to an entity.
type EntityLink struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
}

// EntitySpec holds the kind-specific fields of a Component.
type EntitySpec struct {
	Type      string `yaml:"type"`
	Lifecycle string `yaml:"lifecycle"`
	Owner     string `yaml:"owner,omitempty"`
}

// NewComponentEntity creates a Component with the default type and lifecycle.
func NewComponentEntity(name string) *CatalogEntity {
	return &CatalogEntity{
		APIVersion: CatalogAPIVersion,
		Kind:       KindComponent,
		Metadata: EntityMetadata{
			Name: SanitizeEntityName(name),
		},
		Spec: EntitySpec{
			Type:      DefaultComponentType,
			Lifecycle: DefaultLifecycle,
		},
	}
}

// SetAnnotation sets an annotation, allocating the map on first use.
func (e *CatalogEntity) SetAnnotation(key, value string) {
	if e.Metadata.Annotations == nil {
		e.Metadata.Annotations = make(map[string]string)
	}
	e.Metadata.Annotations[key] = value
}

// AddTags normalizes the given tags and appends the ones not yet present.
func (e *CatalogEntity) AddTags(tags ...string) {
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized == "" || slices.Contains(e.Metadata.Tags, normalized) {
			continue
		}
		e.Metadata.Tags = append(e.Metadata.Tags, normalized)
	}
}

// AddLink appends a link unless one with the same URL already exists.
func (e *CatalogEntity) AddLink(url, title string) {
	for _, link := range e.Metadata.Links {
		if link.URL == url {
			return
		}
	}
	e.Metadata.Links = append(e.Metadata.Links, EntityLink{URL: url, Title: title})
}

// SanitizeEntityName turns an arbitrary identifier (e.g. "@acme/web-app") into a
// valid entity name ("acme-web-app").
func SanitizeEntityName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_.")
	if len(name) > maxNameLength {
		name = strings.TrimRight(name[:maxNameLength], "-_.")
	}
	return name
}

// NormalizeTag lower-cases a tag and collapses every unsupported character run into "-".
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = invalidTagChars.ReplaceAllString(tag, "-")
	tag = strings.Trim(tag, "-")
	if len(tag) > maxNameLength {
		tag = strings.TrimRight(tag[:maxNameLength], "-")
	}
	return tag
}
