// Package yaml provides YAML-based manifest parsing and repository
// implementations.
package yaml

import (
	"fmt"
	"os"

	"github.com/jovyanlabs/labext/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlManifest represents the raw YAML structure of extension.yml and of the
// metadata document embedded in built archives
type yamlManifest struct {
	Name               string   `yaml:"name"`
	Version            string   `yaml:"version"`
	Description        string   `yaml:"description,omitempty"`
	Packages           []string `yaml:"packages"`
	Author             string   `yaml:"author,omitempty"`
	AuthorEmail        string   `yaml:"author_email,omitempty"`
	Keywords           []string `yaml:"keywords,omitempty"`
	IncludePackageData bool     `yaml:"include_package_data,omitempty"`
	Requires           []string `yaml:"requires,omitempty"`
}

// ManifestParser parses YAML manifest documents
type ManifestParser struct{}

// NewManifestParser creates a new YAML parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses a YAML manifest file into a Manifest entity
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is the project manifest path from repository
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Manifest entity
func (p *ManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var ym yamlManifest
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if ym.Name == "" {
		return nil, fmt.Errorf("manifest must have a name")
	}

	return &entities.Manifest{
		Name:               ym.Name,
		Version:            ym.Version,
		Description:        ym.Description,
		Packages:           ym.Packages,
		Author:             ym.Author,
		AuthorEmail:        ym.AuthorEmail,
		Keywords:           ym.Keywords,
		IncludePackageData: ym.IncludePackageData,
		Requires:           ym.Requires,
	}, nil
}

// DecodeManifest decodes an embedded metadata document. It satisfies the
// installer's decoder contract.
func (p *ManifestParser) DecodeManifest(data []byte) (*entities.Manifest, error) {
	return p.Parse(data)
}

// EncodeManifest serializes a manifest into the metadata document embedded
// in built archives. Decoding the result yields the manifest unchanged.
func (p *ManifestParser) EncodeManifest(m *entities.Manifest) ([]byte, error) {
	ym := yamlManifest{
		Name:               m.Name,
		Version:            m.Version,
		Description:        m.Description,
		Packages:           m.Packages,
		Author:             m.Author,
		AuthorEmail:        m.AuthorEmail,
		Keywords:           m.Keywords,
		IncludePackageData: m.IncludePackageData,
		Requires:           m.Requires,
	}

	data, err := yaml.Marshal(&ym)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return data, nil
}
