package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jovyanlabs/labext/internal/domain/entities"
)

// ManifestFilenames are the file names probed for a project manifest, in
// order of preference
var ManifestFilenames = []string{"extension.yml", "extension.yaml"}

// ManifestRepository implements repositories.ManifestRepository using YAML
// files in the project directory
type ManifestRepository struct {
	parser *ManifestParser
}

// NewManifestRepository creates a new YAML-based manifest repository
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{
		parser: NewManifestParser(),
	}
}

// Load reads the manifest of the project rooted at dir
func (r *ManifestRepository) Load(_ context.Context, dir string) (*entities.Manifest, error) {
	for _, name := range ManifestFilenames {
		filePath := filepath.Join(dir, name)
		if _, err := os.Stat(filePath); err == nil {
			return r.parser.ParseFile(filePath)
		}
	}
	return nil, fmt.Errorf("no manifest found in %s (expected %s)", dir, ManifestFilenames[0])
}

// LoadFile reads a manifest from an explicit file path
func (r *ManifestRepository) LoadFile(_ context.Context, path string) (*entities.Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("manifest not found: %s", path)
	}
	return r.parser.ParseFile(path)
}
