// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/jovyanlabs/labext/internal/domain/entities"
)

// ManifestRepository defines the interface for loading extension manifests
type ManifestRepository interface {
	// Load reads the manifest of the project rooted at dir
	Load(ctx context.Context, dir string) (*entities.Manifest, error)

	// LoadFile reads a manifest from an explicit file path
	LoadFile(ctx context.Context, path string) (*entities.Manifest, error)
}
