package gateways

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ArtifactFinder locates built distribution artifacts in a dist directory
type ArtifactFinder struct{}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder() *ArtifactFinder {
	return &ArtifactFinder{}
}

// FindDistributionArtifacts returns the archives and sidecars already built
// for a package version: .tar.gz, .sha256, .sha512 and .asc files
func (f *ArtifactFinder) FindDistributionArtifacts(distDir, name, version string) ([]string, error) {
	versionClean := strings.TrimPrefix(version, "v")

	patterns := []string{
		fmt.Sprintf("%s-%s.tar.gz", name, versionClean),
		fmt.Sprintf("%s-%s.tar.gz.*", name, versionClean),
		fmt.Sprintf("%s-%s-*.tar.gz", name, versionClean),
		fmt.Sprintf("%s-%s-*.tar.gz.*", name, versionClean),
	}

	seen := make(map[string]bool)
	var artifacts []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(distDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid artifact pattern %s: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			switch {
			case strings.HasSuffix(m, ".tar.gz"),
				strings.HasSuffix(m, ".sha256"),
				strings.HasSuffix(m, ".sha512"),
				strings.HasSuffix(m, ".asc"):
				seen[m] = true
				artifacts = append(artifacts, m)
			}
		}
	}

	sort.Strings(artifacts)
	return artifacts, nil
}
