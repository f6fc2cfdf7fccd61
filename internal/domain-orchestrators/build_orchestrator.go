// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/jovyanlabs/labext/internal/domain/entities"
	"github.com/jovyanlabs/labext/internal/domain/interfaces/repositories"
	"github.com/jovyanlabs/labext/internal/domain/services"
)

// Preflight checks packaging preconditions before any output is produced
type Preflight interface {
	Check(sourceDir string) error
}

// Packager builds a distribution archive from the working tree
type Packager interface {
	PackageDistribution(ctx context.Context, m *entities.Manifest, sourceDir, format, platform, distDir string) (*entities.Distribution, error)
}

// ChecksumWriter writes checksum sidecars for a built archive
type ChecksumWriter interface {
	WriteChecksums(archivePath string) (*services.DistArtifacts, error)
}

// Signer writes a detached signature for a built archive
type Signer interface {
	SignDetached(dataPath, sigPath string) error
}

// BuildOrchestrator coordinates the complete distribution build workflow
type BuildOrchestrator struct {
	manifestRepo  repositories.ManifestRepository
	preflight     Preflight
	packager      Packager
	checksums     ChecksumWriter
	signer        Signer
	sourceDir     string
	distDir       string
	skipChecksums bool
}

// BuildOrchestratorConfig holds configuration for the orchestrator
type BuildOrchestratorConfig struct {
	SourceDir     string
	DistDir       string
	SkipChecksums bool
}

// NewBuildOrchestrator creates a new build orchestrator. signer may be nil
// when signing is not requested; checksums may be nil only when
// SkipChecksums is set.
func NewBuildOrchestrator(
	manifestRepo repositories.ManifestRepository,
	preflight Preflight,
	packager Packager,
	checksums ChecksumWriter,
	signer Signer,
	config BuildOrchestratorConfig,
) *BuildOrchestrator {
	sourceDir := config.SourceDir
	if sourceDir == "" {
		sourceDir = "."
	}
	distDir := config.DistDir
	if distDir == "" {
		distDir = "dist"
	}

	return &BuildOrchestrator{
		manifestRepo:  manifestRepo,
		preflight:     preflight,
		packager:      packager,
		checksums:     checksums,
		signer:        signer,
		sourceDir:     sourceDir,
		distDir:       distDir,
		skipChecksums: config.SkipChecksums,
	}
}

// BuildResult contains the result of a build operation
type BuildResult struct {
	Manifest      *entities.Manifest
	Distribution  *entities.Distribution
	Sidecars      []string
	SignaturePath string
	BuildDuration time.Duration
	TotalDuration time.Duration
	Success       bool
	Error         error
}

// BuildDistribution executes the complete build workflow: preflight guard,
// manifest load, packaging, checksum sidecars and optional signing. The
// preflight check runs first so that a violated precondition fails the build
// before any output exists.
func (o *BuildOrchestrator) BuildDistribution(ctx context.Context, format, platform string) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{}

	// Step 1: Preflight guard, before anything is written
	if err := o.preflight.Check(o.sourceDir); err != nil {
		result.Error = err
		return result, result.Error
	}

	// Step 2: Load the manifest
	m, err := o.manifestRepo.Load(ctx, o.sourceDir)
	if err != nil {
		result.Error = fmt.Errorf("failed to load manifest: %w", err)
		return result, result.Error
	}
	result.Manifest = m

	// Step 3: Package the declared metadata and package directories
	buildStart := time.Now()
	dist, err := o.packager.PackageDistribution(ctx, m, o.sourceDir, format, platform, o.distDir)
	if err != nil {
		result.Error = fmt.Errorf("packaging failed: %w", err)
		return result, result.Error
	}
	result.Distribution = dist
	result.BuildDuration = time.Since(buildStart)

	// Step 4: Checksum sidecars
	if !o.skipChecksums {
		artifacts, err := o.checksums.WriteChecksums(dist.Path)
		if err != nil {
			result.Error = fmt.Errorf("failed to write checksums: %w", err)
			return result, result.Error
		}
		result.Sidecars = []string{artifacts.SHA256Path, artifacts.SHA512Path}
	}

	// Step 5: Detached signature
	if o.signer != nil {
		sigPath := dist.Path + ".asc"
		if err := o.signer.SignDetached(dist.Path, sigPath); err != nil {
			result.Error = fmt.Errorf("failed to sign archive: %w", err)
			return result, result.Error
		}
		result.SignaturePath = sigPath
	}

	result.Success = true
	result.TotalDuration = time.Since(startTime)
	return result, nil
}

// GetBuildSummary returns a human-readable summary of the build
func (r *BuildResult) GetBuildSummary() string {
	if !r.Success {
		return fmt.Sprintf("Build failed: %v", r.Error)
	}

	summary := fmt.Sprintf(`Build successful!
Package: %s %s
Format: %s
Archive: %s`,
		r.Manifest.Name, r.Manifest.Version, r.Distribution.Format, r.Distribution.Path)

	for _, sidecar := range r.Sidecars {
		summary += fmt.Sprintf("\nChecksum: %s", sidecar)
	}
	if r.SignaturePath != "" {
		summary += fmt.Sprintf("\nSignature: %s", r.SignaturePath)
	}
	summary += fmt.Sprintf("\nTotal: %v", r.TotalDuration.Round(time.Millisecond))
	return summary
}
