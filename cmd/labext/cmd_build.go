package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jovyanlabs/labext/internal/config"
	"github.com/jovyanlabs/labext/internal/domain-adapters/gateways"
	orchestrators "github.com/jovyanlabs/labext/internal/domain-orchestrators"
	"github.com/jovyanlabs/labext/internal/domain/entities"
	"github.com/jovyanlabs/labext/internal/domain/services"
	"github.com/jovyanlabs/labext/internal/external-adapters/gpg"
	"github.com/jovyanlabs/labext/internal/external-adapters/yaml"
)

func runBuild(ctx context.Context, args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		format      = fs.String("format", entities.FormatSdist, "Distribution format (sdist or bdist)")
		platform    = fs.String("platform", "", "Platform tag for bdist (default: current platform)")
		sourceDir   = fs.String("source-dir", cfg.SourceDir, "Extension project directory")
		distDir     = fs.String("dist-dir", cfg.DistDir, "Output directory for built archives")
		signKey     = fs.String("sign", cfg.SigningKey, "Private key file for detached signing")
		noChecksums = fs.Bool("no-checksums", false, "Skip checksum sidecar generation")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext build [options]

Build a distribution archive from the extension project.

The project must carry an extension.yml manifest and the JavaScript
components must have been built first (node_modules present); otherwise the
build fails before producing any output.

Examples:
  labext build                              # sdist from the current directory
  labext build --format bdist               # bdist tagged with this platform
  labext build --sign ~/keys/release.asc    # also write a detached signature

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	buildPlatform := *platform
	if *format == entities.FormatBdist && buildPlatform == "" {
		buildPlatform = detectPlatform()
		fmt.Printf("Auto-detected platform: %s\n", buildPlatform)
	}

	// Initialize adapters
	parser := yaml.NewManifestParser()
	manifestRepo := yaml.NewManifestRepository()
	preflight := gateways.NewPreflightChecker()
	packager := gateways.NewPackager(parser)
	checksums := services.NewDistArtifactsService()

	var signer orchestrators.Signer
	if *signKey != "" {
		gpgSigner := gpg.NewSigner()
		if err := gpgSigner.ImportKeyFromFile(*signKey); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		signer = gpgSigner
	}

	buildOrch := orchestrators.NewBuildOrchestrator(
		manifestRepo,
		preflight,
		packager,
		checksums,
		signer,
		orchestrators.BuildOrchestratorConfig{
			SourceDir:     *sourceDir,
			DistDir:       *distDir,
			SkipChecksums: *noChecksums,
		},
	)

	result, err := buildOrch.BuildDistribution(ctx, *format, buildPlatform)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.GetBuildSummary())
}

// loadConfig loads environment defaults, falling back to the built-in
// defaults when the environment cannot be parsed
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return config.Default()
	}
	return cfg
}
