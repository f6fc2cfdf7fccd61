package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jovyanlabs/labext/internal/domain-adapters/gateways"
	"github.com/jovyanlabs/labext/internal/domain/services"
	"github.com/jovyanlabs/labext/internal/external-adapters/yaml"
)

func runValidate(ctx context.Context, args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var (
		sourceDir = fs.String("source-dir", cfg.SourceDir, "Extension project directory")
		distDir   = fs.String("dist-dir", cfg.DistDir, "Dist directory checked for existing artifacts")
		quiet     = fs.Bool("quiet", false, "Only output problems (exit code indicates success/failure)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext validate [options]

Validate the extension manifest: metadata rules, version format, requirement
constraints and declared package directories.

Exit Codes:
  0  Manifest is valid
  1  Validation failed
  2  Usage error or system error

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	manifestRepo := yaml.NewManifestRepository()
	m, err := manifestRepo.Load(ctx, *sourceDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	metadata := services.NewMetadataService()
	problems := metadata.Validate(m)

	// Declared package directories must exist in the working tree
	for _, pkg := range m.Packages {
		pkgDir := filepath.Join(*sourceDir, pkg)
		if info, err := os.Stat(pkgDir); err != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("package directory %s not found", pkg))
		}
	}

	if len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "Manifest %s is invalid:\n", m.Name)
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  - %s\n", p)
		}
		os.Exit(1)
	}

	if *quiet {
		return
	}

	fmt.Printf("Manifest %s %s is valid\n", m.Name, m.Version)

	// Informational: artifacts already built for this version
	finder := gateways.NewArtifactFinder()
	artifacts, err := finder.FindDistributionArtifacts(*distDir, m.Name, m.Version)
	if err == nil && len(artifacts) > 0 {
		fmt.Printf("\nExisting artifacts:\n")
		for _, a := range artifacts {
			fmt.Printf("  %s\n", a)
		}
	}
}
