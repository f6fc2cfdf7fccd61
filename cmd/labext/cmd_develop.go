package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jovyanlabs/labext/internal/domain-adapters/gateways"
	"github.com/jovyanlabs/labext/internal/domain/interfaces"
	"github.com/jovyanlabs/labext/internal/domain/services"
	"github.com/jovyanlabs/labext/internal/external-adapters/yaml"
)

func runDevelop(ctx context.Context, args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("develop", flag.ExitOnError)
	var (
		sourceDir  = fs.String("source-dir", cfg.SourceDir, "Extension project directory")
		prefix     = fs.String("prefix", cfg.Prefix, "Installation prefix")
		appVersion = fs.String("app-version", "", "Host application version (default: detected from prefix)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext develop [options]

Link-install the working tree into a prefix. Instead of copying files, a
develop record pointing at the source directory is written into
<prefix>/labextensions, so edits to the tree are picked up without
reinstalling.

The same precondition as build applies: the JavaScript components must have
been built first (node_modules present).

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	// Same guard as build: fail before touching the prefix
	preflight := gateways.NewPreflightChecker()
	if err := preflight.Check(*sourceDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	manifestRepo := yaml.NewManifestRepository()
	m, err := manifestRepo.Load(ctx, *sourceDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	metadata := services.NewMetadataService()
	if problems := metadata.Validate(m); len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "Error: manifest is invalid:\n")
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  - %s\n", p)
		}
		os.Exit(1)
	}

	installer := gateways.NewInstaller(yaml.NewManifestParser(), metadata, cfg.AppName, &interfaces.StderrLogger{})
	linkPath, err := installer.Develop(ctx, m, *sourceDir, *prefix, *appVersion)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Installed %s %s in develop mode\n", m.Name, m.Version)
	fmt.Printf("Link: %s\n", linkPath)
}
