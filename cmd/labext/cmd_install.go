package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jovyanlabs/labext/internal/domain-adapters/gateways"
	"github.com/jovyanlabs/labext/internal/domain/interfaces"
	"github.com/jovyanlabs/labext/internal/domain/services"
	"github.com/jovyanlabs/labext/internal/external-adapters/yaml"
)

func runInstall(ctx context.Context, args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("install", flag.ExitOnError)
	var (
		prefix     = fs.String("prefix", cfg.Prefix, "Installation prefix")
		appVersion = fs.String("app-version", "", "Host application version (default: detected from prefix)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext install <archive> [options]

Install a built archive into <prefix>/labextensions/<name>. The manifest
embedded in the archive is checked against the host application version
first; when the version cannot be determined the check is left to the host
application.

Examples:
  labext install dist/myextension-0.1.0.tar.gz
  labext install dist/myextension-0.1.0.tar.gz --prefix ~/.local --app-version 4.0.0

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: archive path is required\n\n")
		fs.Usage()
		os.Exit(2)
	}
	archivePath := fs.Arg(0)

	installer := gateways.NewInstaller(yaml.NewManifestParser(), services.NewMetadataService(), cfg.AppName, &interfaces.StderrLogger{})
	m, err := installer.Install(ctx, archivePath, *prefix, *appVersion)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Installed %s %s\n", m.Name, m.Version)
	fmt.Printf("Location: %s\n", filepath.Join(*prefix, "labextensions", m.Name))
}
