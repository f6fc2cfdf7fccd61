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

func runList(_ context.Context, args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("list", flag.ExitOnError)
	var (
		prefix      = fs.String("prefix", cfg.Prefix, "Installation prefix")
		developOnly = fs.Bool("develop", false, "Only show develop-mode installs")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext list [options]

List extensions installed in a prefix.

Examples:
  labext list
  labext list --prefix ~/.local
  labext list --develop

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	installer := gateways.NewInstaller(yaml.NewManifestParser(), services.NewMetadataService(), cfg.AppName, &interfaces.StderrLogger{})
	installed, err := installer.ListInstalled(*prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing extensions: %v\n", err)
		os.Exit(1)
	}

	if *developOnly {
		filtered := installed[:0]
		for _, ext := range installed {
			if ext.Develop {
				filtered = append(filtered, ext)
			}
		}
		installed = filtered
	}

	if len(installed) == 0 {
		fmt.Printf("No extensions installed in %s\n", *prefix)
		return
	}

	fmt.Printf("Installed extensions (%d total):\n\n", len(installed))
	for _, ext := range installed {
		mode := ""
		if ext.Develop {
			mode = " (develop)"
		}
		fmt.Printf("  %-24s %s%s\n", ext.Name, ext.Version, mode)
		fmt.Printf("  %-24s %s\n", "", ext.Location)
	}
}
