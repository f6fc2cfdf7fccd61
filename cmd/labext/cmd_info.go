package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jovyanlabs/labext/internal/domain/entities"
	"github.com/jovyanlabs/labext/internal/external-adapters/yaml"
)

// manifestInfo is the JSON shape of the info command output
type manifestInfo struct {
	Name               string   `json:"name"`
	Version            string   `json:"version"`
	Description        string   `json:"description,omitempty"`
	Packages           []string `json:"packages"`
	Author             string   `json:"author,omitempty"`
	AuthorEmail        string   `json:"author_email,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	IncludePackageData bool     `json:"include_package_data"`
	Requires           []string `json:"requires,omitempty"`
}

func runInfo(ctx context.Context, args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("info", flag.ExitOnError)
	var (
		sourceDir = fs.String("source-dir", cfg.SourceDir, "Extension project directory")
		format    = fs.String("format", "json", "Output format (json or yaml)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext info [options]

Print the resolved extension metadata.

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
		os.Exit(1)
	}

	switch *format {
	case "json":
		if err := printJSON(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "yaml":
		data, err := yaml.NewManifestParser().EncodeManifest(m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (json or yaml)\n", *format)
		os.Exit(2)
	}
}

func printJSON(m *entities.Manifest) error {
	info := manifestInfo{
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

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
