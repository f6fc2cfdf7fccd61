package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jovyanlabs/labext/internal/domain-adapters/gateways"
)

func runPrebuild(ctx context.Context, args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("prebuild", flag.ExitOnError)
	var (
		sourceDir      = fs.String("source-dir", cfg.SourceDir, "Extension project directory")
		timeoutMinutes = fs.Int("timeout", cfg.NPMTimeoutMinutes, "Timeout for the npm build step in minutes")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext prebuild [options]

Run the JavaScript build step (npm install) so that build and develop can
proceed. This is the remediation the build guard asks for; build itself never
runs npm.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	executor := gateways.NewScriptExecutor()
	result := executor.RunNPMInstall(ctx, *sourceDir, time.Duration(*timeoutMinutes)*time.Minute)
	if !result.Success {
		fmt.Fprintf(os.Stderr, "npm install failed (exit code %d): %v\n", result.ExitCode, result.Error)
		if result.Stderr != "" {
			fmt.Fprint(os.Stderr, result.Stderr)
		}
		os.Exit(1)
	}

	// Confirm the guard is now satisfied
	if err := gateways.NewPreflightChecker().Check(*sourceDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: npm install succeeded but %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("JavaScript components built in %v\n", result.Duration.Round(time.Millisecond))
}
