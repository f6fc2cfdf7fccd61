// Package main provides the labext CLI for packaging JupyterLab front-end
// extensions.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "build":
		runBuild(ctx, os.Args[2:])
	case "develop":
		runDevelop(ctx, os.Args[2:])
	case "install":
		runInstall(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "validate":
		runValidate(ctx, os.Args[2:])
	case "list":
		runList(ctx, os.Args[2:])
	case "info":
		runInfo(ctx, os.Args[2:])
	case "prebuild":
		runPrebuild(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`labext - JupyterLab extension packaging tool

Usage:
  labext <command> [options]

Commands:
  build     Build an sdist or bdist archive from the extension project
  develop   Link-install the working tree into a prefix
  install   Install a built archive into a prefix
  verify    Verify checksums and signatures of a built archive
  validate  Validate the extension manifest
  list      List extensions installed in a prefix
  info      Print the resolved extension metadata
  prebuild  Run the JavaScript build step (npm install)

Use "labext <command> --help" for more information about a command.`)
}

// detectPlatform returns the platform tag used for bdist archives
func detectPlatform() string {
	arch := runtime.GOARCH

	// Map Go's GOARCH to common platform names
	archMap := map[string]string{
		"amd64": "x86_64",
		"arm64": "arm64",
		"386":   "i386",
	}

	if mapped := archMap[arch]; mapped != "" {
		arch = mapped
	}

	return fmt.Sprintf("%s-%s", runtime.GOOS, arch)
}
