package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	domaingateways "github.com/jovyanlabs/labext/internal/domain/interfaces/gateways"

	"github.com/jovyanlabs/labext/internal/domain-adapters/gateways"
	"github.com/jovyanlabs/labext/internal/external-adapters/gpg"
)

func runVerify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var (
		checksumFile = fs.String("checksum", "", "Checksum sidecar to verify against (.sha256 or .sha512)")
		sigFile      = fs.String("sig", "", "Detached signature file (.asc)")
		keyFile      = fs.String("key", "", "Public key file for signature verification")
		verifyAll    = fs.Bool("all", false, "Verify all sidecars found next to the archive")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: labext verify <archive> [options]

Verify checksums and signatures for a built archive.

Examples:
  # Verify checksum
  labext verify dist/myextension-0.1.0.tar.gz --checksum dist/myextension-0.1.0.tar.gz.sha256

  # Verify detached signature
  labext verify dist/myextension-0.1.0.tar.gz --sig dist/myextension-0.1.0.tar.gz.asc --key release.pub

  # Verify everything found next to the archive
  labext verify dist/myextension-0.1.0.tar.gz --all --key release.pub

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
	filePath := fs.Arg(0)

	if err := executeVerify(ctx, filePath, *checksumFile, *sigFile, *keyFile, *verifyAll); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeVerify(ctx context.Context, filePath, checksumFile, sigFile, keyFile string, verifyAll bool) error {
	verified := 0
	failed := 0

	// Auto-detect sidecars if --all is specified
	if verifyAll {
		if checksumFile == "" {
			if fileExists(filePath + ".sha256") {
				checksumFile = filePath + ".sha256"
			} else if fileExists(filePath + ".sha512") {
				checksumFile = filePath + ".sha512"
			}
		}
		if sigFile == "" && fileExists(filePath+".asc") {
			sigFile = filePath + ".asc"
		}
	}

	fmt.Printf("Verifying %s\n\n", filepath.Base(filePath))

	if checksumFile != "" {
		var checksums domaingateways.ChecksumVerifier = gateways.NewChecksumVerifier()
		fmt.Printf("Verifying checksum...\n")
		if err := checksums.VerifySidecar(ctx, filePath, checksumFile); err != nil {
			fmt.Printf("Checksum verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Printf("Checksum verified\n\n")
			verified++
		}
	}

	if sigFile != "" {
		if keyFile == "" {
			return fmt.Errorf("--key is required to verify a signature")
		}
		signer := gpg.NewSigner()
		if err := signer.ImportKeyFromFile(keyFile); err != nil {
			return err
		}
		var signatures domaingateways.SignatureVerifier = signer

		fmt.Printf("Verifying signature...\n")
		if err := signatures.VerifyDetached(filePath, sigFile); err != nil {
			fmt.Printf("Signature verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Printf("Signature verified\n\n")
			verified++
		}
	}

	if verified == 0 && failed == 0 {
		return fmt.Errorf("nothing to verify: pass --checksum, --sig or --all")
	}
	if failed > 0 {
		return fmt.Errorf("%d verification(s) failed", failed)
	}

	fmt.Printf("All %d verification(s) passed\n", verified)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
