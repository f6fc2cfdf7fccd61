package gateways

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// checksumVerifier verifies archives against checksum sidecar files using
// pure Go, no external sha256sum binary needed
type checksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumVerifier() *checksumVerifier {
	return &checksumVerifier{}
}

// VerifySidecar checks a file against a "<hash>  <filename>" sidecar. The
// digest algorithm is chosen by the sidecar extension (.sha256 or .sha512),
// falling back on the digest length.
func (v *checksumVerifier) VerifySidecar(_ context.Context, filePath, sidecarPath string) error {
	//nolint:gosec // G304: sidecarPath is user-provided for verification
	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return fmt.Errorf("checksum file %s is empty", sidecarPath)
	}
	expectedSum := strings.ToLower(fields[0])

	var h hash.Hash
	switch {
	case strings.HasSuffix(sidecarPath, ".sha512"), len(expectedSum) == 128:
		h = sha512.New()
	case strings.HasSuffix(sidecarPath, ".sha256"), len(expectedSum) == 64:
		h = sha256.New()
	default:
		return fmt.Errorf("cannot determine digest algorithm for %s", sidecarPath)
	}

	actualSum, err := hashFile(filePath, h)
	if err != nil {
		return err
	}

	if actualSum != expectedSum {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSum, actualSum)
	}
	return nil
}

// CalculateChecksum calculates the SHA256 checksum of a file
func (v *checksumVerifier) CalculateChecksum(filePath string) (string, error) {
	return hashFile(filePath, sha256.New())
}

func hashFile(filePath string, h hash.Hash) (string, error) {
	//nolint:gosec // G304: File path is user-provided for checksum verification
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
