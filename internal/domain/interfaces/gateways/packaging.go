// Package gateways defines interfaces for external system integrations.
package gateways

import "context"

// ChecksumVerifier verifies archive checksums against sidecar files
type ChecksumVerifier interface {
	// VerifySidecar checks a file against a .sha256 or .sha512 sidecar
	VerifySidecar(ctx context.Context, filePath, sidecarPath string) error

	// CalculateChecksum computes the SHA256 checksum of a file
	CalculateChecksum(filePath string) (string, error)
}

// SignatureVerifier verifies detached signatures over built archives
type SignatureVerifier interface {
	// VerifyDetached checks a detached (armored or binary) signature file
	VerifyDetached(filePath, sigPath string) error
}
