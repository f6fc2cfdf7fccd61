package services

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// DistArtifactsService generates checksum sidecar files for built archives
type DistArtifactsService struct{}

// NewDistArtifactsService creates a new dist artifacts service
func NewDistArtifactsService() *DistArtifactsService {
	return &DistArtifactsService{}
}

// DistArtifacts holds the sidecar files generated next to an archive
type DistArtifacts struct {
	SHA256Path string
	SHA512Path string
}

// WriteChecksums generates SHA256 and SHA512 sidecars for an archive and
// returns their paths
func (s *DistArtifactsService) WriteChecksums(archivePath string) (*DistArtifacts, error) {
	sha256Path, err := s.writeChecksum(archivePath, ".sha256", sha256.New())
	if err != nil {
		return nil, fmt.Errorf("failed to generate SHA256: %w", err)
	}

	sha512Path, err := s.writeChecksum(archivePath, ".sha512", sha512.New())
	if err != nil {
		return nil, fmt.Errorf("failed to generate SHA512: %w", err)
	}

	return &DistArtifacts{SHA256Path: sha256Path, SHA512Path: sha512Path}, nil
}

// writeChecksum writes a "<hash>  <filename>" sidecar, the same format
// sha256sum produces
func (s *DistArtifactsService) writeChecksum(archivePath, ext string, h hash.Hash) (string, error) {
	//nolint:gosec // G304: archivePath is the tool's own build output
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash archive: %w", err)
	}

	sidecarPath := archivePath + ext
	content := fmt.Sprintf("%s  %s\n", hex.EncodeToString(h.Sum(nil)), filepath.Base(archivePath))

	if err := os.WriteFile(sidecarPath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write checksum file: %w", err)
	}

	return sidecarPath, nil
}
