package services

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteChecksums(t *testing.T) {
	s := NewDistArtifactsService()
	tmpDir := t.TempDir()

	archivePath := filepath.Join(tmpDir, "myext-0.1.0.tar.gz")
	content := []byte("fake archive content")
	require.NoError(t, os.WriteFile(archivePath, content, 0600))

	artifacts, err := s.WriteChecksums(archivePath)
	require.NoError(t, err)
	require.Equal(t, archivePath+".sha256", artifacts.SHA256Path)
	require.Equal(t, archivePath+".sha512", artifacts.SHA512Path)

	sha256Data, err := os.ReadFile(artifacts.SHA256Path)
	require.NoError(t, err)
	wantSHA256 := sha256.Sum256(content)
	fields := strings.Fields(string(sha256Data))
	require.Len(t, fields, 2)
	require.Equal(t, hex.EncodeToString(wantSHA256[:]), fields[0])
	require.Equal(t, "myext-0.1.0.tar.gz", fields[1])

	sha512Data, err := os.ReadFile(artifacts.SHA512Path)
	require.NoError(t, err)
	wantSHA512 := sha512.Sum512(content)
	require.Equal(t, hex.EncodeToString(wantSHA512[:]), strings.Fields(string(sha512Data))[0])
}

func TestWriteChecksumsMissingArchive(t *testing.T) {
	s := NewDistArtifactsService()

	_, err := s.WriteChecksums(filepath.Join(t.TempDir(), "absent.tar.gz"))
	require.Error(t, err)
}
