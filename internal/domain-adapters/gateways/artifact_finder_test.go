package gateways

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindDistributionArtifacts(t *testing.T) {
	distDir := t.TempDir()

	expected := []string{
		"myext-0.1.0.tar.gz",
		"myext-0.1.0.tar.gz.asc",
		"myext-0.1.0.tar.gz.sha256",
		"myext-0.1.0.tar.gz.sha512",
		"myext-0.1.0-linux-x86_64.tar.gz",
	}
	unrelated := []string{
		"myext-0.2.0.tar.gz",
		"other-0.1.0.tar.gz",
		"notes.txt",
	}
	for _, name := range append(append([]string{}, expected...), unrelated...) {
		require.NoError(t, os.WriteFile(filepath.Join(distDir, name), []byte("x"), 0600))
	}

	finder := NewArtifactFinder()
	artifacts, err := finder.FindDistributionArtifacts(distDir, "myext", "v0.1.0")
	require.NoError(t, err)
	require.Len(t, artifacts, len(expected))
	for _, name := range expected {
		require.Contains(t, artifacts, filepath.Join(distDir, name))
	}
}

func TestFindDistributionArtifactsEmptyDir(t *testing.T) {
	finder := NewArtifactFinder()

	artifacts, err := finder.FindDistributionArtifacts(t.TempDir(), "myext", "0.1.0")
	require.NoError(t, err)
	require.Empty(t, artifacts)
}
