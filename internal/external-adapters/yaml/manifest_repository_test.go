package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFindsExtensionYml(t *testing.T) {
	repo := NewManifestRepository()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extension.yml"), []byte(sampleManifest), 0600))

	m, err := repo.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, "jupyterlab_google_drive", m.Name)
}

func TestLoadAcceptsYamlExtension(t *testing.T) {
	repo := NewManifestRepository()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extension.yaml"), []byte(sampleManifest), 0600))

	m, err := repo.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, "jupyterlab_google_drive", m.Name)
}

func TestLoadMissingManifest(t *testing.T) {
	repo := NewManifestRepository()

	_, err := repo.Load(context.Background(), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "extension.yml")
}

func TestLoadFile(t *testing.T) {
	repo := NewManifestRepository()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0600))

	m, err := repo.LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "0.1.0", m.Version)

	_, err = repo.LoadFile(context.Background(), filepath.Join(dir, "absent.yml"))
	require.Error(t, err)
}
