package gpg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/require"
)

func newTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	entity, err := openpgp.NewEntity("Test Signer", "", "signer@example.com", nil)
	require.NoError(t, err)
	return entity
}

func writeArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "myext-0.1.0.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("archive bytes"), 0600))
	return path
}

func TestSignAndVerifyDetached(t *testing.T) {
	entity := newTestEntity(t)
	signer := &Signer{keyring: openpgp.EntityList{entity}}

	archivePath := writeArchive(t)
	sigPath := archivePath + ".asc"

	require.NoError(t, signer.SignDetached(archivePath, sigPath))
	require.FileExists(t, sigPath)

	data, err := os.ReadFile(sigPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "BEGIN PGP SIGNATURE")

	require.NoError(t, signer.VerifyDetached(archivePath, sigPath))
}

func TestVerifyDetachedRejectsWrongKey(t *testing.T) {
	signer := &Signer{keyring: openpgp.EntityList{newTestEntity(t)}}

	archivePath := writeArchive(t)
	sigPath := archivePath + ".asc"
	require.NoError(t, signer.SignDetached(archivePath, sigPath))

	// A keyring holding a different key must refuse the signature
	other := &Signer{keyring: openpgp.EntityList{newTestEntity(t)}}
	require.Error(t, other.VerifyDetached(archivePath, sigPath))
}

func TestVerifyDetachedRejectsTamperedData(t *testing.T) {
	entity := newTestEntity(t)
	signer := &Signer{keyring: openpgp.EntityList{entity}}

	archivePath := writeArchive(t)
	sigPath := archivePath + ".asc"
	require.NoError(t, signer.SignDetached(archivePath, sigPath))

	require.NoError(t, os.WriteFile(archivePath, []byte("tampered bytes"), 0600))
	require.Error(t, signer.VerifyDetached(archivePath, sigPath))
}

func TestImportKeyFromFile(t *testing.T) {
	entity := newTestEntity(t)
	signingSigner := &Signer{keyring: openpgp.EntityList{entity}}

	archivePath := writeArchive(t)
	sigPath := archivePath + ".asc"
	require.NoError(t, signingSigner.SignDetached(archivePath, sigPath))

	// Export the public key armored and import it into a fresh keyring
	keyPath := filepath.Join(t.TempDir(), "release.pub")
	keyFile, err := os.Create(keyPath)
	require.NoError(t, err)
	armorWriter, err := armor.Encode(keyFile, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(armorWriter))
	require.NoError(t, armorWriter.Close())
	require.NoError(t, keyFile.Close())

	verifier := NewSigner()
	require.NoError(t, verifier.ImportKeyFromFile(keyPath))
	require.Equal(t, 1, verifier.KeyringSize())

	require.NoError(t, verifier.VerifyDetached(archivePath, sigPath))
}

func TestSignDetachedWithoutPrivateKey(t *testing.T) {
	signer := NewSigner()

	archivePath := writeArchive(t)
	require.Error(t, signer.SignDetached(archivePath, archivePath+".asc"))
}
