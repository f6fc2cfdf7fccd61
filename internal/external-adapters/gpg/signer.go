// Package gpg provides detached signing and verification of built archives.
package gpg

import (
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

const armorHeader = "-----BEGIN PGP SIGNATURE---"

// Signer signs and verifies built archives with detached OpenPGP signatures
// using ProtonMail's go-crypto, a maintained fork of golang.org/x/crypto/openpgp.
// This is in external-adapters to isolate the external dependency.
type Signer struct {
	keyring openpgp.EntityList
}

// NewSigner creates a new signer with an empty keyring
func NewSigner() *Signer {
	return &Signer{
		keyring: make(openpgp.EntityList, 0),
	}
}

// ImportKeyFromFile imports an armored or binary key file into the keyring.
// For signing, the file must contain a private key.
func (s *Signer) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is user-provided for key import
	f, err := os.Open(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return fmt.Errorf("failed to reset file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entities) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	s.keyring = append(s.keyring, entities...)
	return nil
}

// SignDetached writes an armored detached signature for dataPath to sigPath
// using the first private key in the keyring
func (s *Signer) SignDetached(dataPath, sigPath string) error {
	signer := s.signingEntity()
	if signer == nil {
		return fmt.Errorf("no private key in keyring, import a signing key first")
	}
	if signer.PrivateKey.Encrypted {
		return fmt.Errorf("signing key is encrypted, decrypt it before signing")
	}

	//nolint:gosec // G304: dataPath is the tool's own build output
	data, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer data.Close()

	//nolint:gosec // G304: sigPath is derived from the build output path
	out, err := os.OpenFile(sigPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, signer, data, nil); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to sign: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close signature file: %w", err)
	}
	return nil
}

// VerifyDetached verifies a detached signature from a local file
func (s *Signer) VerifyDetached(filePath, sigPath string) error {
	if len(s.keyring) == 0 {
		return fmt.Errorf("no keys imported, import a public key first")
	}

	//nolint:gosec // G304: sigPath is user-provided for verification
	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("failed to open signature file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer sigFile.Close()

	//nolint:gosec // G304: filePath is user-provided for verification
	dataFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer dataFile.Close()

	// Peek at the signature file to determine if it's armored
	peekBuf := make([]byte, len(armorHeader))
	n, _ := io.ReadFull(sigFile, peekBuf)
	isArmored := n == len(armorHeader) && string(peekBuf) == armorHeader

	if _, seekErr := sigFile.Seek(0, 0); seekErr != nil {
		return fmt.Errorf("failed to reset signature file: %w", seekErr)
	}

	var verifyErr error
	if isArmored {
		_, verifyErr = openpgp.CheckArmoredDetachedSignature(s.keyring, dataFile, sigFile, nil)
	} else {
		_, verifyErr = openpgp.CheckDetachedSignature(s.keyring, dataFile, sigFile, nil)
	}

	if verifyErr != nil {
		return fmt.Errorf("signature verification failed: %w", verifyErr)
	}
	return nil
}

// KeyringSize returns the number of keys in the keyring
func (s *Signer) KeyringSize() int {
	return len(s.keyring)
}

// signingEntity returns the first entity holding a private key
func (s *Signer) signingEntity() *openpgp.Entity {
	for _, e := range s.keyring {
		if e.PrivateKey != nil {
			return e
		}
	}
	return nil
}
