package gateways

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreflightCheckMissingNodeModules(t *testing.T) {
	checker := NewPreflightChecker()
	tmpDir := t.TempDir()

	err := checker.Check(tmpDir)
	require.Error(t, err)

	var missing *NodeModulesMissingError
	require.True(t, errors.As(err, &missing), "expected NodeModulesMissingError, got %T", err)
	require.Equal(t, "node_modules", missing.Dir)

	// The message must tell the invoker how to remediate
	require.Contains(t, err.Error(), "npm install")
}

func TestPreflightCheckNodeModulesPresent(t *testing.T) {
	checker := NewPreflightChecker()
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "node_modules"), 0750))

	require.NoError(t, checker.Check(tmpDir))
}
