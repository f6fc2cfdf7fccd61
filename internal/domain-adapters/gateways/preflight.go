// Package gateways provides adapters around the filesystem and external
// tools used by the packaging workflows.
package gateways

import (
	"fmt"
	"os"
	"path/filepath"
)

// NodeModulesMissingError is returned when the JavaScript build artifact
// directory is not found in the project tree. It is a distinct type so
// callers can tell a violated packaging precondition from ordinary I/O
// failures.
type NodeModulesMissingError struct {
	Dir string
}

func (e *NodeModulesMissingError) Error() string {
	return fmt.Sprintf("%s not found: before the extension can be packaged or installed, "+
		"JavaScript components must be built using npm. "+
		"Run the following and then retry:\nnpm install", e.Dir)
}

// PreflightChecker verifies packaging preconditions before any output is
// produced
type PreflightChecker struct {
	artifactDir string
}

// NewPreflightChecker creates a checker for the default node_modules
// artifact directory
func NewPreflightChecker() *PreflightChecker {
	return &PreflightChecker{artifactDir: "node_modules"}
}

// Check ensures the JavaScript build artifacts exist in sourceDir.
// This only tests existence: it does not guarantee that the packages are up
// to date. A more expensive freshness check involving file hashes could be
// added for sdist and bdist builds.
func (c *PreflightChecker) Check(sourceDir string) error {
	dir := filepath.Join(sourceDir, c.artifactDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NodeModulesMissingError{Dir: c.artifactDir}
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	return nil
}
