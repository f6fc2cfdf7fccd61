package test_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureManifest = `name: jupyterlab_google_drive
version: 0.1.0
description: Realtime collaboration for JupyterLab
packages:
  - jupyterlab_google_drive
author: Ian Rose
author_email: ian.rose@berkeley.edu
keywords:
  - jupyterlab
  - jupyterlab extension
requires:
  - jupyterlab>=0.3.0
`

// buildCLI builds the labext CLI binary for testing
func buildCLI(t *testing.T) string {
	t.Helper()

	buildDir := filepath.Join("..", "test-dist", "cli-bin")
	if err := os.MkdirAll(buildDir, 0750); err != nil {
		t.Fatalf("Failed to create build dir: %v", err)
	}

	cliPath, err := filepath.Abs(filepath.Join(buildDir, "labext"))
	if err != nil {
		t.Fatalf("Failed to resolve CLI path: %v", err)
	}

	// Check if already built
	if _, err := os.Stat(cliPath); err == nil {
		return cliPath
	}

	t.Log("Building labext CLI...")
	cmd := exec.Command("go", "build", "-o", cliPath, "../cmd/labext") // #nosec G204 -- test code with controlled input
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI: %v\nOutput: %s", err, output)
	}

	return cliPath
}

// writeFixtureProject lays out an extension project in a temp dir
func writeFixtureProject(t *testing.T, withNodeModules bool) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "extension.yml"), []byte(fixtureManifest), 0600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	pkgDir := filepath.Join(dir, "jupyterlab_google_drive")
	if err := os.MkdirAll(pkgDir, 0750); err != nil {
		t.Fatalf("Failed to create package dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "index.js"), []byte("export default {};"), 0600); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}

	if withNodeModules {
		if err := os.MkdirAll(filepath.Join(dir, "node_modules"), 0750); err != nil {
			t.Fatalf("Failed to create node_modules: %v", err)
		}
	}
	return dir
}

// TestCLI_Help tests help output for all commands
func TestCLI_Help(t *testing.T) {
	cliPath := buildCLI(t)

	commands := []string{
		"",
		"build",
		"develop",
		"install",
		"verify",
		"validate",
		"list",
		"info",
		"prebuild",
	}

	for _, cmd := range commands {
		t.Run("help_"+cmd, func(t *testing.T) {
			args := []string{"--help"}
			if cmd != "" {
				args = []string{cmd, "--help"}
			}

			execCmd := exec.Command(cliPath, args...) // #nosec G204 -- test code with controlled input
			output, _ := execCmd.CombinedOutput()

			if !strings.Contains(string(output), "Usage:") {
				t.Errorf("Expected usage text for %q, got: %s", cmd, output)
			}
		})
	}
}

// TestCLI_BuildGuard checks that a missing node_modules fails the build with
// remediation guidance and no dist output
func TestCLI_BuildGuard(t *testing.T) {
	cliPath := buildCLI(t)
	project := writeFixtureProject(t, false)
	distDir := filepath.Join(project, "dist")

	cmd := exec.Command(cliPath, "build", "--source-dir", project, "--dist-dir", distDir) // #nosec G204 -- test code with controlled input
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Fatalf("Expected build to fail without node_modules, output: %s", output)
	}
	if !strings.Contains(string(output), "npm install") {
		t.Errorf("Expected remediation guidance in output, got: %s", output)
	}
	if _, statErr := os.Stat(distDir); !os.IsNotExist(statErr) {
		t.Errorf("Expected no dist output after failed preflight")
	}
}

// TestCLI_DevelopGuard checks that a missing node_modules fails a develop
// install before anything is written into the prefix
func TestCLI_DevelopGuard(t *testing.T) {
	cliPath := buildCLI(t)
	project := writeFixtureProject(t, false)
	prefix := t.TempDir()

	cmd := exec.Command(cliPath, "develop", "--source-dir", project, "--prefix", prefix) // #nosec G204 -- test code with controlled input
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Fatalf("Expected develop to fail without node_modules, output: %s", output)
	}
	if !strings.Contains(string(output), "npm install") {
		t.Errorf("Expected remediation guidance in output, got: %s", output)
	}
	if _, statErr := os.Stat(filepath.Join(prefix, "labextensions")); !os.IsNotExist(statErr) {
		t.Errorf("Expected no develop record after failed preflight")
	}
}

// TestCLI_BuildVerifyInstall exercises the full packaging round trip
func TestCLI_BuildVerifyInstall(t *testing.T) {
	cliPath := buildCLI(t)
	project := writeFixtureProject(t, true)
	distDir := filepath.Join(project, "dist")
	archive := filepath.Join(distDir, "jupyterlab_google_drive-0.1.0.tar.gz")

	// Build
	cmd := exec.Command(cliPath, "build", "--source-dir", project, "--dist-dir", distDir) // #nosec G204 -- test code with controlled input
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Build failed: %v\nOutput: %s", err, output)
	}
	if _, err := os.Stat(archive); err != nil {
		t.Fatalf("Expected archive at %s: %v", archive, err)
	}

	// Verify checksums
	cmd = exec.Command(cliPath, "verify", archive, "--all") // #nosec G204 -- test code with controlled input
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Verify failed: %v\nOutput: %s", err, output)
	}

	// Install into a prefix
	prefix := t.TempDir()
	cmd = exec.Command(cliPath, "install", archive, "--prefix", prefix, "--app-version", "4.1.0") // #nosec G204 -- test code with controlled input
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Install failed: %v\nOutput: %s", err, output)
	}
	installed := filepath.Join(prefix, "labextensions", "jupyterlab_google_drive", "jupyterlab_google_drive", "index.js")
	if _, err := os.Stat(installed); err != nil {
		t.Fatalf("Expected installed file at %s: %v", installed, err)
	}

	// List shows the extension
	cmd = exec.Command(cliPath, "list", "--prefix", prefix) // #nosec G204 -- test code with controlled input
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("List failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "jupyterlab_google_drive") {
		t.Errorf("Expected installed extension in list output, got: %s", output)
	}
}

// TestCLI_InstallRejectsOldApp checks the requires gate at install time
func TestCLI_InstallRejectsOldApp(t *testing.T) {
	cliPath := buildCLI(t)
	project := writeFixtureProject(t, true)
	distDir := filepath.Join(project, "dist")
	archive := filepath.Join(distDir, "jupyterlab_google_drive-0.1.0.tar.gz")

	cmd := exec.Command(cliPath, "build", "--source-dir", project, "--dist-dir", distDir) // #nosec G204 -- test code with controlled input
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Build failed: %v\nOutput: %s", err, output)
	}

	cmd = exec.Command(cliPath, "install", archive, "--prefix", t.TempDir(), "--app-version", "0.2.0") // #nosec G204 -- test code with controlled input
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("Expected install to fail for app version 0.2.0, output: %s", output)
	}
	if !strings.Contains(string(output), "requires") {
		t.Errorf("Expected constraint failure in output, got: %s", output)
	}
}

// TestCLI_Validate checks manifest validation output and exit codes
func TestCLI_Validate(t *testing.T) {
	cliPath := buildCLI(t)

	t.Run("valid", func(t *testing.T) {
		project := writeFixtureProject(t, true)
		cmd := exec.Command(cliPath, "validate", "--source-dir", project) // #nosec G204 -- test code with controlled input
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("Validate failed: %v\nOutput: %s", err, output)
		}
	})

	t.Run("bad version", func(t *testing.T) {
		project := writeFixtureProject(t, true)
		bad := strings.Replace(fixtureManifest, "version: 0.1.0", "version: one", 1)
		if err := os.WriteFile(filepath.Join(project, "extension.yml"), []byte(bad), 0600); err != nil {
			t.Fatalf("Failed to write manifest: %v", err)
		}

		cmd := exec.Command(cliPath, "validate", "--source-dir", project) // #nosec G204 -- test code with controlled input
		output, err := cmd.CombinedOutput()
		if err == nil {
			t.Fatalf("Expected validate to fail, output: %s", output)
		}
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	// Shared CLI binary is reused between runs; clean it up at the end
	_ = os.RemoveAll(filepath.Join("..", "test-dist"))
	os.Exit(code)
}
