package gateways

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jovyanlabs/labext/internal/domain/entities"
	"github.com/jovyanlabs/labext/internal/domain/interfaces"
)

// ManifestDecoder decodes the metadata document embedded in built archives
type ManifestDecoder interface {
	DecodeManifest(data []byte) (*entities.Manifest, error)
}

// RequirementChecker evaluates a manifest's constraint on the host
// application version
type RequirementChecker interface {
	CheckAppRequirement(m *entities.Manifest, appName, appVersion string) error
}

// maxMetadataSize bounds the embedded metadata document (archives are
// untrusted input on install)
const maxMetadataSize = 1 << 20

// extensionsSubdir is where extensions live under an installation prefix
const extensionsSubdir = "labextensions"

// Installer installs built archives and develop-mode links into an
// installation prefix
type Installer struct {
	decoder      ManifestDecoder
	requirements RequirementChecker
	appName      string
	logger       interfaces.Logger
}

// NewInstaller creates a new installer. appName is the host application the
// manifest's requires entries are checked against.
func NewInstaller(decoder ManifestDecoder, requirements RequirementChecker, appName string, logger interfaces.Logger) *Installer {
	if logger == nil {
		logger = &interfaces.StderrLogger{}
	}
	return &Installer{
		decoder:      decoder,
		requirements: requirements,
		appName:      appName,
		logger:       logger,
	}
}

// developRecord is the content of a <name>.develop link file
type developRecord struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  string `json:"source"`
}

// ReadArchiveManifest extracts and decodes the metadata document from a
// built archive without unpacking anything else
func (i *Installer) ReadArchiveManifest(archivePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: archivePath is user-provided for installation
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	//nolint:errcheck // Defer close
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		// Metadata lives directly under the archive's root directory
		parts := strings.Split(strings.Trim(header.Name, "/"), "/")
		if len(parts) != 2 || parts[1] != MetadataFilename {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(tr, maxMetadataSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}
		return i.decoder.DecodeManifest(data)
	}

	return nil, fmt.Errorf("archive %s has no %s", filepath.Base(archivePath), MetadataFilename)
}

// DetectAppVersion reads the host application version from the prefix.
// Returns an empty string when the version cannot be determined.
func (i *Installer) DetectAppVersion(prefix string) string {
	pkgJSON := filepath.Join(prefix, "share", "jupyter", "lab", "package.json")
	//nolint:gosec // G304: path is derived from the user-provided prefix
	data, err := os.ReadFile(pkgJSON)
	if err != nil {
		return ""
	}

	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Version
}

// Install extracts a built archive into <prefix>/labextensions/<name> after
// checking the manifest's host application constraint. When appVersion is
// empty it is detected from the prefix; if it still cannot be determined the
// constraint check is skipped and left to the host application.
func (i *Installer) Install(_ context.Context, archivePath, prefix, appVersion string) (*entities.Manifest, error) {
	m, err := i.ReadArchiveManifest(archivePath)
	if err != nil {
		return nil, err
	}

	if appVersion == "" {
		appVersion = i.DetectAppVersion(prefix)
	}
	if appVersion != "" {
		if err := i.requirements.CheckAppRequirement(m, i.appName, appVersion); err != nil {
			return nil, err
		}
	}

	dest := filepath.Join(prefix, extensionsSubdir, m.Name)
	if err := os.RemoveAll(dest); err != nil {
		return nil, fmt.Errorf("failed to clear previous install: %w", err)
	}
	if err := os.MkdirAll(dest, 0750); err != nil {
		return nil, fmt.Errorf("failed to create install directory: %w", err)
	}

	if err := i.extract(archivePath, dest); err != nil {
		return nil, err
	}
	return m, nil
}

// extract unpacks an archive into dest, stripping the top-level
// name-version directory
func (i *Installer) extract(archivePath, dest string) error {
	//nolint:gosec // G304: archivePath is user-provided for installation
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	//nolint:errcheck // Defer close
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		rel, ok := stripRoot(header.Name)
		if !ok {
			continue
		}

		target, err := securePath(dest, rel)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			//nolint:gosec // G304/G115: target is validated by securePath; mode comes from the archive we built
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0755)
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}
			//nolint:gosec // G110: archive size is bounded by what this tool builds
			if _, err := io.Copy(out, tr); err != nil {
				_ = out.Close()
				return fmt.Errorf("failed to extract %s: %w", rel, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", rel, err)
			}
		default:
			// Symlinks and specials are not part of built archives
			continue
		}
	}
}

// Develop link-installs the working tree by writing a pointer record into
// the prefix instead of copying files
func (i *Installer) Develop(_ context.Context, m *entities.Manifest, sourceDir, prefix, appVersion string) (string, error) {
	if appVersion == "" {
		appVersion = i.DetectAppVersion(prefix)
	}
	if appVersion != "" {
		if err := i.requirements.CheckAppRequirement(m, i.appName, appVersion); err != nil {
			return "", err
		}
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source directory: %w", err)
	}

	extDir := filepath.Join(prefix, extensionsSubdir)
	if err := os.MkdirAll(extDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create extensions directory: %w", err)
	}

	record := developRecord{Name: m.Name, Version: m.Version, Source: absSource}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode develop record: %w", err)
	}

	linkPath := filepath.Join(extDir, m.Name+".develop")
	if err := os.WriteFile(linkPath, append(data, '\n'), 0600); err != nil {
		return "", fmt.Errorf("failed to write develop record: %w", err)
	}
	return linkPath, nil
}

// ListInstalled returns the extensions present in a prefix, both regular
// installs and develop-mode links
func (i *Installer) ListInstalled(prefix string) ([]entities.InstalledExtension, error) {
	extDir := filepath.Join(prefix, extensionsSubdir)
	entries, err := os.ReadDir(extDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read extensions directory: %w", err)
	}

	var installed []entities.InstalledExtension
	for _, entry := range entries {
		entryPath := filepath.Join(extDir, entry.Name())

		if entry.IsDir() {
			//nolint:gosec // G304: path is inside the extensions directory
			data, err := os.ReadFile(filepath.Join(entryPath, MetadataFilename))
			if err != nil {
				continue
			}
			m, err := i.decoder.DecodeManifest(data)
			if err != nil {
				i.logger.Warn("skipping extension with unreadable metadata",
					interfaces.F("entry", entry.Name()), interfaces.F("error", err))
				continue
			}
			installed = append(installed, entities.InstalledExtension{
				Name:     m.Name,
				Version:  m.Version,
				Location: entryPath,
			})
			continue
		}

		if strings.HasSuffix(entry.Name(), ".develop") {
			//nolint:gosec // G304: path is inside the extensions directory
			data, err := os.ReadFile(entryPath)
			if err != nil {
				continue
			}
			var record developRecord
			if err := json.Unmarshal(data, &record); err != nil {
				i.logger.Warn("skipping unreadable develop record",
					interfaces.F("entry", entry.Name()), interfaces.F("error", err))
				continue
			}
			installed = append(installed, entities.InstalledExtension{
				Name:     record.Name,
				Version:  record.Version,
				Develop:  true,
				Location: record.Source,
			})
		}
	}

	sort.Slice(installed, func(a, b int) bool { return installed[a].Name < installed[b].Name })
	return installed, nil
}

// stripRoot removes the leading name-version directory from an archive
// entry name. Entries outside a root directory are skipped.
func stripRoot(name string) (string, bool) {
	parts := strings.Split(strings.Trim(name, "/"), "/")
	if len(parts) < 2 {
		return "", false
	}
	return strings.Join(parts[1:], "/"), true
}

// securePath joins rel onto dest, rejecting traversal outside dest. Only a
// whole ".." segment is traversal; filenames merely containing dots are fine.
func securePath(dest, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("archive entry escapes install directory: %s", rel)
	}
	for _, part := range strings.Split(rel, "/") {
		if part == ".." {
			return "", fmt.Errorf("archive entry escapes install directory: %s", rel)
		}
	}
	target := filepath.Join(dest, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes install directory: %s", rel)
	}
	return target, nil
}
