package gateways

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jovyanlabs/labext/internal/domain/entities"
)

// MetadataEncoder serializes a manifest into the metadata document embedded
// in built archives
type MetadataEncoder interface {
	EncodeManifest(m *entities.Manifest) ([]byte, error)
}

// MetadataFilename is the name of the metadata document at the root of every
// built archive
const MetadataFilename = "metadata.yaml"

// sourceExts are file types always packaged; anything else is package data
// and only included when the manifest sets include_package_data.
var sourceExts = map[string]bool{
	".js":   true,
	".jsx":  true,
	".ts":   true,
	".tsx":  true,
	".mjs":  true,
	".css":  true,
	".json": true,
	".html": true,
	".py":   true,
}

// Packager builds distribution archives from an extension working tree
type Packager struct {
	encoder MetadataEncoder
}

// NewPackager creates a new packager
func NewPackager(encoder MetadataEncoder) *Packager {
	return &Packager{encoder: encoder}
}

// PackageDistribution packages the declared package directories of the
// project at sourceDir into a tar.gz under distDir. The manifest metadata is
// embedded in the archive exactly as declared. The bdist format additionally
// tags the filename with the platform and bundles the built static assets.
func (p *Packager) PackageDistribution(
	_ context.Context,
	m *entities.Manifest,
	sourceDir, format, platform, distDir string,
) (*entities.Distribution, error) {
	if format != entities.FormatSdist && format != entities.FormatBdist {
		return nil, fmt.Errorf("unknown distribution format: %s", format)
	}
	if format == entities.FormatBdist && platform == "" {
		return nil, fmt.Errorf("bdist requires a platform")
	}

	root := fmt.Sprintf("%s-%s", m.Name, strings.TrimPrefix(m.Version, "v"))
	tarballName := root + ".tar.gz"
	if format == entities.FormatBdist {
		tarballName = fmt.Sprintf("%s-%s.tar.gz", root, platform)
	}

	if distDir == "" {
		distDir = "dist"
	}
	if err := os.MkdirAll(distDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create dist directory: %w", err)
	}
	tarballPath := filepath.Join(distDir, tarballName)

	//nolint:gosec // G304: tarballPath is constructed for package output
	file, err := os.Create(tarballPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create tarball file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	//nolint:errcheck // Defer close
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	//nolint:errcheck // Defer close
	defer tarWriter.Close()

	// Metadata goes in first so installers can read it without scanning the
	// whole archive
	metadata, err := p.encoder.EncodeManifest(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := writeTarBytes(tarWriter, path.Join(root, MetadataFilename), metadata); err != nil {
		return nil, err
	}

	for _, pkg := range m.Packages {
		pkgDir := filepath.Join(sourceDir, pkg)
		if info, err := os.Stat(pkgDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("package directory %s not found in %s", pkg, sourceDir)
		}
		if err := p.addTree(tarWriter, pkgDir, path.Join(root, pkg), m.IncludePackageData); err != nil {
			return nil, fmt.Errorf("failed to package %s: %w", pkg, err)
		}
	}

	// The extended path ships the built front-end bundle alongside the sources
	if format == entities.FormatBdist {
		staticDir := filepath.Join(sourceDir, "static")
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			if err := p.addTree(tarWriter, staticDir, path.Join(root, "static"), true); err != nil {
				return nil, fmt.Errorf("failed to package static assets: %w", err)
			}
		}
	}

	dist := &entities.Distribution{
		Name:    m.Name,
		Version: m.Version,
		Format:  format,
		Path:    tarballPath,
	}
	if format == entities.FormatBdist {
		dist.Platform = platform
	}
	return dist, nil
}

// addTree adds a directory tree to the tarball under prefix
func (p *Packager) addTree(tw *tar.Writer, sourceDir, prefix string, includeData bool) error {
	return filepath.Walk(sourceDir, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(sourceDir, walkPath)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}

		base := filepath.Base(walkPath)
		if info.IsDir() {
			// Never package nested build artifacts or VCS metadata
			if base == "node_modules" || strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !includeData && !sourceExts[strings.ToLower(filepath.Ext(base))] {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to create tar header: %w", err)
		}
		header.Name = path.Join(prefix, filepath.ToSlash(relPath))

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header: %w", err)
		}

		//nolint:gosec // G304: File path from filepath.Walk for packaging
		f, err := os.Open(walkPath)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		//nolint:errcheck // Defer close
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("failed to write file to tar: %w", err)
		}
		return nil
	})
}

func writeTarBytes(tw *tar.Writer, name string, data []byte) error {
	header := &tar.Header{
		Name:     name,
		Mode:     0644,
		Size:     int64(len(data)),
		Typeflag: tar.TypeReg,
		ModTime:  time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
