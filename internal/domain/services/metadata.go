// Package services implements core domain logic for extension packaging.
package services

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/jovyanlabs/labext/internal/domain/entities"
)

// MetadataService validates extension manifests and evaluates their
// requirement constraints
type MetadataService struct{}

// NewMetadataService creates a new metadata service
func NewMetadataService() *MetadataService {
	return &MetadataService{}
}

// ParseRequirement splits a requires entry like "jupyterlab>=0.3.0" into the
// dependency name and its constraint expression. A bare name means any
// version is acceptable.
func (s *MetadataService) ParseRequirement(raw string) (*entities.Requirement, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty requirement entry")
	}

	split := strings.IndexAny(trimmed, "><=!~^ ")
	if split == 0 {
		return nil, fmt.Errorf("requirement %q has no dependency name", raw)
	}

	req := &entities.Requirement{Name: trimmed}
	if split > 0 {
		req.Name = strings.TrimSpace(trimmed[:split])
		req.Spec = strings.TrimSpace(trimmed[split:])
	}

	// Constraint must parse even if we never evaluate it here
	if req.Spec != "" {
		if _, err := semver.NewConstraint(req.Spec); err != nil {
			return nil, fmt.Errorf("requirement %q has invalid constraint %q: %w", raw, req.Spec, err)
		}
	}

	return req, nil
}

// CheckRequirement evaluates a parsed requirement against a concrete version.
// An empty Spec always passes.
func (s *MetadataService) CheckRequirement(req *entities.Requirement, version string) error {
	if req.Spec == "" {
		return nil
	}

	c, err := semver.NewConstraint(req.Spec)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", req.Spec, err)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("%s %s does not satisfy %s%s", req.Name, version, req.Name, req.Spec)
	}

	return nil
}

// CheckAppRequirement checks the manifest's constraint on the host
// application (e.g. jupyterlab>=0.3.0) against the installed version.
// Manifests without a matching requires entry pass unconditionally.
func (s *MetadataService) CheckAppRequirement(m *entities.Manifest, appName, appVersion string) error {
	for _, raw := range m.Requires {
		req, err := s.ParseRequirement(raw)
		if err != nil {
			return err
		}
		if !strings.EqualFold(req.Name, appName) {
			continue
		}
		if err := s.CheckRequirement(req, appVersion); err != nil {
			return fmt.Errorf("extension %s requires %s%s, found %s", m.Name, req.Name, req.Spec, appVersion)
		}
	}
	return nil
}

// Validate checks the manifest metadata itself and returns a list of
// problems. An empty list means the manifest is valid.
func (s *MetadataService) Validate(m *entities.Manifest) []string {
	var problems []string

	if m.Name == "" {
		problems = append(problems, "manifest must have a name")
	} else if !validName(m.Name) {
		problems = append(problems, fmt.Sprintf("invalid name %q: must start with a lowercase letter and contain only lowercase letters, digits, '-' and '_'", m.Name))
	}

	if m.Version == "" {
		problems = append(problems, "manifest must have a version")
	} else if _, err := semver.StrictNewVersion(m.Version); err != nil {
		problems = append(problems, fmt.Sprintf("invalid version %q: %v", m.Version, err))
	}

	if len(m.Packages) == 0 {
		problems = append(problems, "manifest must declare at least one package directory")
	}
	for _, pkg := range m.Packages {
		if pkg == "" || strings.Contains(pkg, "..") || strings.HasPrefix(pkg, "/") {
			problems = append(problems, fmt.Sprintf("invalid package directory %q", pkg))
		}
	}

	for _, raw := range m.Requires {
		if _, err := s.ParseRequirement(raw); err != nil {
			problems = append(problems, err.Error())
		}
	}

	return problems
}

func validName(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9', r == '-', r == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
