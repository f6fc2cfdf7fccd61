// Package entities defines core domain models and data structures.
package entities

// Manifest represents the declarative package descriptor of an extension
// project, loaded from extension.yml. Its fields are carried through to the
// built archive unchanged.
type Manifest struct {
	Name               string
	Version            string
	Description        string
	Packages           []string
	Author             string
	AuthorEmail        string
	Keywords           []string
	IncludePackageData bool
	Requires           []string
}

// Requirement is a single entry of a manifest's requires list, split into the
// dependency name and the raw constraint expression (e.g. ">=0.3.0").
// An empty Spec means any version is acceptable.
type Requirement struct {
	Name string
	Spec string
}
