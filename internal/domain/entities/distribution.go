package entities

// Distribution formats.
const (
	FormatSdist = "sdist"
	FormatBdist = "bdist"
)

// Distribution represents a built extension archive on disk.
type Distribution struct {
	Name     string
	Version  string
	Format   string // "sdist" or "bdist"
	Platform string // empty for sdist
	Path     string
}

// InstalledExtension represents an extension found in an installation prefix,
// either a regular archive install or a develop-mode link.
type InstalledExtension struct {
	Name     string
	Version  string
	Develop  bool
	Location string
}
