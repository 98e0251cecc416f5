// Package build holds build-time information.
package build

// Build metadata. Release builds overwrite it with linker flags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
