// Package version holds build metadata injected via -ldflags.
package version

var (
	// Version is the release version, set at build time.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"
)
