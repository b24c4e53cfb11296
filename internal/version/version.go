// Package version exposes the docrank build metadata.
package version

// Stamped by the release build via -ldflags; the zero values identify
// a local development build.
//
//nolint:revive
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
