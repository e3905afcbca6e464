// Package version exposes the procmesh release version embedded from
// the VERSION file at build time.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionContent string

// Get returns the procmesh version string with surrounding whitespace
// trimmed.
func Get() string {
	return strings.TrimSpace(versionContent)
}
