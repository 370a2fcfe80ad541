// Package version holds build metadata injected at link time.
package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String returns the one-line form printed by "gnustyle version".
func String() string {
	return fmt.Sprintf("gnustyle %s (commit %s, built %s)", Version, CommitHash, BuildDate)
}
