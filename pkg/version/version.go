// Package version provides Treeward's release version identifier.
package version

import "fmt"

const (
	// Major represents the current major version of Treeward.
	Major = 0
	// Minor represents the current minor version of Treeward.
	Minor = 1
	// Patch represents the current patch version of Treeward.
	Patch = 0
)

// Version is the current release version, formatted as "major.minor.patch".
var Version string

func init() {
	Version = fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}
