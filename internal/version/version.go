// Package version holds bearc's build version, following the teacher
// pack's ottomap convention of a package-level semver.Version printed by
// --version (grounded in playbymail-ottomap's main.go version block).
package version

import "github.com/maloquacious/semver"

// Current is bearc's build version.
var Current = semver.Version{
	Major: 0,
	Minor: 1,
	Patch: 0,
	Build: semver.Commit(),
}

// Short returns the compact "vMAJOR.MINOR.PATCH" form printed by
// --version.
func Short() string { return Current.Short() }

// String returns the full build-info string. The CLI does not print it;
// --version prints Short.
func String() string { return Current.String() }
