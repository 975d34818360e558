// Package version reports the application version.
package version

import "runtime/debug"

// Version is set at build time with
// -ldflags "-X github.com/llehouerou/wavedeck/internal/version.Version=v1.2.3".
var Version = ""

// String returns Version, falling back to the module version recorded in the
// binary and then to "dev".
func String() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}
