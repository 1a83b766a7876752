// Package version carries forge build identification, overridable at link
// time with -ldflags.
package version

var (
	// Version is the semantic version of the forge build.
	Version = "0.3.0"

	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)
