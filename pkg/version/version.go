// Package version reports the build version of enviroimpact.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/rshade/enviroimpact/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Build-time injected values.
var (
	version = ""
	commit  = ""
)

// GetVersion returns the injected version, the module version recorded by
// `go install`, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetCommit returns the injected commit, the VCS revision from build info, or "".
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
