// Package buildinfo derives a version string from the metadata the Go
// toolchain embeds in the binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// shortHashLen is how much of the VCS revision appears in dev versions.
const shortHashLen = 12

// Version returns the version string for the current build: the module
// tag when installed from a release, otherwise a "dev-<hash>" pseudo
// version from VCS metadata ("-dirty" when the tree had uncommitted
// changes), or plain "dev" when no VCS info was embedded.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion(info)
}

func devVersion(info *debug.BuildInfo) string {
	var revision string
	var modified bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if len(revision) > shortHashLen {
		revision = revision[:shortHashLen]
	}
	if modified {
		return fmt.Sprintf("dev-%s-dirty", revision)
	}
	return fmt.Sprintf("dev-%s", revision)
}
