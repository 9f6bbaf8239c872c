// Package version provides build-time version information for mastosan.
//
// Variables in this package are set at build time using ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/mastosan/internal/version.Version=1.0.0 ..."
//
// Library consumers get the module version from go.mod and git tags; this
// package only describes the CLI build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version (e.g., "1.0.0" or "1.0.0-dev.5+abc123")
	Version = "dev"

	// Commit is the git commit SHA
	Commit = "unknown"

	// Dirty indicates if the working tree had uncommitted changes
	Dirty = "false"

	// BuildDate is the UTC build timestamp in RFC3339 format
	BuildDate = "unknown"
)

// Info contains structured version information
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Dirty     bool   `json:"dirty" yaml:"dirty"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the current version information. When built without ldflags
// (go install), the commit falls back to the VCS stamp in the build info.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if info.Commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					info.Commit = s.Value
				case "vcs.modified":
					info.Dirty = info.Dirty || s.Value == "true"
				}
			}
		}
	}
	return info
}

// String returns a single-line version string
func (i Info) String() string {
	if i.Dirty {
		return i.Version + "-dirty"
	}
	return i.Version
}

// String returns the single-line version of the running binary.
func String() string {
	return Get().String()
}

// Full returns a multi-line version string with all details
func Full() string {
	i := Get()
	var sb strings.Builder
	fmt.Fprintf(&sb, "mastosan %s\n", i)
	fmt.Fprintf(&sb, "  Commit:     %s\n", i.Commit)
	fmt.Fprintf(&sb, "  Built:      %s\n", i.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", i.Platform)
	return sb.String()
}
