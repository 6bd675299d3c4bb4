// Package version holds the build stamp printed by `pc --version`.
//
// Release builds set the variables with the linker:
//
//	go build -ldflags "-X printcode/pkg/version.Version=1.2.3 -X printcode/pkg/version.Commit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Set at link time; local builds report "dev".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is the build stamp of the running pc binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string // Toolchain that built the binary.
	Platform  string // GOOS/GOARCH.
}

// Get reads the link-time variables and the runtime into an Info.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the line shown after "pc", e.g.
// 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.24.4 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
