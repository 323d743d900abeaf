package meta

import (
	"fmt"
	"runtime"
)

// Info describes the build context of a memwatch binary. Everything but the
// Go version and platform is injected by the linker, e.g.
//
//   go build -ldflags "-X github.com/luma/memwatch/internal/meta.Version=v0.2.0"
//
type Info struct {
	Version   string
	Build     string
	Branch    string
	BuildTime string
	Platform  string
	GoVersion string
}

// These will be filled in using the linker -X flag
var (
	// Version as an arbitrary string
	Version string

	// Build is the Git sha from when we are building
	Build string

	// Branch is the Git branch that we are building from
	Branch string

	// BuildTimeUTC is the build time in UTC (year/month/day hour:min:sec)
	BuildTimeUTC string

	platform = fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
)

// GetInfo returns an Info struct populated with the build information.
func GetInfo() Info {
	version := Version
	if version == "" {
		version = "dev"
	}

	return Info{
		GoVersion: runtime.Version(),
		Version:   version,
		Build:     Build,
		Branch:    Branch,
		BuildTime: BuildTimeUTC,
		Platform:  platform,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("memwatch %s (%s@%s) built %s, %s %s",
		i.Version, i.Branch, i.Build, i.BuildTime, i.GoVersion, i.Platform)
}
