// Package version reports build information for storysort.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string // RFC 3339, set via ldflags.

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Info is a snapshot of the build information.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the current build [Info].
func Get() Info {
	return Info{
		Version:   GetVersion(),
		Revision:  Revision,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  GoOS + "/" + GoArch,
	}
}

// String renders the info for the version command. Build dates are shown
// relative to now.
func (i Info) String() string {
	return i.format(time.Now())
}

func (i Info) format(now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "storysort %s (%s)\n", i.Version, i.Revision)

	if i.Branch != "" {
		fmt.Fprintf(&b, "  branch:   %s\n", i.Branch)
	}

	if i.BuildDate != "" {
		built := i.BuildDate
		if t, err := time.Parse(time.RFC3339, i.BuildDate); err == nil {
			built = humanize.RelTime(t, now, "ago", "from now")
		}

		if i.BuildUser != "" {
			built += " by " + i.BuildUser
		}

		fmt.Fprintf(&b, "  built:    %s\n", built)
	}

	fmt.Fprintf(&b, "  go:       %s\n", i.GoVersion)
	fmt.Fprintf(&b, "  platform: %s\n", i.Platform)

	return b.String()
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value[:min(len(v.Value), 7)]

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
