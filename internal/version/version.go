package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.3.0-dev"

// Set at build time via -ldflags; Go build metadata fills in whatever is left
// at the defaults.
var (
	AppName   = "MediaVault"
	Version   = devVersion
	Revision  = "HEAD"
	BuildDate = ""
)

func init() {
	resolveFromBuildInfo()
	if BuildDate == "" {
		BuildDate = time.Now().UTC().Format(time.RFC3339)
	}
}

func resolveFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return
	}

	if Version == devVersion && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = strings.TrimPrefix(info.Main.Version, "v")
	}

	var revision, modified, vcsTime string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if Revision == "HEAD" && revision != "" {
		if modified == "true" {
			revision += "-dirty"
		}
		Revision = revision
	}
	if BuildDate == "" {
		BuildDate = vcsTime
	}
}

// ShortWithApp returns `MediaVault 0.3.0 (5e23a4)`, used as the SDK User-Agent.
func ShortWithApp() string {
	return fmt.Sprintf("%s %s (%s)", AppName, Version, Revision)
}

// Detailed returns `0.3.0 (5e23a4; go1.23.6; linux/amd64; 2026-08-31T00:00:00Z)`.
func Detailed() string {
	return fmt.Sprintf("%s (%s; %s; %s/%s; %s)", Version, Revision, runtime.Version(), runtime.GOOS, runtime.GOARCH, BuildDate)
}

// DetailedWithApp prefixes Detailed with the application name.
func DetailedWithApp() string {
	return AppName + " " + Detailed()
}
