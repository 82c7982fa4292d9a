// Package version resolves the running build's version string.
package version

import (
	"runtime/debug"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/marcus/notehub/internal/version.Version=v1.0.0"
var Version = ""

// Effective returns Version, falling back to Go build info.
func Effective() string {
	info, ok := debug.ReadBuildInfo()
	return resolve(Version, info, ok)
}

func resolve(v string, info *debug.BuildInfo, ok bool) string {
	if v != "" {
		return v
	}
	if !ok || info == nil {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + shortRevision(revision)
	if dirty {
		ver += "+dirty"
	}
	return ver
}

// shortRevision returns the first 12 chars of a revision.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
