// Package version reports the linksim build version.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/linkframe/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/linkframe/internal/version.Commit=abc123"
//
// Anything left unset is filled from the VCS stamp in the build info, then
// falls back to a dev timestamp.
var (
	Version = ""
	Commit  = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		info = nil
	}
	Version, Commit = resolve(Version, Commit, info, time.Now())
}

// resolve fills empty version and commit values from build info.
func resolve(version, commit string, info *debug.BuildInfo, now time.Time) (string, string) {
	if info != nil {
		vcs := make(map[string]string)
		for _, s := range info.Settings {
			vcs[s.Key] = s.Value
		}

		if commit == "" && vcs["vcs.revision"] != "" {
			commit = vcs["vcs.revision"]
			if len(commit) > 7 {
				commit = commit[:7]
			}
			if vcs["vcs.modified"] == "true" {
				commit += "-dirty"
			}
		}

		// Build info carries no tag, so a VCS build is still a dev build.
		if version == "" {
			if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
				version = "dev-" + t.Format("20060102")
			}
		}
	}

	if version == "" {
		version = "dev-" + now.Format("20060102-150405")
	}
	if commit == "" {
		commit = "unknown"
	}
	return version, commit
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
