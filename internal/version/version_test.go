package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	vcs := func(settings ...string) *debug.BuildInfo {
		info := &debug.BuildInfo{}
		for i := 0; i+1 < len(settings); i += 2 {
			info.Settings = append(info.Settings, debug.BuildSetting{Key: settings[i], Value: settings[i+1]})
		}
		return info
	}

	tests := []struct {
		name        string
		version     string
		commit      string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "ldflags win",
			version:     "v1.2.3",
			commit:      "abc123",
			info:        vcs("vcs.revision", "0123456789abcdef"),
			wantVersion: "v1.2.3",
			wantCommit:  "abc123",
		},
		{
			name:        "vcs stamp",
			info:        vcs("vcs.revision", "0123456789abcdef", "vcs.time", "2026-01-02T03:04:05Z"),
			wantVersion: "dev-20260102",
			wantCommit:  "0123456",
		},
		{
			name:        "dirty tree",
			info:        vcs("vcs.revision", "abc", "vcs.modified", "true"),
			wantVersion: "dev-20260304-050607",
			wantCommit:  "abc-dirty",
		},
		{
			name:        "no build info",
			wantVersion: "dev-20260304-050607",
			wantCommit:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := resolve(tt.version, tt.commit, tt.info, now)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("resolve() = (%q, %q), want (%q, %q)", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}
