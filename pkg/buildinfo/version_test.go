package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	old := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = old })
}

func setVars(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestCurrent(t *testing.T) {
	stamped := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/matzehuels/csmtree", Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0f3c9a1"},
			{Key: "vcs.time", Value: "2026-03-02T10:00:00Z"},
		},
	}

	tests := []struct {
		name string
		vars [3]string
		bi   *debug.BuildInfo
		want Info
	}{
		{
			name: "ldflags win",
			vars: [3]string{"v1.0.0", "abc123", "2026-01-01"},
			bi:   stamped,
			want: Info{Version: "v1.0.0", Commit: "abc123", Date: "2026-01-01"},
		},
		{
			name: "toolchain stamp",
			vars: [3]string{"dev", "none", "unknown"},
			bi:   stamped,
			want: Info{Version: "v0.4.1", Commit: "0f3c9a1", Date: "2026-03-02T10:00:00Z"},
		},
		{
			name: "devel build",
			vars: [3]string{"dev", "none", "unknown"},
			bi:   &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name: "no build info",
			vars: [3]string{"dev", "none", "unknown"},
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVars(t, tt.vars[0], tt.vars[1], tt.vars[2])
			stubBuildInfo(t, tt.bi)
			tt.want.GoVersion = runtime.Version()
			if got := Current(); got != tt.want {
				t.Errorf("Current() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	setVars(t, "v1.0.0", "abc123", "2026-01-01")
	stubBuildInfo(t, nil)

	got := Template()
	want := "{{.Name}} version v1.0.0\ncommit: abc123\nbuilt: 2026-01-01\ngo: " + runtime.Version() + "\n"
	if got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
	if s := String(); !strings.HasPrefix(s, "version: v1.0.0\ncommit: abc123") {
		t.Errorf("String() = %q", s)
	}
}
