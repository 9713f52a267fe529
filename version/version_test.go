package version

import (
	"testing"
)

func stamp(t *testing.T, version, commit, branch, buildTime, goVersion string) {
	t.Helper()
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion
	t.Cleanup(func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
		GoVersion = origGoVersion
	})
	Version, GitCommit, GitBranch, BuildTime, GoVersion =
		version, commit, branch, buildTime, goVersion
}

func TestGet_UnstampedBinary(t *testing.T) {
	stamp(t, "dev", "", "", "", "")

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version dev, got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev must not count as a release")
	}
	if info.BuildDate.IsZero() {
		t.Error("build date should always resolve")
	}
	if info.GoVersion == "" {
		t.Error("go version should fall back to the embedded build info")
	}
}

func TestGet_StampedRelease(t *testing.T) {
	stamp(t, "1.2.0", "abc1234", "main", "2026-03-01T08:00:00Z", "go1.25")

	info := Get()
	if !info.IsRelease {
		t.Error("stamped 1.2.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("got commit %q", info.GitCommit)
	}
	if info.BuildDate.Year() != 2026 || info.BuildDate.Month() != 3 {
		t.Errorf("build date not parsed from stamp: %s", info.BuildDate)
	}
}

func TestGet_DirtyVersionIsNotARelease(t *testing.T) {
	stamp(t, "1.2.0-dirty", "", "", "", "")
	if Get().IsRelease {
		t.Error("a dirty version must not count as a release")
	}
}

func TestInfoString(t *testing.T) {
	cases := []struct {
		name string
		info Info
		want string
	}{
		{"unstamped", Info{Version: "dev"}, "dev"},
		{"with commit", Info{Version: "1.2.0", GitCommit: "abc1234"}, "1.2.0-abc1234"},
		{"dirty tree", Info{Version: "1.2.0", GitCommit: "abc1234", IsDirty: true}, "1.2.0-abc1234-dirty"},
	}
	for _, tc := range cases {
		if got := tc.info.String(); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("got %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("short revision mangled to %q", got)
	}
}
