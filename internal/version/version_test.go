package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultIsSemver(t *testing.T) {
	if _, err := semver.NewVersion(Version); err != nil {
		t.Fatalf("default Version %q: %v", Version, err)
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		name                string
		version, commit, at string
		want                string
	}{
		{"plain", "1.2.3", "", "", "cdlc 1.2.3"},
		{"commit", "1.2.3", "abc123", "", "cdlc 1.2.3 (abc123)"},
		{"full", "0.1.0-dev", "abc123", "2024-01-15", "cdlc 0.1.0-dev (abc123) built 2024-01-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withVersion(t, tc.version, tc.commit, tc.at)
			if got := String(false); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	cases := []struct{ in, want string }{
		{"1.2.3", "1.2.3"},
		{"2.0.0-alpha", "2.0.0-alpha"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"v1.4", "1.4.0"},
		{"not-a-version", "not-a-version"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			withVersion(t, tc.in, "", "")
			if got := Colored(); got != tc.want {
				t.Fatalf("Colored() = %q, want %q", got, tc.want)
			}
		})
	}
}
