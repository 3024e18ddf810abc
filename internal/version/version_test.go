package version

import (
	"strings"
	"testing"
)

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	ov, oc, od := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = ov, oc, od })
}

func TestBannerPlain(t *testing.T) {
	override(t, "1.2.3-rc.1", "abc123", "2026-01-15")
	got := Banner(false)
	want := "ember 1.2.3-rc.1 (abc123) built 2026-01-15"
	if got != want {
		t.Errorf("Banner = %q, want %q", got, want)
	}
}

func TestColoredKeepsDigits(t *testing.T) {
	override(t, "0.4.2", "", "")
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("no escapes in %q", got)
	}
	for _, d := range []string{"0", "4", "2"} {
		if !strings.Contains(got, d) {
			t.Errorf("digit %s lost in %q", d, got)
		}
	}
}

func TestColoredMalformedVersion(t *testing.T) {
	override(t, "nightly", "", "")
	if got := Colored(true); got != "nightly" {
		t.Errorf("Colored = %q", got)
	}
}

func TestCurrent(t *testing.T) {
	override(t, "9.9.9", "", "")
	if info := Current(); info.Version != "9.9.9" || info.GitCommit != "" {
		t.Errorf("Current = %+v", info)
	}
}
