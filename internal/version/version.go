package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the ember CLI. Override at build time with
// -ldflags "-X ember/internal/version.Version=...".
var (
	// Version is the semantic version of the compiler. It is part of every
	// cache key, so bumping it invalidates cached assembly.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = []color.Attribute{color.FgYellow, color.Bold}
	minorColor = []color.Attribute{color.FgGreen, color.Bold}
	patchColor = []color.Attribute{color.FgBlue, color.Bold}
)

// Info is the machine-readable version record.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the version record.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// Colored renders Version with major, minor and patch in their own colors.
// Anything after the patch number is left plain.
func Colored(enabled bool) string {
	paint := func(attrs []color.Attribute, s string) string {
		if !enabled {
			return s
		}
		c := color.New(attrs...)
		c.EnableColor()
		return c.Sprint(s)
	}
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := paint(majorColor, parts[0]) + "." + paint(minorColor, parts[1]) + "." + paint(patchColor, parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the one-line `ember version` output.
func Banner(colored bool) string {
	s := "ember " + Colored(colored)
	if GitCommit != "" {
		s += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
