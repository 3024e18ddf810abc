package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/source"
)

// globalOptions are the resolved persistent flags.
type globalOptions struct {
	color          bool // для stderr
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColor(colorFlag, isTerminal(os.Stderr))
	if err != nil {
		return globalOptions{}, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return globalOptions{color: useColor, quiet: quiet, timings: timings, maxDiagnostics: maxDiagnostics}, nil
}

func resolveColor(value string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return tty && os.Getenv("NO_COLOR") == "", nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

// visibleDiagnostics drops timing records unless --timings is set.
func visibleDiagnostics(bag *diag.Bag, timings bool) *diag.Bag {
	out := diag.NewBag(0)
	if bag == nil {
		return out
	}
	for _, d := range bag.Items() {
		if d.Code == diag.ObsTimings && !timings {
			continue
		}
		out.Add(d)
	}
	return out
}

// printDiagnostics renders bag to w. It reports whether the bag held errors.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, g globalOptions) bool {
	visible := visibleDiagnostics(bag, g.timings)
	if visible.Len() > 0 {
		base, _ := os.Getwd()
		diagfmt.Pretty(w, visible, fs, diagfmt.PrettyOpts{Color: g.color, BaseDir: base, ShowNotes: true})
	}
	return bag != nil && bag.HasErrors()
}

// summary prints a colored status line unless quiet.
func summary(w io.Writer, g globalOptions, ok bool, format string, args ...any) {
	if g.quiet {
		return
	}
	c := color.New(color.FgGreen, color.Bold)
	if !ok {
		c = color.New(color.FgRed, color.Bold)
	}
	if g.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	fmt.Fprintln(w, c.Sprintf(format, args...))
}
