package diagfmt

import (
	"path/filepath"

	"ember/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto uses a path relative to BaseDir when that is shorter.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

func formatPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return "<unknown>"
	}
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
	case PathModeRelative:
		if base != "" {
			if rel, err := filepath.Rel(base, f.Path); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAuto:
		return f.DisplayPath(base)
	}
	return f.Path
}
