package buildpipeline

import (
	"path/filepath"
	"strings"
)

// DisplayName is path relative to baseDir when it lies underneath,
// otherwise the cleaned path, always with forward slashes.
func DisplayName(path, baseDir string) string {
	clean := filepath.Clean(path)
	base := strings.TrimSpace(baseDir)
	if base != "" {
		absBase, err1 := filepath.Abs(base)
		absPath, err2 := filepath.Abs(clean)
		if err1 == nil && err2 == nil {
			if rel, err := filepath.Rel(absBase, absPath); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				clean = rel
			}
		}
	}
	return filepath.ToSlash(clean)
}

// outputPath maps a source to <outDir>/<display stem>.asm. Sources outside
// baseDir keep only their base name.
func outputPath(display, outDir string) string {
	rel := filepath.FromSlash(display)
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(rel)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".asm")
}
