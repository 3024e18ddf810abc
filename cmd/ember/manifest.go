package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "ember.toml"

const noManifestMessage = "no ember.toml found\nplease specify the source explicitly, e.g.:\n  ember build path/to/main.em"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Build   buildConfig   `toml:"build"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type buildConfig struct {
	Main   string `toml:"main"`
	OutDir string `toml:"out_dir"`
	Entry  string `toml:"entry"`
	Jobs   int    `toml:"jobs"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Build.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	return cfg, nil
}

// mainPath resolves [build].main against the manifest root.
func (m *projectManifest) mainPath() (string, error) {
	rel := strings.TrimSpace(m.Config.Build.Main)
	if rel == "" {
		return "", fmt.Errorf("%s: missing [build].main", m.Path)
	}
	p := filepath.Join(m.Root, filepath.FromSlash(rel))
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [build].main path does not exist: %s", m.Path, p)
		}
		return "", fmt.Errorf("%s: failed to stat [build].main: %w", m.Path, err)
	}
	return p, nil
}

// outDir resolves [build].out_dir, "" when unset.
func (m *projectManifest) outDir() string {
	rel := strings.TrimSpace(m.Config.Build.OutDir)
	if rel == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}
