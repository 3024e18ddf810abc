package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ember/internal/diag"
	"ember/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProjectManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifestName), `
[package]
name = "demo"

[build]
main = "src/main.em"
out_dir = "target"
entry = "_start"
jobs = 2
`)
	writeFile(t, filepath.Join(root, "src", "main.em"), "exit(0);")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := loadProjectManifest(nested)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "demo" || m.Config.Build.Jobs != 2 {
		t.Errorf("config = %+v", m.Config)
	}
	got, err := m.mainPath()
	if err != nil || got != filepath.Join(root, "src", "main.em") {
		t.Errorf("mainPath = %q, %v", got, err)
	}
	if m.outDir() != filepath.Join(root, "target") {
		t.Errorf("outDir = %q", m.outDir())
	}
}

func TestManifestRejectsBadConfig(t *testing.T) {
	tests := map[string]string{
		"missing name": "[package]\n",
		"unknown key":  "[package]\nname = \"x\"\n[build]\nbackend = \"llvm\"\n",
		"negative":     "[package]\nname = \"x\"\n[build]\njobs = -1\n",
		"syntax":       "[package\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), manifestName)
			writeFile(t, path, body)
			if _, err := loadProjectConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolveBuildPlanPrecedence(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "main.em")
	writeFile(t, src, "exit(0);")
	m := &projectManifest{Root: root, Path: filepath.Join(root, manifestName), Config: projectConfig{
		Build: buildConfig{Main: "main.em", OutDir: "target", Entry: "start", Jobs: 3},
	}}

	plan, err := resolveBuildPlan("", m, buildFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.files) != 1 || plan.files[0] != src {
		t.Errorf("files = %v", plan.files)
	}
	if plan.outDir != filepath.Join(root, "target") || plan.entry != "start" || plan.jobs != 3 {
		t.Errorf("plan = %+v", plan)
	}

	plan, err = resolveBuildPlan(src, m, buildFlags{out: "o", entry: "_start", jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if plan.outDir != "o" || plan.entry != "_start" || plan.jobs != 1 {
		t.Errorf("flags did not win: %+v", plan)
	}

	plan, err = resolveBuildPlan(src, nil, buildFlags{toStdout: true})
	if err != nil {
		t.Fatal(err)
	}
	if plan.outDir != "" || plan.entry != "main" {
		t.Errorf("stdout plan = %+v", plan)
	}
}

func TestResolveBuildPlanErrors(t *testing.T) {
	if _, err := resolveBuildPlan("", nil, buildFlags{}); err == nil || !strings.Contains(err.Error(), "no ember.toml") {
		t.Errorf("err = %v", err)
	}
	empty := t.TempDir()
	if _, err := resolveBuildPlan(empty, nil, buildFlags{}); err == nil {
		t.Error("empty directory accepted")
	}
	txt := filepath.Join(empty, "notes.txt")
	writeFile(t, txt, "x")
	if _, err := resolveBuildPlan(txt, nil, buildFlags{}); err == nil {
		t.Error("non-.em file accepted")
	}
}

func TestResolveColorAndUIMode(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if on, _ := resolveColor("auto", true); !on {
		t.Error("auto on a tty should color")
	}
	if on, _ := resolveColor("on", false); !on {
		t.Error("on ignored")
	}
	if _, err := resolveColor("sometimes", true); err == nil {
		t.Error("bad color value accepted")
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("bad ui value accepted")
	}
	if m, _ := readUIMode(" ON "); m != uiModeOn {
		t.Errorf("ui mode = %q", m)
	}
}

func TestProgressTarget(t *testing.T) {
	if progressTarget(uiModeOn, false, false) == nil {
		t.Error("--ui=on without --quiet/--stdout should draw")
	}
	if progressTarget(uiModeOn, true, false) != nil {
		t.Error("--quiet still draws the view")
	}
	if progressTarget(uiModeOn, false, true) != nil {
		t.Error("--stdout still draws the view")
	}
	if progressTarget(uiModeOff, false, false) != nil {
		t.Error("--ui=off still draws the view")
	}
}

func TestVisibleDiagnosticsHidesTimings(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings"))
	bag.Add(diag.NewError(diag.SemaUndeclaredVariable, source.Span{}, "undeclared"))
	if got := visibleDiagnostics(bag, false).Len(); got != 1 {
		t.Errorf("without --timings: %d", got)
	}
	if got := visibleDiagnostics(bag, true).Len(); got != 2 {
		t.Errorf("with --timings: %d", got)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildCommandWritesAssembly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.em"), "let x: u8 = 7;\nexit(x);\n")
	out := filepath.Join(dir, "out")

	if _, err := execute(t, "build", "--quiet", "--ui=off", "--no-cache", "--color=off", "-o", out, dir); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "main.asm"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "global main\n") {
		t.Errorf("asm = %q", string(data))
	}
}

func TestBuildCommandStdoutAndFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.em")
	writeFile(t, good, "exit(1);")
	stdout, err := execute(t, "build", "--quiet", "--ui=off", "--no-cache", "--color=off", "--stdout", "--entry", "_start", good)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(stdout, "global _start\n") {
		t.Errorf("stdout = %q", stdout)
	}

	bad := filepath.Join(dir, "bad.em")
	writeFile(t, bad, "exit(nope);")
	if _, err := execute(t, "build", "--quiet", "--ui=off", "--no-cache", "--color=off", "--stdout", "--entry", "main", bad); !errors.Is(err, errReported) {
		t.Errorf("err = %v", err)
	}
}
