package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"ember/internal/buildpipeline"
	"ember/internal/codegen"
	"ember/internal/driver"
	"ember/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.em|directory]",
	Short: "Compile ember sources to NASM assembly",
	Long: `Build compiles a source file, or every *.em file of a directory, and
writes one .asm file per source. Without arguments the [build].main entry
of the nearest ember.toml is built.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory (default: [build].out_dir or the source directory)")
	buildCmd.Flags().String("entry", "", "entry-point symbol (default: [build].entry or main)")
	buildCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	buildCmd.Flags().Bool("no-cache", false, "do not read or write the assembly cache")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	buildCmd.Flags().Bool("stdout", false, "print assembly to stdout instead of writing files")
}

// buildFlags are the raw build flag values.
type buildFlags struct {
	out      string
	entry    string
	jobs     int
	toStdout bool
}

// buildPlan is a fully resolved build invocation.
type buildPlan struct {
	files   []string
	baseDir string
	outDir  string // пусто при --stdout
	entry   string
	jobs    int
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	var bf buildFlags
	if bf.out, err = cmd.Flags().GetString("out"); err != nil {
		return err
	}
	if bf.entry, err = cmd.Flags().GetString("entry"); err != nil {
		return err
	}
	if bf.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return err
	}
	if bf.toStdout, err = cmd.Flags().GetBool("stdout"); err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	plan, err := resolveBuildPlan(target, manifest, bf)
	if err != nil {
		return err
	}

	req := &buildpipeline.BuildRequest{
		Files:          plan.files,
		BaseDir:        plan.baseDir,
		OutDir:         plan.outDir,
		Entry:          plan.entry,
		Jobs:           plan.jobs,
		MaxDiagnostics: g.maxDiagnostics,
	}
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("ember")
		if cacheErr != nil {
			if !g.quiet {
				fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", cacheErr)
			}
		} else {
			req.Cache = cache
		}
	}

	ctx := cmd.Context()
	var result buildpipeline.BuildResult
	var buildErr error
	if view := progressTarget(mode, g.quiet, bf.toStdout); view != nil {
		names := make([]string, len(plan.files))
		for i, f := range plan.files {
			names[i] = buildpipeline.DisplayName(f, plan.baseDir)
		}
		title := fmt.Sprintf("building %d file(s)", len(plan.files))
		buildErr = ui.RunProgress(ctx, view, title, names, func(sink buildpipeline.ProgressSink) error {
			req.Progress = sink
			var err error
			result, err = buildpipeline.Build(ctx, req)
			return err
		})
	} else {
		result, buildErr = buildpipeline.Build(ctx, req)
	}

	printDiagnostics(os.Stderr, result.Bag(), result.FileSet, g)
	for _, f := range result.Files {
		if f.WriteErr != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", f.Display, f.WriteErr)
		}
	}
	if bf.toStdout {
		if err := printAssembly(cmd, result); err != nil {
			return err
		}
	}
	if g.timings {
		printStageTimings(os.Stderr, result.Timings)
	}

	built, cached, failed := 0, 0, 0
	for _, f := range result.Files {
		switch {
		case f.Failed():
			failed++
		case f.Compile.Cached:
			cached++
			built++
		default:
			built++
		}
	}
	if buildErr != nil {
		if errors.Is(buildErr, buildpipeline.ErrDiagnostics) {
			summary(os.Stderr, g, false, "build failed: %d of %d file(s) with errors", failed, len(result.Files))
			return errReported
		}
		return buildErr
	}
	dest := plan.outDir
	if bf.toStdout {
		dest = "stdout"
	}
	summary(os.Stderr, g, true, "built %d file(s) (%d cached) -> %s", built, cached, dest)
	return nil
}

func printAssembly(cmd *cobra.Command, result buildpipeline.BuildResult) error {
	out := cmd.OutOrStdout()
	multi := len(result.Files) > 1
	for _, f := range result.Files {
		if f.Failed() {
			continue
		}
		if multi {
			if _, err := fmt.Fprintf(out, "; == %s ==\n", f.Display); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(out, f.Compile.Asm); err != nil {
			return err
		}
	}
	return nil
}

// resolveBuildPlan merges the target argument, the manifest and flags.
// Flags win over the manifest, the manifest over built-in defaults.
func resolveBuildPlan(target string, manifest *projectManifest, bf buildFlags) (buildPlan, error) {
	var plan buildPlan
	if target == "" {
		if manifest == nil {
			return plan, errors.New(noManifestMessage)
		}
		p, err := manifest.mainPath()
		if err != nil {
			return plan, err
		}
		target = p
	}

	info, err := os.Stat(target)
	if err != nil {
		return plan, fmt.Errorf("failed to stat %q: %w", target, err)
	}
	if info.IsDir() {
		files, err := driver.ListSources(target)
		if err != nil {
			return plan, err
		}
		if len(files) == 0 {
			return plan, fmt.Errorf("no %s files in %s", driver.SourceExt, target)
		}
		plan.files = files
		plan.baseDir = target
	} else {
		if !strings.EqualFold(filepath.Ext(target), driver.SourceExt) {
			return plan, fmt.Errorf("%s: expected a %s file", target, driver.SourceExt)
		}
		plan.files = []string{target}
		plan.baseDir = filepath.Dir(target)
	}

	switch {
	case bf.toStdout:
		plan.outDir = ""
	case bf.out != "":
		plan.outDir = bf.out
	case manifest != nil && manifest.outDir() != "":
		plan.outDir = manifest.outDir()
	default:
		plan.outDir = plan.baseDir
	}

	plan.entry = codegen.DefaultEntry
	if manifest != nil && strings.TrimSpace(manifest.Config.Build.Entry) != "" {
		plan.entry = strings.TrimSpace(manifest.Config.Build.Entry)
	}
	if bf.entry != "" {
		plan.entry = bf.entry
	}

	plan.jobs = runtime.GOMAXPROCS(0)
	if manifest != nil && manifest.Config.Build.Jobs > 0 {
		plan.jobs = manifest.Config.Build.Jobs
	}
	if bf.jobs > 0 {
		plan.jobs = bf.jobs
	}
	return plan, nil
}
