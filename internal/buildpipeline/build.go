// Package buildpipeline compiles a set of sources and persists their assembly.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ember/internal/diag"
	"ember/internal/driver"
	"ember/internal/source"
	"ember/internal/trace"
)

// ErrDiagnostics is returned when at least one file stopped with a diagnostic.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// BuildRequest configures a build.
type BuildRequest struct {
	Files          []string
	BaseDir        string // display names and output layout are relative to it
	OutDir         string // "" skips writing
	Entry          string
	Jobs           int
	MaxDiagnostics int
	Cache          *driver.DiskCache
	Progress       ProgressSink
}

// FileResult is the outcome for one source.
type FileResult struct {
	Source     string
	Display    string
	OutputPath string // empty when nothing was written
	Compile    *driver.Result
	Timings    *Timings
	WriteErr   error
}

// Failed reports a diagnostic or a write failure.
func (f *FileResult) Failed() bool {
	return f.WriteErr != nil || f.Compile == nil || f.Compile.Failed()
}

// BuildResult captures all files and aggregated timings.
type BuildResult struct {
	FileSet *source.FileSet
	Files   []FileResult
	Timings *Timings
}

// Failed reports whether any file failed.
func (r *BuildResult) Failed() bool {
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// Bag merges the diagnostics of every file, sorted by file and position.
func (r *BuildResult) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for _, f := range r.Files {
		if f.Compile != nil {
			bag.Merge(f.Compile.Bag)
		}
	}
	bag.Dedup()
	bag.Sort()
	return bag
}

// Build compiles req.Files concurrently and writes each successful result.
// Per-file failures do not stop the other files; they make Build return
// ErrDiagnostics (or the first write error) alongside the full result.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	result := BuildResult{Timings: &Timings{}}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no source files to build")
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "build", trace.ParentSpan(ctx))
	defer span.End(fmt.Sprintf("files=%d", len(req.Files)))
	ctx = trace.WithParent(ctx, span.ID())

	display := make(map[string]string, len(req.Files))
	for _, f := range req.Files {
		d := DisplayName(f, req.BaseDir)
		display[filepath.Clean(f)] = d
		emit(req.Progress, Event{File: d, Stage: StageLex, Status: StatusQueued})
	}
	nameOf := func(path string) string {
		if d, ok := display[filepath.Clean(path)]; ok {
			return d
		}
		return DisplayName(path, req.BaseDir)
	}

	opts := driver.Options{
		Stage:          driver.StageAll,
		Entry:          req.Entry,
		MaxDiagnostics: req.MaxDiagnostics,
		EnableTimings:  true,
		Cache:          req.Cache,
		Observer: func(ev driver.PhaseEvent) {
			status := StatusWorking
			switch ev.Status {
			case driver.PhaseStart:
			case driver.PhaseFailed:
				status = StatusError
			default:
				return
			}
			emit(req.Progress, Event{File: nameOf(ev.Path), Stage: Stage(ev.Name), Status: status, Elapsed: ev.Elapsed})
		},
	}
	emit(req.Progress, Event{Stage: StageLex, Status: StatusWorking})
	fileSet, compiled, err := driver.CompileFiles(ctx, req.Files, req.Jobs, opts)
	result.FileSet = fileSet
	if err != nil {
		emit(req.Progress, Event{Stage: StageGen, Status: StatusError, Err: err})
		return result, err
	}

	var writeErr error
	result.Files = make([]FileResult, len(compiled))
	for i, res := range compiled {
		fr := FileResult{Source: req.Files[i], Display: nameOf(req.Files[i]), Compile: res, Timings: timingsOf(res)}
		switch {
		case res.Failed():
			emit(req.Progress, Event{File: fr.Display, Stage: stageOf(res.Err), Status: StatusError, Err: res.Err})
		case req.OutDir == "":
			emit(req.Progress, Event{File: fr.Display, Stage: StageGen, Status: doneStatus(res)})
		default:
			start := time.Now()
			emit(req.Progress, Event{File: fr.Display, Stage: StageWrite, Status: StatusWorking})
			fr.OutputPath = outputPath(fr.Display, req.OutDir)
			if err := writeAsm(fr.OutputPath, res.Asm); err != nil {
				fr.WriteErr = err
				fr.OutputPath = ""
				writeErr = errors.Join(writeErr, err)
				emit(req.Progress, Event{File: fr.Display, Stage: StageWrite, Status: StatusError, Err: err})
				break
			}
			fr.Timings.Set(StageWrite, time.Since(start))
			emit(req.Progress, Event{File: fr.Display, Stage: StageWrite, Status: doneStatus(res), Elapsed: time.Since(start)})
		}
		result.Timings.Add(fr.Timings)
		result.Files[i] = fr
	}

	switch {
	case writeErr != nil:
		err = writeErr
	case result.Failed():
		err = ErrDiagnostics
	}
	status := StatusDone
	if err != nil {
		status = StatusError
	}
	emit(req.Progress, Event{Stage: StageWrite, Status: status, Err: err, Elapsed: result.Timings.Sum()})
	return result, err
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

func doneStatus(res *driver.Result) Status {
	if res.Cached {
		return StatusCached
	}
	return StatusDone
}

// stageOf maps a diagnostic to the stage that raised it.
func stageOf(err *diag.Error) Stage {
	switch err.Kind() {
	case diag.KindLexical:
		return StageLex
	case diag.KindSyntax:
		return StageParse
	case diag.KindSemantic:
		return StageCheck
	case diag.KindIO:
		// файл не прочитался
		return StageLex
	}
	return StageGen
}

func timingsOf(res *driver.Result) *Timings {
	t := &Timings{}
	if res == nil || res.Timing == nil {
		return t
	}
	for _, p := range res.Timing.Phases {
		t.Set(Stage(p.Name), time.Duration(p.DurationMS*float64(time.Millisecond)))
	}
	return t
}

func writeAsm(path, asm string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(asm), 0o600); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
