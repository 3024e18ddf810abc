package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/trace"
)

// SourceExt is the extension CompileDir picks up.
const SourceExt = ".em"

// ListSources returns every *.em file under dir, sorted.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// CompileDir compiles every source under dir with at most jobs files in
// flight (GOMAXPROCS when jobs <= 0). Results follow path order. A file that
// cannot be loaded gets a Result carrying an IOLoadFileError diagnostic;
// only cancellation aborts the batch.
func CompileDir(ctx context.Context, dir string, jobs int, opts Options) (*source.FileSet, []*Result, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet, results, err := CompileFiles(ctx, files, jobs, opts)
	return fileSet, results, err
}

// CompileFiles is CompileDir over an explicit list of paths.
func CompileFiles(ctx context.Context, paths []string, jobs int, opts Options) (*source.FileSet, []*Result, error) {
	fileSet := source.NewFileSet()
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "compile-files", trace.ParentSpan(ctx))
	defer span.End(fmt.Sprintf("files=%d", len(paths)))
	ctx = trace.WithParent(ctx, span.ID())

	// FileSet не потокобезопасен: грузим всё до запуска горутин
	ids := make([]source.FileID, len(paths))
	loadErrs := make([]error, len(paths))
	for i, path := range paths {
		ids[i], loadErrs[i] = fileSet.Load(path)
		if loadErrs[i] != nil {
			// пустая заглушка, чтобы диагностике было куда указывать
			ids[i] = fileSet.AddVirtual(path, nil)
		}
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		if loadErrs[i] != nil {
			results[i] = loadFailure(fileSet, ids[i], loadErrs[i], opts.MaxDiagnostics)
			continue
		}
		g.Go(func() error {
			res, err := Compile(gctx, fileSet, ids[i], opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, nil, err
	}
	return fileSet, results, nil
}

func loadFailure(fs *source.FileSet, id source.FileID, err error, maxDiagnostics int) *Result {
	file := fs.Get(id)
	de := diag.Errorf(diag.IOLoadFileError, source.Span{File: id}, "cannot load %s: %v", file.Path, err)
	bag := diag.NewBag(maxDiagnostics)
	de.Report(diag.BagReporter{Bag: bag})
	return &Result{FileSet: fs, File: file, Bag: bag, Err: de}
}
