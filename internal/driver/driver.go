package driver

import (
	"context"
	"fmt"
	"slices"

	"ember/internal/ast"
	"ember/internal/codegen"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/observ"
	"ember/internal/parser"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/trace"
)

// Stage определяет, до какой стадии идёт компиляция
type Stage string

const (
	StageTokenize Stage = "tokenize"
	StageParse    Stage = "parse"
	StageCheck    Stage = "check"
	StageAll      Stage = "all"
)

// ParseStage converts a flag value to a Stage.
func ParseStage(s string) (Stage, error) {
	switch st := Stage(s); st {
	case StageTokenize, StageParse, StageCheck, StageAll:
		return st, nil
	case "":
		return StageAll, nil
	}
	return "", fmt.Errorf("unknown stage %q (expected: tokenize|parse|check|all)", s)
}

func (s Stage) reaches(other Stage) bool {
	order := []Stage{StageTokenize, StageParse, StageCheck, StageAll}
	return slices.Index(order, s) >= slices.Index(order, other)
}

// Options содержит опции компиляции одного файла
type Options struct {
	Stage          Stage
	Entry          string // entry symbol, codegen.DefaultEntry when empty
	MaxDiagnostics int
	EnableTimings  bool
	// Cache, when set, short-circuits StageAll for unchanged sources.
	Cache    *DiskCache
	Observer PhaseObserver
}

// Result is everything one file produced. Stages after a failing one leave
// their fields nil. The checker rewrites declarations in place, so after
// StageCheck Program and Checked.Program are the same tree.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Program *ast.Program
	Checked *sema.Result
	Asm     string
	Cached  bool
	Timing  *observ.Report
	Bag     *diag.Bag
	// Err is the diagnostic that stopped the pipeline, nil on success.
	Err *diag.Error
}

// Failed reports whether a stage stopped with a diagnostic.
func (r *Result) Failed() bool { return r != nil && r.Err != nil }

// CompileFile loads path into a fresh FileSet and compiles it.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Compile(ctx, fs, id, opts)
}

// Compile runs the pipeline over one loaded file up to opts.Stage.
// Diagnostics never surface as the returned error: they land in
// Result.Bag and Result.Err. The error is reserved for cancellation.
// Cache failures degrade to a miss plus an IO warning in the bag.
func Compile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	if opts.Stage == "" {
		opts.Stage = StageAll
	}
	if opts.Entry == "" {
		opts.Entry = codegen.DefaultEntry
	}

	res := &Result{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, "file:"+file.Path, trace.ParentSpan(ctx))
	p := &pipeline{ctx: ctx, res: res, opts: opts, timer: timer, tracer: tracer, parent: fileSpan.ID()}

	err := p.run()
	detail := "ok"
	switch {
	case res.Cached:
		detail = "cached"
	case res.Failed():
		detail = res.Err.Code().ID()
	}
	fileSpan.End(detail)

	if timer != nil {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "file", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}
	return res, err
}

type pipeline struct {
	ctx    context.Context
	res    *Result
	opts   Options
	timer  *observ.Timer
	tracer trace.Tracer
	parent uint64
}

// stage runs fn as one traced, timed, observed phase. fn returns the
// phase note and the stage diagnostic.
func (p *pipeline) stage(name string, fn func() (string, error)) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	span := trace.Begin(p.tracer, trace.ScopePass, name, p.parent)
	p.opts.Observer.emit(PhaseEvent{Name: name, Path: p.res.File.Path, Status: PhaseStart})
	var stageErr error
	err := p.timer.Measure(name, func() (string, error) {
		note, err := fn()
		stageErr = err
		return note, err
	})
	elapsed := span.End(errDetail(err))
	status := PhaseEnd
	if err != nil {
		status = PhaseFailed
	}
	p.opts.Observer.emit(PhaseEvent{Name: name, Path: p.res.File.Path, Status: status, Elapsed: elapsed})
	if stageErr != nil {
		if de, ok := diag.AsError(stageErr); ok {
			p.res.Err = de
			return nil
		}
		return stageErr
	}
	return nil
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := diag.AsError(err); ok {
		return de.Code().ID()
	}
	return err.Error()
}

func (p *pipeline) reporter() diag.Reporter {
	return diag.BagReporter{Bag: p.res.Bag}
}

func (p *pipeline) cacheWarning(err error) {
	span := source.Span{File: p.res.File.ID}
	p.res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, span, "cache: "+err.Error()))
}

func (p *pipeline) run() error {
	res, opts := p.res, p.opts

	var key Digest
	if opts.Stage == StageAll && opts.Cache != nil {
		key = CacheKey(opts.Entry, res.File.Content)
		var payload Payload
		hit := false
		if err := p.stage("cache", func() (string, error) {
			var err error
			hit, err = opts.Cache.Get(key, &payload)
			if err != nil {
				// битый кэш не валит сборку
				p.cacheWarning(err)
				hit = false
				return "unreadable", nil
			}
			if hit {
				return "hit", nil
			}
			return "miss", nil
		}); err != nil {
			return err
		}
		if hit {
			res.Asm = payload.Asm
			res.Cached = true
			return nil
		}
	}

	if err := p.stage("lex", func() (string, error) {
		toks, err := lexer.Tokenize(res.File, lexer.Options{Reporter: p.reporter()})
		res.Tokens = toks
		return fmt.Sprintf("tokens=%d", len(toks)), err
	}); err != nil || res.Failed() || !opts.Stage.reaches(StageParse) {
		return err
	}

	if err := p.stage("parse", func() (string, error) {
		// парсер переписывает составные операторы на месте
		prog, err := parser.Parse(slices.Clone(res.Tokens), parser.Options{Reporter: p.reporter()})
		res.Program = prog
		if prog == nil {
			return "", err
		}
		return fmt.Sprintf("stmts=%d", len(prog.Stmts)), err
	}); err != nil || res.Failed() || !opts.Stage.reaches(StageCheck) {
		return err
	}

	if err := p.stage("check", func() (string, error) {
		checked, err := sema.Check(res.Program, sema.Options{Reporter: p.reporter()})
		res.Checked = checked
		if checked == nil {
			return "", err
		}
		return fmt.Sprintf("vars=%d frame=%d", len(checked.Vars), checked.FrameSize), err
	}); err != nil || res.Failed() || !opts.Stage.reaches(StageAll) {
		return err
	}

	if err := p.stage("gen", func() (string, error) {
		asm, err := codegen.Generate(res.Checked, codegen.Options{
			Entry:       opts.Entry,
			Reporter:    p.reporter(),
			Tracer:      p.tracer,
			TraceParent: p.parent,
		})
		res.Asm = asm
		return fmt.Sprintf("bytes=%d", len(asm)), err
	}); err != nil || res.Failed() {
		return err
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, &Payload{Path: res.File.Path, Asm: res.Asm}); err != nil {
			p.cacheWarning(err)
		}
	}
	return nil
}
