package sema

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/types"
)

// Options configure a semantic pass over a program.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Registry
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Program *ast.Program
	Types   *types.Registry
	// Vars is the arena of every variable ever declared, indexed by VarID-1.
	Vars  []Variable
	Exprs map[ast.Expr]ExprData
	// FrameSize is the deepest top-level frame reached, in bytes.
	FrameSize int
}

// Var returns the variable behind a handle.
func (r *Result) Var(id VarID) (Variable, bool) {
	if id == NoVar || int(id) > len(r.Vars) {
		return Variable{}, false
	}
	return r.Vars[id-1], true
}

// Expr returns the annotation recorded for e.
func (r *Result) Expr(e ast.Expr) (ExprData, bool) {
	d, ok := r.Exprs[e]
	return d, ok
}

// Width resolves the byte width of an annotated expression: the variable's
// width for Variable forms, the inherited width otherwise.
func (r *Result) Width(d ExprData) int {
	if v, ok := r.Var(d.Var); ok {
		return v.Width
	}
	return d.Width
}

// Check validates prog and rewrites declarations into their semantic forms
// in place. Checking stops at the first error, which is also reported to
// opts.Reporter.
func Check(prog *ast.Program, opts Options) (*Result, error) {
	reg := opts.Types
	if reg == nil {
		reg = types.NewRegistry()
	}
	c := newChecker(reg)
	if prog != nil {
		if err := c.checkStmts(prog.Stmts); err != nil {
			err.Report(opts.Reporter)
			return nil, err
		}
	}
	return &Result{
		Program:   prog,
		Types:     reg,
		Vars:      c.vars.Slice(),
		Exprs:     c.exprs,
		FrameSize: c.maxFrame,
	}, nil
}
