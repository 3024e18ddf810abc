package codegen

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/trace"
	"ember/internal/types"
)

// DefaultEntry is the entry-point symbol used when Options.Entry is empty.
const DefaultEntry = "main"

// Options configure assembly emission.
type Options struct {
	Entry    string
	Reporter diag.Reporter
	// Tracer receives one stmt-scope point per lowered statement under
	// TraceParent. Nil disables.
	Tracer      trace.Tracer
	TraceParent uint64
}

// Generator lowers a checked program to NASM x86-64 assembly.
type Generator struct {
	res  *sema.Result
	opts Options
}

// Generate emits the whole program. The first lowering failure aborts the
// run and is reported to opts.Reporter.
func Generate(res *sema.Result, opts Options) (string, error) {
	if opts.Entry == "" {
		opts.Entry = DefaultEntry
	}
	g := &Generator{res: res, opts: opts}
	ctx := &Context{}
	if err := g.run(ctx); err != nil {
		err.Report(opts.Reporter)
		return "", err
	}
	return ctx.out.String(), nil
}

func (g *Generator) run(ctx *Context) *diag.Error {
	ctx.out.WriteString("global " + g.opts.Entry + "\n")
	ctx.out.WriteString("section .text\n")
	ctx.place(g.opts.Entry)
	ctx.emit("push rbp")
	ctx.emit("mov rbp, rsp")
	if g.res != nil && g.res.Program != nil {
		top := &ast.Scope{Stmts: append([]ast.Stmt(nil), g.res.Program.Stmts...)}
		if err := g.lowerScope(ctx, top); err != nil {
			return err
		}
	}
	// выход с кодом 0, если программа не вызвала exit
	ctx.emit("mov rax, 60")
	ctx.emit("xor rdi, rdi")
	ctx.emit("syscall")
	return nil
}

// frameBytes sums the widths of the declarations made directly in scope.
func frameBytes(scope *ast.Scope) int {
	n := 0
	for _, st := range scope.Stmts {
		if v, ok := st.(*ast.VarSemantics); ok {
			n += v.Width
		}
	}
	return n
}

func (g *Generator) lowerScope(ctx *Context, scope *ast.Scope) *diag.Error {
	if scope == nil {
		return nil
	}
	reserve := frameBytes(scope)
	if reserve > 0 {
		ctx.emit("sub rsp, %d", reserve)
		ctx.rspDepth += reserve
	}
	declared := 0
	stmts := scope.Stmts
	for len(stmts) > 0 {
		st := stmts[0]
		stmts = stmts[1:]
		if _, ok := st.(*ast.VarSemantics); ok {
			declared++
		}
		if err := g.lowerStmt(ctx, st); err != nil {
			return err
		}
	}
	if err := ctx.pop(declared, scope.Loc); err != nil {
		return err
	}
	if reserve > 0 {
		ctx.emit("add rsp, %d", reserve)
		ctx.rspDepth -= reserve
	}
	return nil
}

func (g *Generator) lowerStmt(ctx *Context, st ast.Stmt) *diag.Error {
	trace.Point(g.opts.Tracer, trace.ScopeStmt, ast.StmtName(st), g.opts.TraceParent, "")
	switch st := st.(type) {
	case *ast.VarSemantics:
		return g.lowerVar(ctx, st)
	case *ast.Assign:
		dst, ok := ctx.lookup(st.Name.Text)
		if !ok {
			return diag.Errorf(diag.GenUndeclared, st.Name.Span, "undeclared variable '%s'", st.Name.Text)
		}
		return g.lowerInto(ctx, st.Value, dst)
	case *ast.Exit:
		r, err := g.lowerExpr(ctx, st.Value)
		if err != nil {
			return err
		}
		ctx.emit("mov rdi, %s", r)
		ctx.emit("mov rax, 60")
		ctx.emit("syscall")
		return ctx.regs.release(st.Loc)
	case *ast.If:
		return g.lowerIf(ctx, st)
	case *ast.While:
		return g.lowerWhile(ctx, st)
	case *ast.NakedScope:
		return g.lowerScope(ctx, st.Body)
	case *ast.Break:
		if len(ctx.loops) == 0 {
			return diag.Errorf(diag.GenBreakOutsideLoop, st.Loc, "break without an enclosing loop")
		}
		loop := ctx.loops[len(ctx.loops)-1]
		if unwind := ctx.rspDepth - loop.depth; unwind > 0 {
			ctx.emit("add rsp, %d", unwind)
		}
		ctx.emit("jmp %s", loop.end)
		return nil
	case *ast.FnSemantics:
		return diag.Unsupported(diag.GenUnsupportedFn, st.Name.Span, "lowering of function '"+st.Name.Text+"'")
	case *ast.Return:
		return diag.Unsupported(diag.GenUnsupportedReturn, st.Loc, "lowering of return")
	case nil:
		return nil
	}
	return diag.Errorf(diag.GenInfo, st.Span(), "statement %s was not checked", ast.StmtName(st))
}

func (g *Generator) lowerVar(ctx *Context, v *ast.VarSemantics) *diag.Error {
	t, ok := g.res.Types.Get(v.Type)
	if !ok {
		return diag.Errorf(diag.GenMissingExprInfo, v.Name.Span, "variable '%s' has no type", v.Name.Text)
	}
	mode, _ := t.BaseMode()
	if mode.Kind == types.ModeFloat {
		return diag.Unsupported(diag.GenUnsupportedFloat, v.Name.Span, "floating-point variable '"+v.Name.Text+"'")
	}
	s := slot{
		name:   v.Name.Text,
		offset: v.Offset,
		width:  v.Width,
		signed: mode.IsSigned(),
		addr:   v.Addr,
	}
	if v.Addr == types.AddrPointer {
		s.elem = t.Width
	}
	if err := ctx.push(s, v.Name.Span); err != nil {
		return err
	}
	if v.Init == nil {
		return nil
	}
	return g.lowerInto(ctx, v.Init, s)
}

func (g *Generator) lowerIf(ctx *Context, st *ast.If) *diag.Error {
	n := ctx.label()
	falseLabel := labelName(n, "IF_FALSE")
	hasElse := len(st.Branches) > 0
	if hasElse {
		ctx.ifEnds = append(ctx.ifEnds, labelName(n, "END_IF"))
		defer func() { ctx.ifEnds = ctx.ifEnds[:len(ctx.ifEnds)-1] }()
	}

	if err := g.jumpIfFalse(ctx, st.Cond, falseLabel); err != nil {
		return err
	}
	if err := g.lowerScope(ctx, st.Body); err != nil {
		return err
	}
	if hasElse {
		ctx.emit("jmp %s", ctx.ifEnds[len(ctx.ifEnds)-1])
	}
	ctx.place(falseLabel)

	for _, br := range st.Branches {
		switch br := br.(type) {
		case *ast.ElseIf:
			next := labelName(ctx.label(), "ELIF_FALSE")
			if err := g.jumpIfFalse(ctx, br.Cond, next); err != nil {
				return err
			}
			if err := g.lowerScope(ctx, br.Body); err != nil {
				return err
			}
			ctx.emit("jmp %s", ctx.ifEnds[len(ctx.ifEnds)-1])
			ctx.place(next)
		case *ast.Else:
			if err := g.lowerScope(ctx, br.Body); err != nil {
				return err
			}
		}
	}
	if hasElse {
		ctx.place(ctx.ifEnds[len(ctx.ifEnds)-1])
	}
	return nil
}

func (g *Generator) lowerWhile(ctx *Context, st *ast.While) *diag.Error {
	n := ctx.label()
	cmpLabel := labelName(n, "WHILE_CMP")
	bodyLabel := labelName(n, "WHILE_SCOPE")
	endLabel := labelName(n, "WHILE_END")

	ctx.emit("jmp %s", cmpLabel)
	ctx.place(bodyLabel)
	ctx.loops = append(ctx.loops, loopLabels{end: endLabel, depth: ctx.rspDepth})
	err := g.lowerScope(ctx, st.Body)
	ctx.loops = ctx.loops[:len(ctx.loops)-1]
	if err != nil {
		return err
	}
	ctx.place(cmpLabel)
	if err := g.jumpIfTrue(ctx, st.Cond, bodyLabel); err != nil {
		return err
	}
	ctx.place(endLabel)
	return nil
}

func (g *Generator) exprData(e ast.Expr) (sema.ExprData, *diag.Error) {
	d, ok := g.res.Expr(e)
	if !ok {
		var at source.Span
		if e != nil {
			at = e.Span()
		}
		return d, diag.Errorf(diag.GenMissingExprInfo, at, "expression %s was not checked", ast.FormatExpr(e))
	}
	return d, nil
}
