package sema

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/types"
)

type checker struct {
	types     *types.Registry
	vars      *ast.Arena[Variable]
	scopes    *scopeStack
	fns       map[string]token.Token
	exprs     map[ast.Expr]ExprData
	loopDepth int
	fn        *fnContext
	maxFrame  int
}

// fnContext describes the function whose body is being checked.
type fnContext struct {
	name token.Token
	ret  types.TypeID
}

func newChecker(reg *types.Registry) *checker {
	vars := ast.NewArena[Variable](32)
	return &checker{
		types:  reg,
		vars:   vars,
		scopes: newScopeStack(vars),
		fns:    make(map[string]token.Token),
		exprs:  make(map[ast.Expr]ExprData),
	}
}

func (c *checker) checkStmts(stmts []ast.Stmt) *diag.Error {
	for i, st := range stmts {
		checked, err := c.checkStmt(st)
		if err != nil {
			return err
		}
		stmts[i] = checked
	}
	return nil
}

// checkScope checks a block and forgets its variables on exit.
func (c *checker) checkScope(scope *ast.Scope) *diag.Error {
	if scope == nil {
		return nil
	}
	mark := c.scopes.mark()
	err := c.checkStmts(scope.Stmts)
	c.scopes.popTo(mark)
	return err
}

func (c *checker) checkStmt(st ast.Stmt) (ast.Stmt, *diag.Error) {
	switch st := st.(type) {
	case *ast.VarDecl:
		return c.checkVarDecl(st)
	case *ast.FnDecl:
		return c.checkFnDecl(st)
	case *ast.Assign:
		return st, c.checkAssignStmt(st)
	case *ast.Exit:
		_, err := c.checkExpr(st.Value)
		return st, err
	case *ast.If:
		return st, c.checkIf(st)
	case *ast.While:
		if _, err := c.checkExpr(st.Cond); err != nil {
			return st, err
		}
		c.loopDepth++
		err := c.checkScope(st.Body)
		c.loopDepth--
		return st, err
	case *ast.NakedScope:
		return st, c.checkScope(st.Body)
	case *ast.Break:
		if c.loopDepth == 0 {
			return st, diag.Errorf(diag.SemaNotInLoop, st.Loc, "not inside a loop! cannot break")
		}
		return st, nil
	case *ast.Return:
		return st, c.checkReturn(st)
	case *ast.VarSemantics, *ast.FnSemantics:
		// already checked
		return st, nil
	case nil:
		return st, nil
	}
	return st, diag.Errorf(diag.SemaInfo, st.Span(), "unexpected statement %s", ast.StmtName(st))
}

func (c *checker) checkIf(st *ast.If) *diag.Error {
	if err := c.checkCondition(st.Cond, "if"); err != nil {
		return err
	}
	if err := c.checkScope(st.Body); err != nil {
		return err
	}
	for _, br := range st.Branches {
		switch br := br.(type) {
		case *ast.ElseIf:
			if err := c.checkCondition(br.Cond, "else if"); err != nil {
				return err
			}
			if err := c.checkScope(br.Body); err != nil {
				return err
			}
		case *ast.Else:
			if err := c.checkScope(br.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *checker) checkCondition(cond ast.Expr, what string) *diag.Error {
	d, err := c.checkExpr(cond)
	if err != nil {
		return err
	}
	if d.Mode != types.Bool {
		return diag.Errorf(diag.SemaConditionNotBool, cond.Span(),
			"%s condition must be bool, found %s", what, d.Mode)
	}
	return nil
}

// resolveType maps a type name to a scalar registry entry.
func (c *checker) resolveType(tok token.Token) (types.TypeID, types.Type, types.Mode, *diag.Error) {
	id, ok := c.types.Lookup(tok.Text)
	if !ok {
		return types.NoTypeID, types.Type{}, types.Mode{}, diag.Errorf(diag.SemaUnknownType, tok.Span, "unknown type '%s'", tok.Text)
	}
	t := c.types.MustGet(id)
	mode, ok := t.BaseMode()
	if !ok {
		return id, t, types.Mode{}, diag.Unsupported(diag.SemaUnsupportedTypeForm, tok.Span, "type '"+tok.Text+"' of non-scalar form")
	}
	return id, t, mode, nil
}

// checkName rejects names that clash with something already visible.
func (c *checker) checkName(name token.Token) *diag.Error {
	if _, prev := c.scopes.lookup(name.Text); prev != nil {
		return diag.Errorf(diag.SemaDuplicateVariable, name.Span,
			"variable '%s' is already declared at %s", name.Text, prev.Name.Pos).
			Note(prev.Name.Span, "previous declaration")
	}
	if _, ok := c.types.Lookup(name.Text); ok {
		return diag.Errorf(diag.SemaReservedName, name.Span, "'%s' names a type", name.Text)
	}
	if prev, ok := c.fns[name.Text]; ok {
		return diag.Errorf(diag.SemaReservedName, name.Span, "'%s' names a function", name.Text).
			Note(prev.Span, "function declared here")
	}
	return nil
}

func (c *checker) checkVarDecl(decl *ast.VarDecl) (ast.Stmt, *diag.Error) {
	if err := c.checkName(decl.Name); err != nil {
		return decl, err
	}
	typeID, t, mode, err := c.resolveType(decl.Type)
	if err != nil {
		return decl, err
	}
	if mode == types.Void {
		return decl, diag.Errorf(diag.SemaTypeMismatch, decl.Type.Span, "variable '%s' cannot have type void", decl.Name.Text)
	}
	v := Variable{
		Name:    decl.Name,
		Type:    typeID,
		Mode:    mode,
		Addr:    types.AddrPrimitive,
		Width:   t.Width,
		Mutable: decl.Mutable,
	}
	if decl.Pointer {
		v.Addr = types.AddrPointer
		v.Width = types.PtrWidth
		v.Elem = t.Width
	}
	// инициализатор проверяется до объявления: "let x: u8 = x;" ошибка
	if decl.Init != nil {
		d, err := c.checkExpr(decl.Init)
		if err != nil {
			return decl, err
		}
		if err := c.checkAssign(v, d, decl.Init.Span()); err != nil {
			return decl, err
		}
	}
	id := c.scopes.declare(v)
	if c.fn == nil && c.scopes.frame > c.maxFrame {
		c.maxFrame = c.scopes.frame
	}
	slot := c.vars.Get(uint32(id))
	return &ast.VarSemantics{
		Name:    decl.Name,
		Width:   slot.Width,
		Mutable: slot.Mutable,
		Type:    slot.Type,
		Addr:    slot.Addr,
		Init:    decl.Init,
		Offset:  slot.Offset,
		Loc:     decl.Loc,
	}, nil
}

func (c *checker) checkAssignStmt(st *ast.Assign) *diag.Error {
	_, v := c.scopes.lookup(st.Name.Text)
	if v == nil {
		return diag.Errorf(diag.SemaUndeclaredVariable, st.Name.Span, "use of undeclared variable '%s'", st.Name.Text)
	}
	if !v.Mutable {
		return diag.Errorf(diag.SemaReassignConstant, st.Name.Span, "re-assignment of constant '%s'", st.Name.Text).
			Note(v.Name.Span, "declared without 'mut' here")
	}
	target := *v
	d, err := c.checkExpr(st.Value)
	if err != nil {
		return err
	}
	return c.checkAssign(target, d, st.Value.Span())
}

// checkAssign decides whether a value annotated d may be stored into dst.
func (c *checker) checkAssign(dst Variable, d ExprData, at source.Span) *diag.Error {
	if d.Addr != dst.Addr {
		return diag.Errorf(diag.SemaAddressingMismatch, at,
			"cannot store a %s value into %s variable '%s'", d.Addr, dst.Addr, dst.Name.Text)
	}
	if !types.Unify(dst.Mode, d.Mode) {
		return diag.Errorf(diag.SemaTypeMismatch, at,
			"cannot use %s value as %s for '%s'", d.Mode, dst.Mode, dst.Name.Text)
	}
	if w := c.width(d); w > dst.Width {
		return diag.Errorf(diag.SemaNarrowing, at,
			"value of width %d does not fit into '%s' of width %d", w, dst.Name.Text, dst.Width)
	}
	if dst.Addr == types.AddrPointer && d.Elem != dst.Elem {
		return diag.Errorf(diag.SemaTypeMismatch, at,
			"pointee width %d does not match %d of '%s'", d.Elem, dst.Elem, dst.Name.Text)
	}
	return nil
}

func (c *checker) width(d ExprData) int {
	if v := c.vars.Get(uint32(d.Var)); v != nil {
		return v.Width
	}
	return d.Width
}
