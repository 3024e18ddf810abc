package sema

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/types"
)

func (c *checker) checkFnDecl(decl *ast.FnDecl) (ast.Stmt, *diag.Error) {
	name := decl.Name
	if prev, ok := c.fns[name.Text]; ok {
		return decl, diag.Errorf(diag.SemaDuplicateFunction, name.Span, "function '%s' is already declared", name.Text).
			Note(prev.Span, "previous declaration")
	}
	if _, ok := c.types.Lookup(name.Text); ok {
		return decl, diag.Errorf(diag.SemaReservedName, name.Span, "'%s' names a type", name.Text)
	}
	if _, prev := c.scopes.lookup(name.Text); prev != nil {
		return decl, diag.Errorf(diag.SemaReservedName, name.Span, "'%s' names a variable", name.Text).
			Note(prev.Name.Span, "variable declared here")
	}

	ret := types.VoidID
	if decl.Ret != nil {
		id, _, _, err := c.resolveType(*decl.Ret)
		if err != nil {
			return decl, err
		}
		ret = id
	}

	params := make([]ast.ParamSemantics, 0, len(decl.Params))
	slots := make([]Variable, 0, len(decl.Params))
	seen := make(map[string]int, len(decl.Params))
	for i, p := range decl.Params {
		if j, dup := seen[p.Name.Text]; dup {
			return decl, diag.Errorf(diag.SemaDuplicateParam, p.Name.Span, "duplicate parameter '%s'", p.Name.Text).
				Note(decl.Params[j].Name.Span, "first declared here")
		}
		seen[p.Name.Text] = i
		id, t, mode, err := c.resolveType(p.Type)
		if err != nil {
			return decl, err
		}
		if mode == types.Void {
			return decl, diag.Errorf(diag.SemaTypeMismatch, p.Type.Span, "parameter '%s' cannot have type void", p.Name.Text)
		}
		params = append(params, ast.ParamSemantics{Name: p.Name, Type: id, Width: t.Width})
		slots = append(slots, Variable{
			Name:  p.Name,
			Type:  id,
			Mode:  mode,
			Addr:  types.AddrPrimitive,
			Width: t.Width,
		})
	}
	c.fns[name.Text] = name

	// тело функции видит только свои параметры и свой кадр
	outerScopes, outerFn, outerLoop := c.scopes, c.fn, c.loopDepth
	c.scopes = newScopeStack(c.vars)
	c.fn = &fnContext{name: name, ret: ret}
	c.loopDepth = 0
	for _, slot := range slots {
		c.scopes.declare(slot)
	}
	err := c.checkScope(decl.Body)
	if err == nil && ret != types.VoidID {
		err = checkTerminalReturn(decl)
	}
	c.scopes, c.fn, c.loopDepth = outerScopes, outerFn, outerLoop
	if err != nil {
		return decl, err.Note(name.Span, "in function '"+name.Text+"'")
	}

	return &ast.FnSemantics{
		Name:   name,
		Params: params,
		Ret:    ret,
		Body:   decl.Body,
		Loc:    decl.Loc,
	}, nil
}

// checkTerminalReturn requires a non-void body to end in a return or an if.
// Branches of that if are not inspected.
func checkTerminalReturn(decl *ast.FnDecl) *diag.Error {
	stmts := decl.Body.Stmts
	if len(stmts) > 0 {
		switch stmts[len(stmts)-1].(type) {
		case *ast.Return, *ast.If:
			return nil
		}
	}
	return diag.Errorf(diag.SemaMissingReturn, decl.Body.Loc, "not all paths of '%s' return a value", decl.Name.Text)
}

func (c *checker) checkReturn(st *ast.Return) *diag.Error {
	if c.fn == nil {
		return diag.Errorf(diag.SemaReturnOutsideFn, st.Loc, "return outside of a function")
	}
	ret := c.types.MustGet(c.fn.ret)
	retMode, _ := ret.BaseMode()
	if st.Value == nil {
		if c.fn.ret != types.VoidID {
			return diag.Errorf(diag.SemaReturnMismatch, st.Loc, "missing return value of type %s", ret.Name)
		}
		return nil
	}
	d, err := c.checkExpr(st.Value)
	if err != nil {
		return err
	}
	if c.fn.ret == types.VoidID {
		return diag.Errorf(diag.SemaReturnMismatch, st.Value.Span(), "function '%s' does not return a value", c.fn.name.Text)
	}
	if d.Addr != types.AddrPrimitive || !types.Unify(retMode, d.Mode) || c.width(d) > ret.Width {
		return diag.Errorf(diag.SemaReturnMismatch, st.Value.Span(),
			"cannot return %s value of width %d as %s", d.Mode, c.width(d), ret.Name)
	}
	return nil
}
