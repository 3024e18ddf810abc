package sema

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/types"
)

// checkExpr annotates e and every subexpression.
func (c *checker) checkExpr(e ast.Expr) (ExprData, *diag.Error) {
	var (
		d   ExprData
		err *diag.Error
	)
	switch e := e.(type) {
	case *ast.BinaryExpr:
		d, err = c.checkBinary(e)
	case *ast.UnaryExpr:
		d, err = c.checkUnary(e)
	case *ast.Ident:
		d, err = c.checkIdent(e)
	case *ast.IntLit:
		d = ExprData{Mode: types.IntLit, Addr: types.AddrPrimitive}
	case *ast.BoolLit:
		d = ExprData{Mode: types.Bool, Addr: types.AddrPrimitive, Width: 1}
	case nil:
		return d, diag.Errorf(diag.SemaInfo, source.Span{}, "missing expression")
	default:
		return d, diag.Errorf(diag.SemaInfo, e.Span(), "unexpected expression %T", e)
	}
	if err != nil {
		return d, err
	}
	c.exprs[e] = d
	return d, nil
}

func (c *checker) checkIdent(e *ast.Ident) (ExprData, *diag.Error) {
	id, v := c.scopes.lookup(e.Name())
	if v == nil {
		return ExprData{}, diag.Errorf(diag.SemaUndeclaredVariable, e.Tok.Span, "use of undeclared variable '%s'", e.Name())
	}
	return ExprData{Mode: v.Mode, Addr: v.Addr, Var: id, Elem: v.Elem}, nil
}

func (c *checker) checkBinary(e *ast.BinaryExpr) (ExprData, *diag.Error) {
	l, err := c.checkExpr(e.Lhs)
	if err != nil {
		return l, err
	}
	r, err := c.checkExpr(e.Rhs)
	if err != nil {
		return r, err
	}
	op := e.Op.Kind
	name := ast.BinaryName(op)
	for _, side := range [...]ExprData{l, r} {
		if side.Addr != types.AddrPrimitive && side.Addr != types.AddrPointer {
			return ExprData{}, diag.Errorf(diag.SemaAddressingMismatch, e.Span(), "operand of %s has %s addressing", name, side.Addr)
		}
	}
	if !types.Unify(l.Mode, r.Mode) {
		return ExprData{}, diag.Errorf(diag.SemaTypeMismatch, e.Span(),
			"operands of %s have incompatible types %s and %s", name, l.Mode, r.Mode)
	}

	switch {
	case op.Has(token.FlagAssign):
		// присваивание внутри выражения не поддерживается
	case op.IsLogical():
		if l.Mode != types.Bool || r.Mode != types.Bool {
			return ExprData{}, diag.Errorf(diag.SemaTypeMismatch, e.Span(), "operands of %s must be bool", name)
		}
		return ExprData{Mode: types.Bool, Addr: types.AddrPrimitive, Width: 1}, nil
	case op.IsComparison():
		return ExprData{Mode: types.Bool, Addr: types.AddrPrimitive, Width: 1}, nil
	case op.Has(token.FlagArith):
		if !l.Mode.IsNumeric() || !r.Mode.IsNumeric() {
			return ExprData{}, diag.Errorf(diag.SemaTypeMismatch, e.Span(), "operands of %s must be numeric", name)
		}
		return c.inherit(l, r), nil
	case op.Has(token.FlagBit):
		if !l.Mode.IsInteger() || !r.Mode.IsInteger() {
			return ExprData{}, diag.Errorf(diag.SemaTypeMismatch, e.Span(), "operands of %s must be integers", name)
		}
		return c.inherit(l, r), nil
	}
	return ExprData{}, diag.Errorf(diag.SemaIllegalBinary, e.Op.Span, "illegal binary expression %s", name)
}

// inherit builds the annotation of an arithmetic or bitwise result: the left
// operand's addressing, the joined mode and the wider of both widths.
func (c *checker) inherit(l, r ExprData) ExprData {
	return ExprData{
		Mode:  types.Join(l.Mode, r.Mode),
		Addr:  l.Addr,
		Width: max(c.width(l), c.width(r)),
		Elem:  l.Elem,
	}
}

func (c *checker) checkUnary(e *ast.UnaryExpr) (ExprData, *diag.Error) {
	d, err := c.checkExpr(e.Operand)
	if err != nil {
		return d, err
	}
	w := c.width(d)
	switch e.Op.Kind {
	case token.Tilde:
		if d.Addr == types.AddrPrimitive && d.Mode.IsInteger() {
			return ExprData{Mode: d.Mode, Addr: types.AddrPrimitive, Width: w}, nil
		}
	case token.Minus:
		if d.Addr != types.AddrPrimitive {
			break
		}
		if d.Mode == types.IntLit {
			return ExprData{Mode: types.Int(true), Addr: types.AddrPrimitive, Width: w}, nil
		}
		if (d.Mode.Kind == types.ModeInt || d.Mode.Kind == types.ModeFloat) && d.Mode.Signed {
			return ExprData{Mode: d.Mode, Addr: types.AddrPrimitive, Width: w}, nil
		}
	case token.Bang:
		if d.Mode == types.Bool && d.Addr == types.AddrPrimitive {
			return ExprData{Mode: types.Bool, Addr: types.AddrPrimitive, Width: 1}, nil
		}
	case token.Amp:
		if d.IsVariable() && d.Addr == types.AddrPrimitive {
			return ExprData{Mode: d.Mode, Addr: types.AddrPointer, Width: types.PtrWidth, Elem: w}, nil
		}
	case token.Caret:
		if d.Addr == types.AddrPointer {
			return ExprData{Mode: d.Mode, Addr: types.AddrPrimitive, Width: d.Elem}, nil
		}
	}
	return ExprData{}, diag.Errorf(diag.SemaIllegalUnary, e.Span(),
		"illegal unary expression %s on %s %s operand", ast.UnaryName(e.Op.Kind), d.Addr, d.Mode)
}
