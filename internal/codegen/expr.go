package codegen

import (
	"strconv"

	"fortio.org/safecast"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/types"
)

// condition codes: signed, unsigned
var setcc = map[token.Kind][2]string{
	token.EqEq:   {"e", "e"},
	token.BangEq: {"ne", "ne"},
	token.Lt:     {"l", "b"},
	token.LtEq:   {"le", "be"},
	token.Gt:     {"g", "a"},
	token.GtEq:   {"ge", "ae"},
}

var inverted = map[string]string{
	"e": "ne", "ne": "e",
	"l": "ge", "ge": "l", "le": "g", "g": "le",
	"b": "ae", "ae": "b", "be": "a", "a": "be",
}

func condCode(op token.Kind, signed bool) (string, bool) {
	cc, ok := setcc[op]
	if !ok {
		return "", false
	}
	if signed {
		return cc[0], true
	}
	return cc[1], true
}

func literalValue(tok token.Token) (uint64, *diag.Error) {
	v, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return 0, diag.Errorf(diag.GenBadLiteral, tok.Span, "integer literal %s does not fit in 64 bits", tok.Text)
	}
	return v, nil
}

// lowerInto evaluates e and stores it into dst. Literals are stored as
// immediates; everything else goes through a scratch register.
func (g *Generator) lowerInto(ctx *Context, e ast.Expr, dst slot) *diag.Error {
	switch e := e.(type) {
	case *ast.IntLit:
		v, err := literalValue(e.Tok)
		if err != nil {
			return err
		}
		if dst.width < 8 {
			v &= 1<<(8*dst.width) - 1
		}
		if _, cerr := safecast.Conv[int32](v); cerr == nil || dst.width < 8 {
			ctx.emit("mov %s, %d", dst.mem(), v)
			return nil
		}
	case *ast.BoolLit:
		ctx.emit("mov %s, %d", dst.mem(), boolValue(e.Value))
		return nil
	}
	r, err := g.lowerExpr(ctx, e)
	if err != nil {
		return err
	}
	ctx.emit("mov %s, %s", dst.mem(), r.sized(dst.width))
	return ctx.regs.release(e.Span())
}

func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

// lowerExpr allocates the next scratch register and computes e into it.
func (g *Generator) lowerExpr(ctx *Context, e ast.Expr) (reg, *diag.Error) {
	switch e := e.(type) {
	case *ast.IntLit:
		v, err := literalValue(e.Tok)
		if err != nil {
			return 0, err
		}
		r, err := ctx.regs.allocate(e.Span())
		if err != nil {
			return 0, err
		}
		ctx.emit("mov %s, %d", r, v)
		return r, nil
	case *ast.BoolLit:
		r, err := ctx.regs.allocate(e.Span())
		if err != nil {
			return 0, err
		}
		ctx.emit("mov %s, %d", r, boolValue(e.Value))
		return r, nil
	case *ast.Ident:
		s, ok := ctx.lookup(e.Name())
		if !ok {
			return 0, diag.Errorf(diag.GenUndeclared, e.Tok.Span, "undeclared variable '%s'", e.Name())
		}
		r, err := ctx.regs.allocate(e.Span())
		if err != nil {
			return 0, err
		}
		load(ctx, r, s.mem(), s.width, s.signed)
		return r, nil
	case *ast.UnaryExpr:
		return g.lowerUnary(ctx, e)
	case *ast.BinaryExpr:
		if e.Op.Kind.IsLogical() {
			return g.lowerLogical(ctx, e)
		}
		return g.lowerBinary(ctx, e)
	case nil:
		return 0, diag.Errorf(diag.GenMissingExprInfo, source.Span{}, "missing expression")
	}
	return 0, diag.Errorf(diag.GenUnknownOperator, e.Span(), "expression %s has no lowering", ast.FormatExpr(e))
}

// load widens a width-byte memory operand into the full register.
func load(ctx *Context, r reg, mem string, width int, signed bool) {
	switch {
	case width == 8:
		ctx.emit("mov %s, %s", r, mem)
	case width == 4 && signed:
		ctx.emit("movsxd %s, %s", r, mem)
	case width == 4:
		ctx.emit("mov %s, %s", r.sized(4), mem)
	case signed:
		ctx.emit("movsx %s, %s", r, mem)
	default:
		ctx.emit("movzx %s, %s", r, mem)
	}
}

func (g *Generator) lowerUnary(ctx *Context, e *ast.UnaryExpr) (reg, *diag.Error) {
	if e.Op.Kind == token.Amp {
		id, ok := e.Operand.(*ast.Ident)
		if !ok {
			return 0, diag.Errorf(diag.GenUnknownOperator, e.Span(), "address of %s", ast.FormatExpr(e.Operand))
		}
		s, found := ctx.lookup(id.Name())
		if !found {
			return 0, diag.Errorf(diag.GenUndeclared, id.Tok.Span, "undeclared variable '%s'", id.Name())
		}
		r, err := ctx.regs.allocate(e.Span())
		if err != nil {
			return 0, err
		}
		ctx.emit("lea %s, [rbp-%d]", r, s.offset)
		return r, nil
	}

	r, err := g.lowerExpr(ctx, e.Operand)
	if err != nil {
		return 0, err
	}
	switch e.Op.Kind {
	case token.Minus:
		ctx.emit("neg %s", r)
	case token.Tilde:
		ctx.emit("not %s", r)
	case token.Bang:
		ctx.emit("test %s, %s", r, r)
		ctx.emit("sete %s", r.low())
		ctx.emit("movzx %s, %s", r, r.low())
	case token.Caret:
		d, err := g.exprData(e)
		if err != nil {
			return 0, err
		}
		load(ctx, r, sizeKeyword(d.Width)+" ["+r.String()+"]", d.Width, d.Mode.IsSigned())
	default:
		return 0, diag.Errorf(diag.GenUnknownOperator, e.Op.Span, "unary %s has no lowering", e.Op.Kind)
	}
	return r, nil
}

// operandSigned decides signed or unsigned lowering from both operand modes.
func (g *Generator) operandSigned(e *ast.BinaryExpr) (bool, *diag.Error) {
	l, err := g.exprData(e.Lhs)
	if err != nil {
		return false, err
	}
	r, err := g.exprData(e.Rhs)
	if err != nil {
		return false, err
	}
	return types.Join(l.Mode, r.Mode).IsSigned(), nil
}

func (g *Generator) lowerBinary(ctx *Context, e *ast.BinaryExpr) (reg, *diag.Error) {
	signed, err := g.operandSigned(e)
	if err != nil {
		return 0, err
	}
	if _, err := g.lowerExpr(ctx, e.Lhs); err != nil {
		return 0, err
	}
	if _, err := g.lowerExpr(ctx, e.Rhs); err != nil {
		return 0, err
	}
	l, r, err := ctx.regs.operands(e.Span())
	if err != nil {
		return 0, err
	}

	op := e.Op.Kind
	switch op {
	case token.Plus:
		ctx.emit("add %s, %s", l, r)
	case token.Minus:
		ctx.emit("sub %s, %s", l, r)
	case token.Star:
		ctx.emit("imul %s, %s", l, r)
	case token.Slash, token.Percent:
		lowerDivision(ctx, l, r, signed, op == token.Percent)
	case token.Amp:
		ctx.emit("and %s, %s", l, r)
	case token.Pipe:
		ctx.emit("or %s, %s", l, r)
	case token.Tilde:
		ctx.emit("xor %s, %s", l, r)
	case token.AmpTilde:
		ctx.emit("not %s", r)
		ctx.emit("and %s, %s", l, r)
	case token.Shl, token.Shr:
		mnemonic := "shl"
		if op == token.Shr {
			mnemonic = "shr"
			if signed {
				mnemonic = "sar"
			}
		}
		lowerShift(ctx, mnemonic, l, r)
	default:
		cc, ok := condCode(op, signed)
		if !ok {
			return 0, diag.Errorf(diag.GenUnknownOperator, e.Op.Span, "binary %s has no lowering", ast.BinaryName(op))
		}
		ctx.emit("cmp %s, %s", l, r)
		ctx.emit("set%s %s", cc, l.low())
		ctx.emit("movzx %s, %s", l, l.low())
	}
	if err := ctx.regs.release(e.Span()); err != nil {
		return 0, err
	}
	return l, nil
}

// lowerDivision computes l / r (or l % r) into l through rax:rdx.
func lowerDivision(ctx *Context, l, r reg, signed, remainder bool) {
	saved := l != regRAX && ctx.regs.live(regRAX)
	if saved {
		ctx.emit("push rax")
	}
	if l != regRAX {
		ctx.emit("mov rax, %s", l)
	}
	if signed {
		ctx.emit("cqo")
		ctx.emit("idiv %s", r)
	} else {
		ctx.emit("xor edx, edx")
		ctx.emit("div %s", r)
	}
	result := "rax"
	if remainder {
		result = "rdx"
	}
	if l != regRAX || remainder {
		ctx.emit("mov %s, %s", l, result)
	}
	if saved {
		ctx.emit("pop rax")
	}
}

// lowerShift routes the count through cl.
func lowerShift(ctx *Context, mnemonic string, l, r reg) {
	switch {
	case r == regRCX:
		ctx.emit("%s %s, cl", mnemonic, l)
	case l == regRCX:
		ctx.emit("xchg rcx, %s", r)
		ctx.emit("%s %s, cl", mnemonic, r)
		ctx.emit("mov rcx, %s", r)
	default:
		ctx.emit("xchg rcx, %s", r)
		ctx.emit("%s %s, cl", mnemonic, l)
		ctx.emit("xchg rcx, %s", r)
	}
}

func (g *Generator) lowerLogical(ctx *Context, e *ast.BinaryExpr) (reg, *diag.Error) {
	n := ctx.label()
	and := e.Op.Kind == token.AndAnd
	short, end := labelName(n, "OR_TRUE"), labelName(n, "OR_END")
	jump, shortValue := "jne", 1
	if and {
		short, end = labelName(n, "AND_FALSE"), labelName(n, "AND_END")
		jump, shortValue = "je", 0
	}

	l, err := g.lowerExpr(ctx, e.Lhs)
	if err != nil {
		return 0, err
	}
	ctx.emit("cmp %s, 0", l)
	ctx.emit("%s %s", jump, short)
	r, err := g.lowerExpr(ctx, e.Rhs)
	if err != nil {
		return 0, err
	}
	ctx.emit("cmp %s, 0", r)
	ctx.emit("%s %s", jump, short)
	if err := ctx.regs.release(e.Span()); err != nil {
		return 0, err
	}
	ctx.emit("mov %s, %d", l, 1-shortValue)
	ctx.emit("jmp %s", end)
	ctx.place(short)
	ctx.emit("mov %s, %d", l, shortValue)
	ctx.place(end)
	return l, nil
}

// jumpIfFalse branches to label when cond evaluates to zero. Comparisons
// jump on the inverted condition code directly.
func (g *Generator) jumpIfFalse(ctx *Context, cond ast.Expr, label string) *diag.Error {
	return g.branch(ctx, cond, label, false)
}

// jumpIfTrue branches to label when cond is non-zero.
func (g *Generator) jumpIfTrue(ctx *Context, cond ast.Expr, label string) *diag.Error {
	return g.branch(ctx, cond, label, true)
}

func (g *Generator) branch(ctx *Context, cond ast.Expr, label string, onTrue bool) *diag.Error {
	if bin, ok := cond.(*ast.BinaryExpr); ok && bin.Op.Kind.IsComparison() {
		signed, err := g.operandSigned(bin)
		if err != nil {
			return err
		}
		cc, _ := condCode(bin.Op.Kind, signed)
		if !onTrue {
			cc = inverted[cc]
		}
		l, err := g.lowerExpr(ctx, bin.Lhs)
		if err != nil {
			return err
		}
		r, err := g.lowerExpr(ctx, bin.Rhs)
		if err != nil {
			return err
		}
		ctx.emit("cmp %s, %s", l, r)
		if err := ctx.regs.release(bin.Rhs.Span()); err != nil {
			return err
		}
		if err := ctx.regs.release(bin.Lhs.Span()); err != nil {
			return err
		}
		ctx.emit("j%s %s", cc, label)
		return nil
	}

	r, err := g.lowerExpr(ctx, cond)
	if err != nil {
		return err
	}
	ctx.emit("cmp %s, 0", r)
	if err := ctx.regs.release(cond.Span()); err != nil {
		return err
	}
	if onTrue {
		ctx.emit("jne %s", label)
	} else {
		ctx.emit("je %s", label)
	}
	return nil
}
