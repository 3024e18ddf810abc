package parser

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/token"
)

// parseExpr is a precedence climber. Binary and unary binding power come from
// the operator table; an operator with unary capability is read as binary only
// when the token after it can begin an operand, otherwise it applies as a
// prefix operator to the left-hand side built so far.
func (p *Parser) parseExpr(minPrec int) (ast.Expr, *diag.Error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.peek(0)
		if !ok {
			return lhs, nil
		}
		binPrec := op.Kind.BinaryPrec()
		unPrec := op.Kind.UnaryPrecOf()
		if binPrec < minPrec && unPrec < minPrec {
			return lhs, nil
		}

		unary := false
		if unPrec != token.NoPrec {
			unary = p.appliesAsUnary(binPrec)
		}
		if unary {
			if unPrec < minPrec {
				return lhs, nil
			}
			p.advance()
			lhs = &ast.UnaryExpr{Op: op, Operand: lhs}
			continue
		}

		if binPrec == token.NoPrec {
			return nil, diag.Errorf(diag.SynNotBinaryOperator, op.Span,
				"operator %s at %s cannot join two operands", op, op.Pos).
				Note(lhs.Span(), "left operand is "+ast.FormatExpr(lhs))
		}
		if binPrec < minPrec {
			return lhs, nil
		}

		nextPrec := binPrec + 1
		if op.Kind.RightAssoc(false) {
			nextPrec = binPrec
		}
		p.advance()
		rhs, err := p.parseExpr(nextPrec)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Op: op, Lhs: lhs, Rhs: rhs}
	}
}

// appliesAsUnary decides a unary-capable operator at the lookahead. A following
// literal, identifier or '(' makes it binary. A following prefix operator does
// too, but only for operators that have a binary form ("x - -1"); a unary-only
// operator such as '^' then applies to the left side ("p^ - 1").
func (p *Parser) appliesAsUnary(binPrec int) bool {
	next, ok := p.peek(1)
	switch {
	case !ok:
		return true
	case next.StartsOperand():
		return false
	case next.Kind.Has(token.FlagUnary):
		return binPrec == token.NoPrec
	}
	return true
}

// parseTerm reads a prefix-unary expression, a parenthesised expression or a leaf.
func (p *Parser) parseTerm() (ast.Expr, *diag.Error) {
	tok, ok := p.peek(0)
	if !ok {
		return nil, p.unexpected(diag.SynExpectExpression, "expected expression")
	}

	switch {
	case tok.Kind.Has(token.FlagUnary):
		p.advance()
		operand, err := p.parseExpr(token.UnaryPrec + 1)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: tok, Operand: operand}, nil

	case tok.Kind == token.LParen:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, diag.SynUnclosedParen, "to close '(' opened at "+tok.Pos.String()); err != nil {
			return nil, err
		}
		return inner, nil

	case tok.Kind == token.Ident || tok.Kind == token.IntLit:
		if tok.Text == "" {
			return nil, diag.Errorf(diag.SynMissingPayload, tok.Span, "%s token at %s has no text", tok.Kind, tok.Pos)
		}
		p.advance()
		if tok.Kind == token.Ident {
			return &ast.Ident{Tok: tok}, nil
		}
		return &ast.IntLit{Tok: tok}, nil

	case tok.Kind == token.KwTrue || tok.Kind == token.KwFalse:
		p.advance()
		return &ast.BoolLit{Tok: tok, Value: tok.Kind == token.KwTrue}, nil
	}
	return nil, p.unexpected(diag.SynExpectExpression, "expected expression")
}
