package parser

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/token"
)

// parseStatement dispatches on the leading keyword or identifier.
func (p *Parser) parseStatement() (ast.Stmt, *diag.Error) {
	tok, _ := p.peek(0)
	var (
		stmt ast.Stmt
		err  *diag.Error
	)
	switch tok.Kind {
	case token.KwLet:
		stmt, err = p.parseVarDecl()
	case token.KwFn:
		stmt, err = p.parseFnDecl()
	case token.KwReturn:
		stmt, err = p.parseReturn()
	case token.KwWhile:
		stmt, err = p.parseWhile()
	case token.KwIf:
		stmt, err = p.parseIf()
	case token.KwExit:
		stmt, err = p.parseExit()
	case token.KwBreak:
		stmt, err = p.parseBreak()
	case token.LBrace:
		var body *ast.Scope
		body, err = p.parseScope()
		stmt = &ast.NakedScope{Body: body}
	case token.Ident:
		stmt, err = p.parseAssign()
	default:
		if tok.BeginsOperand() {
			return nil, diag.Errorf(diag.SynExpressionStmt, tok.Span,
				"naked expression starting with %s at %s is not a statement", tok, tok.Pos)
		}
		return nil, p.unexpected(diag.SynUnexpectedToken, "expected statement")
	}
	if err != nil {
		if len(err.Diag.Notes) == 0 {
			err.Note(tok.Span, "in "+statementName(tok.Kind))
		}
		return nil, err
	}
	return stmt, nil
}

// let [mut] IDENT : [^]TYPE [= expr] ;
func (p *Parser) parseVarDecl() (ast.Stmt, *diag.Error) {
	kw := p.advance()
	decl := &ast.VarDecl{}
	if p.at(token.KwMut) {
		p.advance()
		decl.Mutable = true
	}
	var err *diag.Error
	if decl.Name, err = p.expectIdent(diag.SynExpectIdentifier, "after 'let'"); err != nil {
		return nil, err
	}
	if _, err = p.expect(token.Colon, diag.SynExpectColon, "after variable name '"+decl.Name.Text+"'"); err != nil {
		return nil, err
	}
	if p.at(token.Caret) {
		p.advance()
		decl.Pointer = true
	}
	if decl.Type, err = p.expectIdent(diag.SynExpectType, "naming the type of '"+decl.Name.Text+"'"); err != nil {
		return nil, err
	}
	if p.at(token.Assign) {
		p.advance()
		if decl.Init, err = p.parseExpr(0); err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(token.Semicolon, diag.SynExpectSemicolon, "after declaration of '"+decl.Name.Text+"'"); err != nil {
		return nil, err
	}
	decl.Loc = p.spanFrom(kw.Span)
	return decl, nil
}

// fn IDENT ( [IDENT : TYPE {, IDENT : TYPE}] ) [-> TYPE] { ... }
func (p *Parser) parseFnDecl() (ast.Stmt, *diag.Error) {
	kw := p.advance()
	fn := &ast.FnDecl{}
	var err *diag.Error
	if fn.Name, err = p.expectIdent(diag.SynExpectIdentifier, "after 'fn'"); err != nil {
		return nil, err
	}
	if _, err = p.expect(token.LParen, diag.SynExpectLParen, "to open the parameters of '"+fn.Name.Text+"'"); err != nil {
		return nil, err
	}
	for !p.at(token.RParen) {
		if len(fn.Params) > 0 {
			if _, err = p.expect(token.Comma, diag.SynUnexpectedToken, "between parameters"); err != nil {
				return nil, err
			}
		}
		var param ast.Param
		if param.Name, err = p.expectIdent(diag.SynExpectIdentifier, "naming a parameter"); err != nil {
			return nil, err
		}
		if _, err = p.expect(token.Colon, diag.SynExpectColon, "after parameter '"+param.Name.Text+"'"); err != nil {
			return nil, err
		}
		if param.Type, err = p.expectIdent(diag.SynExpectType, "naming the type of '"+param.Name.Text+"'"); err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
	}
	if _, err = p.expect(token.RParen, diag.SynUnclosedParen, "to close the parameters"); err != nil {
		return nil, err
	}
	if p.at(token.Arrow) {
		p.advance()
		ret, err := p.expectIdent(diag.SynExpectType, "after '->'")
		if err != nil {
			return nil, err
		}
		fn.Ret = &ret
	}
	if fn.Body, err = p.parseScope(); err != nil {
		return nil, err
	}
	fn.Loc = p.spanFrom(kw.Span)
	return fn, nil
}

// return [expr] ;
func (p *Parser) parseReturn() (ast.Stmt, *diag.Error) {
	kw := p.advance()
	ret := &ast.Return{}
	if !p.at(token.Semicolon) {
		var err *diag.Error
		if ret.Value, err = p.parseExpr(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "after return"); err != nil {
		return nil, err
	}
	ret.Loc = p.spanFrom(kw.Span)
	return ret, nil
}

// while expr { ... }
func (p *Parser) parseWhile() (ast.Stmt, *diag.Error) {
	kw := p.advance()
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseScope()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Loc: p.spanFrom(kw.Span)}, nil
}

// if expr { ... } (else if expr { ... })* (else { ... })?
func (p *Parser) parseIf() (ast.Stmt, *diag.Error) {
	kw := p.advance()
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseScope()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Body: body}
	for p.at(token.KwElse) {
		elseKw := p.advance()
		if !p.at(token.KwIf) {
			body, err := p.parseScope()
			if err != nil {
				return nil, err.Note(elseKw.Span, "in else branch")
			}
			stmt.Branches = append(stmt.Branches, &ast.Else{Body: body, Loc: p.spanFrom(elseKw.Span)})
			break
		}
		p.advance()
		cond, err := p.parseExpr(0)
		if err != nil {
			return nil, err.Note(elseKw.Span, "in else-if branch")
		}
		body, err := p.parseScope()
		if err != nil {
			return nil, err.Note(elseKw.Span, "in else-if branch")
		}
		stmt.Branches = append(stmt.Branches, &ast.ElseIf{Cond: cond, Body: body, Loc: p.spanFrom(elseKw.Span)})
	}
	stmt.Loc = p.spanFrom(kw.Span)
	return stmt, nil
}

// exit(expr);
// The parenthesis is required but parsed as part of the expression.
func (p *Parser) parseExit() (ast.Stmt, *diag.Error) {
	kw := p.advance()
	if !p.at(token.LParen) {
		return nil, p.unexpected(diag.SynExpectLParen, "expected '(' after 'exit'")
	}
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "after exit"); err != nil {
		return nil, err
	}
	return &ast.Exit{Value: value, Loc: p.spanFrom(kw.Span)}, nil
}

// break;
func (p *Parser) parseBreak() (ast.Stmt, *diag.Error) {
	kw := p.advance()
	if _, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "after break"); err != nil {
		return nil, err
	}
	return &ast.Break{Loc: p.spanFrom(kw.Span)}, nil
}

// IDENT = expr ;  |  IDENT OP= expr ;
// A compound operator is rewritten in place to its plain form and the value is
// parsed as an ordinary expression starting at IDENT, so "x *= 1 + 2;" reads
// as "x = x * 1 + 2;".
func (p *Parser) parseAssign() (ast.Stmt, *diag.Error) {
	name := p.advance()
	if name.Text == "" {
		return nil, diag.Errorf(diag.SynMissingPayload, name.Span, "identifier token at %s has no text", name.Pos)
	}
	opTok, ok := p.peek(0)
	if !ok {
		return nil, p.unexpected(diag.SynUnexpectedToken, "expected '=' after '"+name.Text+"'")
	}

	var value ast.Expr
	var err *diag.Error
	switch {
	case opTok.Kind == token.Assign:
		p.advance()
		if value, err = p.parseExpr(0); err != nil {
			return nil, err
		}
	case opTok.Kind.IsCompoundAssign():
		plain, _ := opTok.Kind.Plain()
		p.toks[p.idx].Kind = plain
		// значение читается заново с идентификатора
		p.idx--
		if value, err = p.parseExpr(0); err != nil {
			return nil, err
		}
	default:
		if opTok.Kind.BinaryPrec() != token.NoPrec || opTok.Kind.Has(token.FlagUnary) {
			return nil, diag.Errorf(diag.SynExpressionStmt, name.Span,
				"naked expression starting with '%s' at %s is not a statement", name.Text, name.Pos)
		}
		return nil, p.unexpected(diag.SynNotCompoundAssign, "expected '=' after '"+name.Text+"'")
	}
	if _, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "after assignment to '"+name.Text+"'"); err != nil {
		return nil, err
	}
	return &ast.Assign{Name: name, Value: value, Loc: p.spanFrom(name.Span)}, nil
}

// parseScope parses "{ stmt* }".
func (p *Parser) parseScope() (*ast.Scope, *diag.Error) {
	open, err := p.expect(token.LBrace, diag.SynExpectLBrace, "to open a block")
	if err != nil {
		return nil, err
	}
	scope := &ast.Scope{}
	for !p.at(token.RBrace) {
		if p.done() {
			return nil, diag.Errorf(diag.SynUnclosedBrace, open.Span, "block opened at %s is never closed", open.Pos)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		scope.Stmts = append(scope.Stmts, stmt)
	}
	p.advance()
	scope.Loc = p.spanFrom(open.Span)
	return scope, nil
}

func statementName(k token.Kind) string {
	switch k {
	case token.KwLet:
		return "variable declaration"
	case token.KwFn:
		return "function declaration"
	case token.KwReturn:
		return "return statement"
	case token.KwWhile:
		return "while loop"
	case token.KwIf:
		return "if statement"
	case token.KwExit:
		return "exit statement"
	case token.KwBreak:
		return "break statement"
	case token.LBrace:
		return "scope"
	case token.Ident:
		return "assignment"
	}
	return "statement"
}
