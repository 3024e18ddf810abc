package parser

import (
	"fmt"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
)

type Options struct {
	// Reporter receives the diagnostic that stopped parsing; may be nil.
	Reporter diag.Reporter
}

// Parser: состояние парсера на один файл
type Parser struct {
	toks     []token.Token
	idx      int
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
}

// Parse builds the syntax tree for one token stream. The parser takes
// ownership of toks: compound-assignment operators are rewritten in place.
// Parsing stops at the first error.
func Parse(toks []token.Token, opts Options) (*ast.Program, error) {
	p := &Parser{toks: toks, opts: opts}
	if len(toks) > 0 {
		p.lastSpan = source.Span{File: toks[0].Span.File}
	}
	prog, err := p.parseProgram()
	if err != nil {
		err.Report(opts.Reporter)
		return nil, err
	}
	return prog, nil
}

func (p *Parser) parseProgram() (*ast.Program, *diag.Error) {
	prog := &ast.Program{}
	for !p.done() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func (p *Parser) done() bool {
	return p.idx >= len(p.toks)
}

// peek returns the token n positions ahead of the cursor.
func (p *Parser) peek(n int) (token.Token, bool) {
	if p.idx+n >= len(p.toks) {
		return token.Token{Kind: token.EOF, Span: p.eofSpan()}, false
	}
	return p.toks[p.idx+n], true
}

func (p *Parser) at(k token.Kind) bool {
	tok, ok := p.peek(0)
	return ok && tok.Kind == k
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.toks[p.idx]
	p.idx++
	p.lastSpan = tok.Span
	return tok
}

// expect: ожидаем конкретный токен; what names the construct for the message.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, *diag.Error) {
	tok, ok := p.peek(0)
	if ok && tok.Kind == k {
		return p.advance(), nil
	}
	return token.Token{}, p.unexpected(code, fmt.Sprintf("expected '%s' %s", k.Spelling(), what))
}

// expectPayload consumes an Ident (or IntLit) token that must carry text.
func (p *Parser) expectIdent(code diag.Code, what string) (token.Token, *diag.Error) {
	tok, ok := p.peek(0)
	if !ok || tok.Kind != token.Ident {
		return token.Token{}, p.unexpected(code, "expected identifier "+what)
	}
	if tok.Text == "" {
		return token.Token{}, diag.Errorf(diag.SynMissingPayload, tok.Span, "identifier token at %s has no text", tok.Pos)
	}
	return p.advance(), nil
}

// unexpected builds an error pointing at the current token (or just past the
// last consumed one at end of input).
func (p *Parser) unexpected(code diag.Code, msg string) *diag.Error {
	tok, ok := p.peek(0)
	if !ok {
		return diag.Errorf(diag.SynUnexpectedEOF, tok.Span, "%s, found end of input", msg)
	}
	return diag.Errorf(code, tok.Span, "%s, found %s at %s", msg, tok, tok.Pos)
}

func (p *Parser) eofSpan() source.Span {
	return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
