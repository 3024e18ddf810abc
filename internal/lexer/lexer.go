package lexer

import (
	"strings"

	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	row       uint32
	lineStart uint32

	inLineComment  bool
	inBlockComment bool
	blockOpen      source.Span

	// broken is set when the file cannot be addressed by 32-bit offsets
	broken *diag.Error
}

func New(file *source.File, opts Options) *Lexer {
	lx := &Lexer{file: file, opts: opts}
	cursor, err := NewCursor(file)
	if err != nil {
		lx.broken = diag.Errorf(diag.LexFileTooLarge, source.Span{File: file.ID}, "%s: %v", file.Path, err)
		return lx
	}
	lx.cursor = cursor
	return lx
}

// Tokenize lexes the whole file. Comments are dropped; the EOF sentinel is not included.
func Tokenize(file *source.File, opts Options) ([]token.Token, error) {
	return New(file, opts).Tokenize()
}

// Tokenize drains the lexer.
func (lx *Lexer) Tokenize() ([]token.Token, error) {
	toks := make([]token.Token, 0, len(lx.file.Content)/3)
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// Next возвращает следующий значимый токен.
// После конца файла всегда возвращает EOF.
func (lx *Lexer) Next() (token.Token, error) {
	if lx.broken != nil {
		return token.Token{}, lx.fail(lx.broken)
	}
	for {
		tok, ok, err := lx.scan()
		if err != nil {
			return token.Token{}, lx.fail(err)
		}
		if !ok {
			if lx.inBlockComment {
				return token.Token{}, lx.fail(diag.Errorf(diag.LexUnterminated, lx.blockOpen, "block comment opened here is never closed"))
			}
			return token.Token{Kind: token.EOF, Pos: lx.pos(lx.cursor.Off), Span: lx.emptySpan()}, nil
		}

		switch tok.Kind {
		case token.LineComment:
			if !lx.inBlockComment {
				lx.inLineComment = true
			}
		case token.BlockOpen:
			if !lx.inBlockComment {
				lx.inBlockComment = true
				lx.blockOpen = tok.Span
			}
		case token.BlockClose:
			lx.inBlockComment = false
		default:
			if !lx.inBlockComment {
				return tok, nil
			}
		}
	}
}

// scan reads one raw token, comment markers included.
func (lx *Lexer) scan() (token.Token, bool, *diag.Error) {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()

		if lx.inLineComment && b != '\n' {
			lx.cursor.Bump()
			continue
		}

		switch classify(b) {
		case classNewline:
			lx.cursor.Bump()
			lx.row++
			lx.lineStart = lx.cursor.Off
			lx.inLineComment = false
		case classSpace:
			lx.cursor.Bump()
		case classWord:
			return lx.scanWord(), true, nil
		case classDigit:
			return lx.scanNumber(), true, nil
		case classSymbol:
			tok, ok := lx.scanSymbol()
			if ok {
				return tok, true, nil
			}
			if !lx.inBlockComment {
				sp := lx.cursor.SpanFrom(lx.cursor.Mark())
				sp.End++
				return token.Token{}, false, diag.Errorf(diag.LexUnknownSymbol, sp,
					"unknown symbol %q at %s", rune(b), lx.pos(sp.Start))
			}
			lx.cursor.Bump()
		default:
			if lx.inBlockComment {
				lx.cursor.Bump()
				continue
			}
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{}, false, diag.Errorf(diag.LexUnknownChar, sp,
				"unrecognized byte 0x%02X at %s", b, lx.pos(sp.Start))
		}
	}
	return token.Token{}, false, nil
}

func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && continuesWord(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := string(lx.cursor.Text(start))
	if kw, ok := token.LookupKeyword(text); ok {
		return lx.make(kw, "", start)
	}
	return lx.make(token.Ident, text, start)
}

// scanNumber reads a digit run; '_' separators are consumed and dropped.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		if !isDec(b) {
			break
		}
		sb.WriteByte(lx.cursor.Bump())
	}
	return lx.make(token.IntLit, sb.String(), start)
}

// scanSymbol accumulates the whole symbol run, then gives characters back
// one at a time until the remaining prefix names an operator.
func (lx *Lexer) scanSymbol() (token.Token, bool) {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && classify(lx.cursor.Peek()) == classSymbol {
		lx.cursor.Bump()
	}
	run := lx.cursor.Text(start)
	for n := len(run); n > 0; n-- {
		if kind, ok := token.LookupOperator(string(run[:n])); ok {
			if err := lx.cursor.ResetAfter(start, n); err != nil {
				lx.cursor.Reset(start)
				return token.Token{}, false
			}
			return lx.make(kind, "", start), true
		}
	}
	lx.cursor.Reset(start)
	return token.Token{}, false
}

func (lx *Lexer) make(kind token.Kind, text string, start Mark) token.Token {
	return token.Token{
		Kind: kind,
		Text: text,
		Pos:  lx.pos(uint32(start)),
		Span: lx.cursor.SpanFrom(start),
	}
}

func (lx *Lexer) pos(off uint32) token.Pos {
	return token.Pos{Col: off - lx.lineStart, Row: lx.row}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) fail(err *diag.Error) *diag.Error {
	err.Report(lx.opts.Reporter)
	return err
}
