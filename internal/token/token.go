package token

import (
	"fmt"

	"ember/internal/source"
)

// Pos is a 0-based (column, row) position of a token's first byte.
type Pos struct {
	Col uint32
	Row uint32
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Row+1, p.Col+1)
}

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
	Span source.Span
}

// HasPayload reports whether the kind carries Text.
func (t Token) HasPayload() bool {
	return t.Kind == Ident || t.Kind == IntLit
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwExit && t.Kind <= KwFalse
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// StartsOperand reports whether the token can begin a new operand.
func (t Token) StartsOperand() bool {
	switch t.Kind {
	case Ident, IntLit, LParen, KwTrue, KwFalse:
		return true
	}
	return false
}

// String renders the token as it would appear in a message.
func (t Token) String() string {
	if t.HasPayload() {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	}
	if s := t.Kind.Spelling(); s != "" {
		return fmt.Sprintf("'%s'", s)
	}
	return t.Kind.String()
}

// BeginsOperand reports whether the token can start an operand, counting
// prefix-capable operators such as the second '-' in "x - -1".
func (t Token) BeginsOperand() bool {
	return t.StartsOperand() || t.Kind.Has(FlagUnary)
}
