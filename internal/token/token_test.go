package token_test

import (
	"testing"

	"ember/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	for word, want := range map[string]token.Kind{
		"exit": token.KwExit, "let": token.KwLet, "mut": token.KwMut,
		"while": token.KwWhile, "true": token.KwTrue, "return": token.KwReturn,
	} {
		got, ok := token.LookupKeyword(word)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v,%v want %v", word, got, ok, want)
		}
	}
	for _, word := range []string{"Exit", "u32", "elseif", "x"} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Errorf("%q must not be a keyword", word)
		}
	}
}

func TestPrecedenceTable(t *testing.T) {
	order := [][]token.Kind{
		{token.Star, token.Slash, token.Percent},
		{token.Plus, token.Minus},
		{token.Shl, token.Shr},
		{token.Lt, token.LtEq, token.Gt, token.GtEq},
		{token.EqEq, token.BangEq},
		{token.Amp},
		{token.Tilde},
		{token.Pipe},
		{token.AndAnd},
		{token.OrOr},
		{token.Assign, token.PlusAssign, token.ShlAssign},
		{token.Comma},
	}
	prev := token.UnaryPrec
	for _, level := range order {
		p := level[0].BinaryPrec()
		if p >= prev {
			t.Fatalf("%v prec %d not below %d", level[0], p, prev)
		}
		for _, k := range level[1:] {
			if k.BinaryPrec() != p {
				t.Errorf("%v prec %d, want %d", k, k.BinaryPrec(), p)
			}
		}
		prev = p
	}
	for _, k := range []token.Kind{token.Semicolon, token.RParen, token.LBrace, token.Caret, token.Bang} {
		if k.BinaryPrec() != token.NoPrec {
			t.Errorf("%v should have no binary precedence", k)
		}
	}
}

func TestUnaryCapability(t *testing.T) {
	unary := []token.Kind{token.Caret, token.Minus, token.Amp, token.Tilde, token.Bang}
	for _, k := range unary {
		if k.UnaryPrecOf() != token.UnaryPrec || !k.RightAssoc(true) {
			t.Errorf("%v should be a right-assoc prefix operator", k)
		}
	}
	if token.Plus.UnaryPrecOf() != token.NoPrec {
		t.Error("'+' is not a prefix operator")
	}
	if token.Plus.RightAssoc(false) || !token.Assign.RightAssoc(false) {
		t.Error("associativity mismatch")
	}
}

func TestPlainOfCompound(t *testing.T) {
	for compound, plain := range map[token.Kind]token.Kind{
		token.PlusAssign:     token.Plus,
		token.AmpAssign:      token.Amp,
		token.TildeAssign:    token.Tilde,
		token.AmpTildeAssign: token.AmpTilde,
		token.ShrAssign:      token.Shr,
	} {
		got, ok := compound.Plain()
		if !ok || got != plain {
			t.Errorf("%v.Plain() = %v,%v", compound, got, ok)
		}
	}
	if _, ok := token.Assign.Plain(); ok {
		t.Error("'=' has no plain form")
	}
}

func TestFlagsOfLogical(t *testing.T) {
	if !token.AndAnd.IsLogical() || token.AndAnd.IsComparison() {
		t.Error("&& is logical, not comparison")
	}
	if !token.LtEq.IsComparison() {
		t.Error("<= is a comparison")
	}
	if !token.Bang.Has(token.FlagLog | token.FlagUnary) {
		t.Error("! is a unary logical operator")
	}
}

func TestSpelling(t *testing.T) {
	if token.ShlAssign.Spelling() != "<<=" || token.KwWhile.Spelling() != "while" {
		t.Error("spelling table mismatch")
	}
	tok := token.Token{Kind: token.IntLit, Text: "42"}
	if tok.String() != "IntLit(42)" {
		t.Errorf("String() = %q", tok.String())
	}
}
