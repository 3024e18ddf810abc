package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the token stream in diagnostics.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents a decimal integer literal.
	IntLit

	// KwExit represents the 'exit' keyword.
	KwExit // exit
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwMut represents the 'mut' keyword.
	KwMut // mut
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false

	Comma       // ,
	Colon       // :
	Semicolon   // ;
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LineComment // //
	BlockOpen   // /*
	BlockClose  // */

	Caret    // ^ pointer marker and dereference
	Assign   // =
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Percent  // %
	Amp      // & bit-and, address-of
	Pipe     // |
	Tilde    // ~ bit-xor, bit-not
	AmpTilde // &~
	Shl      // <<
	Shr      // >>
	Arrow    // ->

	PlusAssign     // +=
	MinusAssign    // -=
	StarAssign     // *=
	SlashAssign    // /=
	PercentAssign  // %=
	AmpAssign      // &=
	PipeAssign     // |=
	TildeAssign    // ~=
	AmpTildeAssign // &~=
	ShlAssign      // <<=
	ShrAssign      // >>=

	AndAnd // &&
	OrOr   // ||
	EqEq   // ==
	Bang   // !
	BangEq // !=
	Lt     // <
	Gt     // >
	LtEq   // <=
	GtEq   // >=

	kindCount
)

var kindNames = [...]string{
	Invalid:        "Invalid",
	EOF:            "EOF",
	Ident:          "Ident",
	IntLit:         "IntLit",
	KwExit:         "KwExit",
	KwLet:          "KwLet",
	KwIf:           "KwIf",
	KwElse:         "KwElse",
	KwWhile:        "KwWhile",
	KwBreak:        "KwBreak",
	KwMut:          "KwMut",
	KwFn:           "KwFn",
	KwReturn:       "KwReturn",
	KwTrue:         "KwTrue",
	KwFalse:        "KwFalse",
	Comma:          "Comma",
	Colon:          "Colon",
	Semicolon:      "Semicolon",
	LParen:         "LParen",
	RParen:         "RParen",
	LBrace:         "LBrace",
	RBrace:         "RBrace",
	LineComment:    "LineComment",
	BlockOpen:      "BlockOpen",
	BlockClose:     "BlockClose",
	Caret:          "Caret",
	Assign:         "Assign",
	Plus:           "Plus",
	Minus:          "Minus",
	Star:           "Star",
	Slash:          "Slash",
	Percent:        "Percent",
	Amp:            "Amp",
	Pipe:           "Pipe",
	Tilde:          "Tilde",
	AmpTilde:       "AmpTilde",
	Shl:            "Shl",
	Shr:            "Shr",
	Arrow:          "Arrow",
	PlusAssign:     "PlusAssign",
	MinusAssign:    "MinusAssign",
	StarAssign:     "StarAssign",
	SlashAssign:    "SlashAssign",
	PercentAssign:  "PercentAssign",
	AmpAssign:      "AmpAssign",
	PipeAssign:     "PipeAssign",
	TildeAssign:    "TildeAssign",
	AmpTildeAssign: "AmpTildeAssign",
	ShlAssign:      "ShlAssign",
	ShrAssign:      "ShrAssign",
	AndAnd:         "AndAnd",
	OrOr:           "OrOr",
	EqEq:           "EqEq",
	Bang:           "Bang",
	BangEq:         "BangEq",
	Lt:             "Lt",
	Gt:             "Gt",
	LtEq:           "LtEq",
	GtEq:           "GtEq",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Spelling returns the source text of a fixed-spelling kind ("<<=", "while"),
// or "" for Ident, IntLit and Invalid.
func (k Kind) Spelling() string {
	return spellings[k]
}
