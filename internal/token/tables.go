package token

var operators = map[string]Kind{
	",":   Comma,
	":":   Colon,
	";":   Semicolon,
	"(":   LParen,
	")":   RParen,
	"{":   LBrace,
	"}":   RBrace,
	"//":  LineComment,
	"/*":  BlockOpen,
	"*/":  BlockClose,
	"!":   Bang,
	"^":   Caret,
	"=":   Assign,
	"+":   Plus,
	"-":   Minus,
	"*":   Star,
	"/":   Slash,
	"%":   Percent,
	"&":   Amp,
	"|":   Pipe,
	"~":   Tilde,
	"&~":  AmpTilde,
	"<<":  Shl,
	">>":  Shr,
	"->":  Arrow,
	"+=":  PlusAssign,
	"-=":  MinusAssign,
	"*=":  StarAssign,
	"/=":  SlashAssign,
	"%=":  PercentAssign,
	"&=":  AmpAssign,
	"|=":  PipeAssign,
	"~=":  TildeAssign,
	"&~=": AmpTildeAssign,
	"<<=": ShlAssign,
	">>=": ShrAssign,
	"&&":  AndAnd,
	"||":  OrOr,
	"==":  EqEq,
	"!=":  BangEq,
	"<":   Lt,
	">":   Gt,
	"<=":  LtEq,
	">=":  GtEq,
}

var keywords = map[string]Kind{
	"exit":   KwExit,
	"let":    KwLet,
	"fn":     KwFn,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"mut":    KwMut,
	"while":  KwWhile,
	"break":  KwBreak,
	"true":   KwTrue,
	"false":  KwFalse,
}

var spellings = func() [kindCount]string {
	var out [kindCount]string
	for s, k := range operators {
		out[k] = s
	}
	for s, k := range keywords {
		out[k] = s
	}
	return out
}()

// MaxOperatorLen is the length of the longest operator spelling.
const MaxOperatorLen = 3

// LookupKeyword returns the keyword kind for ident, if it is one.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// LookupOperator returns the operator or punctuation kind spelled exactly s.
func LookupOperator(s string) (Kind, bool) {
	k, ok := operators[s]
	return k, ok
}
