package lexer

// class is the lexical category of a single byte.
type class uint8

const (
	classIllegal class = iota
	classWord
	classDigit
	classSymbol
	classNewline
	classSpace
)

func classify(b byte) class {
	switch {
	case isLetter(b):
		return classWord
	case isDec(b):
		return classDigit
	case b == '\n':
		return classNewline
	case b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f':
		return classSpace
	case b >= '!' && b <= '/', b >= ':' && b <= '@', b >= '[' && b <= '`', b >= '{' && b <= '~':
		return classSymbol
	}
	return classIllegal
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

// continuesWord reports whether b extends an identifier that already started.
func continuesWord(b byte) bool {
	return isLetter(b) || isDec(b) || b == '_'
}
