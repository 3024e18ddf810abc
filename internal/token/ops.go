package token

// Flags classify operator kinds.
type Flags uint8

const (
	FlagAssign Flags = 1 << iota
	FlagArith
	FlagCmp
	FlagLog
	FlagBit
	FlagUnary
)

// NoPrec is returned for kinds that have no precedence in a role.
const NoPrec = -100

// UnaryPrec is the binding power of every prefix operator.
const UnaryPrec = 13

// Flags returns the operator classification of k.
func (k Kind) Flags() Flags {
	switch k {
	case Caret:
		return FlagUnary
	case Assign:
		return FlagAssign
	case Plus, Star, Slash, Percent:
		return FlagArith
	case Minus:
		return FlagArith | FlagUnary
	case Amp, Tilde:
		return FlagBit | FlagUnary
	case Pipe, AmpTilde, Shl, Shr:
		return FlagBit

	case PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign:
		return FlagAssign | FlagArith
	case AmpAssign, PipeAssign, TildeAssign, AmpTildeAssign, ShlAssign, ShrAssign:
		return FlagAssign | FlagBit

	case Bang:
		return FlagLog | FlagUnary
	case AndAnd, OrOr:
		return FlagCmp | FlagLog
	case EqEq, BangEq, Lt, Gt, LtEq, GtEq:
		return FlagCmp
	}
	return 0
}

// Has reports whether k carries every flag in f.
func (k Kind) Has(f Flags) bool {
	return f != 0 && k.Flags()&f == f
}

// IsLogical reports whether k is a short-circuit logical operator.
func (k Kind) IsLogical() bool { return k == AndAnd || k == OrOr }

// IsComparison reports whether k is a relational or equality operator.
func (k Kind) IsComparison() bool { return k.Has(FlagCmp) && !k.IsLogical() }

// BinaryPrec returns the binding power of k in binary position; higher binds tighter.
func (k Kind) BinaryPrec() int {
	switch k {
	case Star, Slash, Percent:
		return 12
	case Plus, Minus:
		return 11
	case Shl, Shr:
		return 10
	case Lt, LtEq, Gt, GtEq:
		return 9
	case EqEq, BangEq:
		return 8
	case Amp, AmpTilde:
		return 7
	case Tilde:
		return 6
	case Pipe:
		return 5
	case AndAnd:
		return 3
	case OrOr:
		return 2
	case Comma:
		return 0
	}
	if k.Has(FlagAssign) {
		return 1
	}
	return NoPrec
}

// UnaryPrecOf returns UnaryPrec for prefix-capable kinds and NoPrec otherwise.
func (k Kind) UnaryPrecOf() int {
	if k.Has(FlagUnary) {
		return UnaryPrec
	}
	return NoPrec
}

// RightAssoc reports whether k associates to the right in the given role.
func (k Kind) RightAssoc(unary bool) bool {
	return k.Has(FlagAssign) || unary
}

// Plain maps a compound assignment to its underlying binary operator.
func (k Kind) Plain() (Kind, bool) {
	switch k {
	case PlusAssign:
		return Plus, true
	case MinusAssign:
		return Minus, true
	case StarAssign:
		return Star, true
	case SlashAssign:
		return Slash, true
	case PercentAssign:
		return Percent, true
	case AmpAssign:
		return Amp, true
	case PipeAssign:
		return Pipe, true
	case TildeAssign:
		return Tilde, true
	case AmpTildeAssign:
		return AmpTilde, true
	case ShlAssign:
		return Shl, true
	case ShrAssign:
		return Shr, true
	}
	return Invalid, false
}

// IsCompoundAssign reports whether k is an OP= operator.
func (k Kind) IsCompoundAssign() bool {
	_, ok := k.Plain()
	return ok
}
