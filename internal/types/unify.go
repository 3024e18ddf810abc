package types

// Unify reports whether two operand modes may meet in one expression or assignment.
// Identical modes unify; an unsized literal unifies with anything; otherwise both
// must be numeric with the same signedness. Bool and Void never meet numerics.
func Unify(a, b Mode) bool {
	if a == b {
		return true
	}
	if a.Kind == ModeIntLit || b.Kind == ModeIntLit {
		return true
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return false
	}
	return a.Signed == b.Signed
}

// Join picks the mode of a binary result: the left operand's mode unless it is
// an unsized literal, in which case the right one decides.
func Join(left, right Mode) Mode {
	if left.Kind == ModeIntLit {
		return right
	}
	return left
}
