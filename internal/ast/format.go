package ast

import (
	"strings"

	"ember/internal/token"
)

var binaryNames = map[token.Kind]string{
	token.Plus:     "Add",
	token.Minus:    "Sub",
	token.Star:     "Mul",
	token.Slash:    "Div",
	token.Percent:  "Mod",
	token.Amp:      "BitAnd",
	token.Pipe:     "BitOr",
	token.Tilde:    "BitXor",
	token.AmpTilde: "AndNot",
	token.Shl:      "Shl",
	token.Shr:      "Shr",
	token.EqEq:     "Eq",
	token.BangEq:   "Ne",
	token.Lt:       "Lt",
	token.LtEq:     "Le",
	token.Gt:       "Gt",
	token.GtEq:     "Ge",
	token.AndAnd:   "And",
	token.OrOr:     "Or",
	token.Comma:    "Comma",
	token.Assign:   "Set",
}

var unaryNames = map[token.Kind]string{
	token.Minus: "Neg",
	token.Tilde: "BitNot",
	token.Bang:  "Not",
	token.Amp:   "Addr",
	token.Caret: "Deref",
}

// BinaryName names a binary operator the way FormatExpr prints it.
func BinaryName(k token.Kind) string {
	if s, ok := binaryNames[k]; ok {
		return s
	}
	return k.String()
}

// UnaryName names a prefix operator the way FormatExpr prints it.
func UnaryName(k token.Kind) string {
	if s, ok := unaryNames[k]; ok {
		return s
	}
	return k.String()
}

// FormatExpr renders e in prefix form, e.g. "Add(1, Mul(2, 3))".
func FormatExpr(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *BinaryExpr:
		sb.WriteString(BinaryName(e.Op.Kind))
		sb.WriteByte('(')
		writeExpr(sb, e.Lhs)
		sb.WriteString(", ")
		writeExpr(sb, e.Rhs)
		sb.WriteByte(')')
	case *UnaryExpr:
		sb.WriteString(UnaryName(e.Op.Kind))
		sb.WriteByte('(')
		writeExpr(sb, e.Operand)
		sb.WriteByte(')')
	case *Ident:
		sb.WriteString(e.Tok.Text)
	case *IntLit:
		sb.WriteString(e.Tok.Text)
	case *BoolLit:
		if e.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	default:
		sb.WriteString("?")
	}
}

// StmtName is the short variant name used in traces and dumps.
func StmtName(s Stmt) string {
	switch s.(type) {
	case *FnDecl:
		return "FnDecl"
	case *VarDecl:
		return "VarDecl"
	case *If:
		return "If"
	case *ElseIf:
		return "ElseIf"
	case *Else:
		return "Else"
	case *While:
		return "While"
	case *Assign:
		return "Assign"
	case *Exit:
		return "Exit"
	case *NakedScope:
		return "Scope"
	case *Break:
		return "Break"
	case *Return:
		return "Return"
	case *VarSemantics:
		return "VarSemantics"
	case *FnSemantics:
		return "FnSemantics"
	}
	return "Stmt"
}
