package ast

import (
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/types"
)

// Node is anything with a source location.
type Node interface {
	Span() source.Span
}

// Stmt is a statement. Syntax-only variants come from the parser; VarSemantics
// and FnSemantics replace VarDecl and FnDecl after checking.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Scope is a brace-delimited statement list.
type Scope struct {
	Stmts []Stmt
	Loc   source.Span
}

func (s *Scope) Span() source.Span { return s.Loc }

// Program is the top-level statement list of one file.
type Program struct {
	Stmts []Stmt
}

type (
	// Param is one "name: type" entry of a function signature.
	Param struct {
		Name token.Token
		Type token.Token
	}

	FnDecl struct {
		Name   token.Token
		Params []Param
		Body   *Scope
		Ret    *token.Token // nil means void
		Loc    source.Span
	}

	VarDecl struct {
		Name    token.Token
		Type    token.Token
		Init    Expr // may be nil
		Mutable bool
		Pointer bool
		Loc     source.Span
	}

	If struct {
		Cond     Expr
		Body     *Scope
		Branches []Stmt // *ElseIf then at most one trailing *Else
		Loc      source.Span
	}

	ElseIf struct {
		Cond Expr
		Body *Scope
		Loc  source.Span
	}

	Else struct {
		Body *Scope
		Loc  source.Span
	}

	While struct {
		Cond Expr
		Body *Scope
		Loc  source.Span
	}

	Assign struct {
		Name  token.Token
		Value Expr
		Loc   source.Span
	}

	Exit struct {
		Value Expr
		Loc   source.Span
	}

	NakedScope struct {
		Body *Scope
	}

	Break struct {
		Loc source.Span
	}

	Return struct {
		Value Expr // may be nil
		Loc   source.Span
	}
)

// VarSemantics is a checked variable declaration. Offset is the distance in
// bytes below the frame base of the variable's first byte; the slot occupies
// [rbp-Offset, rbp-Offset+Width).
type VarSemantics struct {
	Name    token.Token
	Width   int
	Mutable bool
	Type    types.TypeID
	Addr    types.AddrMode
	Init    Expr
	Offset  int
	Loc     source.Span
}

// ParamSemantics is a checked function parameter.
type ParamSemantics struct {
	Name  token.Token
	Type  types.TypeID
	Width int
}

// FnSemantics is a checked function declaration.
type FnSemantics struct {
	Name   token.Token
	Params []ParamSemantics
	Ret    types.TypeID
	Body   *Scope
	Loc    source.Span
}

func (n *FnDecl) Span() source.Span       { return n.Loc }
func (n *VarDecl) Span() source.Span      { return n.Loc }
func (n *If) Span() source.Span           { return n.Loc }
func (n *ElseIf) Span() source.Span       { return n.Loc }
func (n *Else) Span() source.Span         { return n.Loc }
func (n *While) Span() source.Span        { return n.Loc }
func (n *Assign) Span() source.Span       { return n.Loc }
func (n *Exit) Span() source.Span         { return n.Loc }
func (n *NakedScope) Span() source.Span   { return n.Body.Loc }
func (n *Break) Span() source.Span        { return n.Loc }
func (n *Return) Span() source.Span       { return n.Loc }
func (n *VarSemantics) Span() source.Span { return n.Loc }
func (n *FnSemantics) Span() source.Span  { return n.Loc }

func (*FnDecl) stmtNode()       {}
func (*VarDecl) stmtNode()      {}
func (*If) stmtNode()           {}
func (*ElseIf) stmtNode()       {}
func (*Else) stmtNode()         {}
func (*While) stmtNode()        {}
func (*Assign) stmtNode()       {}
func (*Exit) stmtNode()         {}
func (*NakedScope) stmtNode()   {}
func (*Break) stmtNode()        {}
func (*Return) stmtNode()       {}
func (*VarSemantics) stmtNode() {}
func (*FnSemantics) stmtNode()  {}

type (
	BinaryExpr struct {
		Op  token.Token
		Lhs Expr
		Rhs Expr
	}

	UnaryExpr struct {
		Op      token.Token
		Operand Expr
	}

	Ident struct {
		Tok token.Token
	}

	IntLit struct {
		Tok token.Token
	}

	BoolLit struct {
		Tok   token.Token
		Value bool
	}
)

func (e *BinaryExpr) Span() source.Span { return e.Lhs.Span().Cover(e.Rhs.Span()).Cover(e.Op.Span) }
func (e *UnaryExpr) Span() source.Span  { return e.Op.Span.Cover(e.Operand.Span()) }
func (e *Ident) Span() source.Span      { return e.Tok.Span }
func (e *IntLit) Span() source.Span     { return e.Tok.Span }
func (e *BoolLit) Span() source.Span    { return e.Tok.Span }

func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*Ident) exprNode()      {}
func (*IntLit) exprNode()     {}
func (*BoolLit) exprNode()    {}

// Name returns the identifier text.
func (e *Ident) Name() string { return e.Tok.Text }
