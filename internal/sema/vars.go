package sema

import (
	"ember/internal/ast"
	"ember/internal/token"
	"ember/internal/types"
)

// VarID is a stable handle into the variable arena. Zero means "no variable".
type VarID uint32

const NoVar VarID = 0

// Variable is one declared storage slot.
type Variable struct {
	Name    token.Token
	Type    types.TypeID
	Mode    types.Mode
	Addr    types.AddrMode
	Width   int
	Elem    int // pointee width when Addr is AddrPointer
	Mutable bool
	Offset  int
}

// ExprData is the annotation attached to every checked expression.
type ExprData struct {
	Mode types.Mode
	Addr types.AddrMode
	// Var is set when the expression names a variable directly; its width
	// then comes from the variable. Otherwise Width holds the inherited width,
	// zero for unsized literals.
	Var   VarID
	Width int
	Elem  int
}

// IsVariable reports whether d is in Variable form.
func (d ExprData) IsVariable() bool { return d.Var != NoVar }

// scopeStack keeps the set of live names. Declarations are pushed on a flat
// stack; leaving a scope truncates it back to the recorded mark.
type scopeStack struct {
	vars   *ast.Arena[Variable]
	live   []VarID
	byName map[string]VarID
	frame  int
}

func newScopeStack(vars *ast.Arena[Variable]) *scopeStack {
	return &scopeStack{
		vars:   vars,
		byName: make(map[string]VarID),
	}
}

func (s *scopeStack) mark() int { return len(s.live) }

func (s *scopeStack) lookup(name string) (VarID, *Variable) {
	id, ok := s.byName[name]
	if !ok {
		return NoVar, nil
	}
	return id, s.vars.Get(uint32(id))
}

// declare reserves a frame slot for v and makes it visible.
func (s *scopeStack) declare(v Variable) VarID {
	s.frame += v.Width
	v.Offset = s.frame
	id := VarID(s.vars.Allocate(v))
	s.live = append(s.live, id)
	s.byName[v.Name.Text] = id
	return id
}

// popTo drops every variable declared after mark and releases its frame bytes.
func (s *scopeStack) popTo(mark int) {
	for len(s.live) > mark {
		id := s.live[len(s.live)-1]
		s.live = s.live[:len(s.live)-1]
		if v := s.vars.Get(uint32(id)); v != nil {
			delete(s.byName, v.Name.Text)
			s.frame -= v.Width
		}
	}
}
