package types

import "fmt"

// TypeID uniquely identifies a type inside the registry.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// PtrWidth is the size in bytes of every pointer.
const PtrWidth = 8

// ModeKind enumerates the value categories a base type can have.
type ModeKind uint8

const (
	ModeVoid ModeKind = iota
	ModeBool
	// ModeIntLit is the pseudo-type of an integer literal whose width and
	// signedness are not fixed yet.
	ModeIntLit
	ModeInt
	ModeFloat
)

func (k ModeKind) String() string {
	switch k {
	case ModeVoid:
		return "void"
	case ModeBool:
		return "bool"
	case ModeIntLit:
		return "intlit"
	case ModeInt:
		return "int"
	case ModeFloat:
		return "float"
	default:
		return fmt.Sprintf("ModeKind(%d)", k)
	}
}

// Mode is the TypeMode of a base type: its kind plus signedness for numerics.
type Mode struct {
	Kind   ModeKind
	Signed bool
}

var (
	Void   = Mode{Kind: ModeVoid}
	Bool   = Mode{Kind: ModeBool}
	IntLit = Mode{Kind: ModeIntLit}
)

// Int describes an integer mode.
func Int(signed bool) Mode { return Mode{Kind: ModeInt, Signed: signed} }

// Float describes a floating-point mode.
func Float(signed bool) Mode { return Mode{Kind: ModeFloat, Signed: signed} }

// IsNumeric reports whether m is an integer, float or unsized literal.
func (m Mode) IsNumeric() bool {
	return m.Kind == ModeInt || m.Kind == ModeFloat || m.Kind == ModeIntLit
}

// IsInteger reports whether m is an integer or an unsized literal.
func (m Mode) IsInteger() bool {
	return m.Kind == ModeInt || m.Kind == ModeIntLit
}

// IsSigned reports whether arithmetic on m is signed. Unsized literals count as signed.
func (m Mode) IsSigned() bool {
	return m.Signed || m.Kind == ModeIntLit
}

func (m Mode) String() string {
	switch m.Kind {
	case ModeInt, ModeFloat:
		if m.Signed {
			return "signed " + m.Kind.String()
		}
		return "unsigned " + m.Kind.String()
	}
	return m.Kind.String()
}

// AddrMode says how a value is addressed.
type AddrMode uint8

const (
	AddrPrimitive AddrMode = iota
	AddrPointer
	AddrArray
)

func (a AddrMode) String() string {
	switch a {
	case AddrPrimitive:
		return "primitive"
	case AddrPointer:
		return "pointer"
	case AddrArray:
		return "array"
	default:
		return fmt.Sprintf("AddrMode(%d)", a)
	}
}

// Form is the shape of a registered type: Base, Struct or Union.
type Form interface {
	form()
}

// Base is a scalar type with a TypeMode.
type Base struct {
	Mode Mode
}

// Struct lists member types in declaration order.
type Struct struct {
	Members []TypeID
}

// Union is reserved; no members are tracked.
type Union struct{}

func (Base) form()   {}
func (Struct) form() {}
func (Union) form()  {}

// Type is one registry entry.
type Type struct {
	Width int // bytes
	Name  string
	Form  Form
}

// BaseMode returns the mode of a Base type.
func (t Type) BaseMode() (Mode, bool) {
	b, ok := t.Form.(Base)
	return b.Mode, ok
}
