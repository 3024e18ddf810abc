package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Registry is the append-only table of known types, indexed by TypeID and name.
// Entry 0 is reserved so that NoTypeID never names a real type.
type Registry struct {
	types  []Type
	byName map[string]TypeID
}

var builtinTypes = []Type{
	{Width: 0, Name: "void", Form: Base{Mode: Void}},
	{Width: 1, Name: "bool", Form: Base{Mode: Bool}},
	{Width: 1, Name: "u8", Form: Base{Mode: Int(false)}},
	{Width: 2, Name: "u16", Form: Base{Mode: Int(false)}},
	{Width: 4, Name: "u32", Form: Base{Mode: Int(false)}},
	{Width: 8, Name: "u64", Form: Base{Mode: Int(false)}},
	{Width: PtrWidth, Name: "usize", Form: Base{Mode: Int(false)}},
	{Width: 1, Name: "i8", Form: Base{Mode: Int(true)}},
	{Width: 2, Name: "i16", Form: Base{Mode: Int(true)}},
	{Width: 4, Name: "i32", Form: Base{Mode: Int(true)}},
	{Width: 8, Name: "i64", Form: Base{Mode: Int(true)}},
	{Width: PtrWidth, Name: "isize", Form: Base{Mode: Int(true)}},
	{Width: 4, Name: "f32", Form: Base{Mode: Float(true)}},
	{Width: 8, Name: "f64", Form: Base{Mode: Float(true)}},
}

// NewRegistry returns a registry seeded with the builtin scalar types.
func NewRegistry() *Registry {
	r := &Registry{
		types:  make([]Type, 1, len(builtinTypes)+8),
		byName: make(map[string]TypeID, len(builtinTypes)),
	}
	for _, t := range builtinTypes {
		if _, err := r.Register(t); err != nil {
			panic(err) // builtin table is static
		}
	}
	return r
}

// Register appends t and returns its id. Names are unique.
func (r *Registry) Register(t Type) (TypeID, error) {
	if t.Name == "" {
		return NoTypeID, fmt.Errorf("type without a name")
	}
	if _, dup := r.byName[t.Name]; dup {
		return NoTypeID, fmt.Errorf("type %q already registered", t.Name)
	}
	n, err := safecast.Conv[uint32](len(r.types))
	if err != nil {
		return NoTypeID, fmt.Errorf("len(types) overflow: %w", err)
	}
	id := TypeID(n)
	r.types = append(r.types, t)
	r.byName[t.Name] = id
	return id, nil
}

// Lookup finds a type by name.
func (r *Registry) Lookup(name string) (TypeID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Get returns the type for id.
func (r *Registry) Get(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(r.types) {
		return Type{}, false
	}
	return r.types[id], true
}

// MustGet is Get for ids handed out by this registry.
func (r *Registry) MustGet(id TypeID) Type {
	t, ok := r.Get(id)
	if !ok {
		panic(fmt.Sprintf("types: unknown TypeID %d", id))
	}
	return t
}

// Len reports the number of registered types.
func (r *Registry) Len() int { return len(r.types) - 1 }

// All returns registered types in id order. READONLY.
func (r *Registry) All() []Type { return r.types[1:] }

// Builtin ids, stable across registries.
const (
	VoidID TypeID = 1
	BoolID TypeID = 2
)
