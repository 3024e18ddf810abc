package types

import "testing"

func TestBuiltins(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		name  string
		width int
		mode  Mode
	}{
		{"void", 0, Void},
		{"bool", 1, Bool},
		{"u8", 1, Int(false)},
		{"u64", 8, Int(false)},
		{"usize", PtrWidth, Int(false)},
		{"i16", 2, Int(true)},
		{"isize", PtrWidth, Int(true)},
		{"f32", 4, Float(true)},
		{"f64", 8, Float(true)},
	}
	for _, tc := range cases {
		id, ok := r.Lookup(tc.name)
		if !ok {
			t.Fatalf("%s missing", tc.name)
		}
		typ := r.MustGet(id)
		mode, isBase := typ.BaseMode()
		if !isBase || typ.Width != tc.width || mode != tc.mode {
			t.Errorf("%s = %+v", tc.name, typ)
		}
	}
	if id, _ := r.Lookup("void"); id != VoidID {
		t.Errorf("void id = %d", id)
	}
	if id, _ := r.Lookup("bool"); id != BoolID {
		t.Errorf("bool id = %d", id)
	}
}

func TestRegisterAppendOnly(t *testing.T) {
	r := NewRegistry()
	before := r.Len()
	u32, _ := r.Lookup("u32")
	id, err := r.Register(Type{Width: 8, Name: "pair", Form: Struct{Members: []TypeID{u32, u32}}})
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != before+1 {
		t.Errorf("len = %d", r.Len())
	}
	if _, err := r.Register(Type{Name: "pair", Form: Union{}}); err == nil {
		t.Error("duplicate name accepted")
	}
	if _, ok := r.MustGet(id).BaseMode(); ok {
		t.Error("struct reported as base")
	}
	if _, ok := r.Get(NoTypeID); ok {
		t.Error("NoTypeID resolved")
	}
}

func TestUnify(t *testing.T) {
	cases := []struct {
		a, b Mode
		want bool
	}{
		{Int(true), Int(true), true},
		{IntLit, Bool, true},
		{Float(true), IntLit, true},
		{Int(true), Float(true), true},
		{Int(false), Int(true), false},
		{Bool, Int(false), false},
		{Void, Int(true), false},
		{Bool, Void, false},
	}
	for _, tc := range cases {
		if got := Unify(tc.a, tc.b); got != tc.want {
			t.Errorf("Unify(%v, %v) = %v", tc.a, tc.b, got)
		}
	}
	if Join(IntLit, Int(false)) != Int(false) || Join(Int(true), IntLit) != Int(true) {
		t.Error("Join should prefer the concrete mode")
	}
}
