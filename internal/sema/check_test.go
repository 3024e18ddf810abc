package sema_test

import (
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/parser"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/types"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.em", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	prog, err := parser.Parse(toks, parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

func mustCheck(t *testing.T, src string) *sema.Result {
	t.Helper()
	res, err := sema.Check(parse(t, src), sema.Options{})
	if err != nil {
		t.Fatalf("check %q: %v", src, err)
	}
	return res
}

func TestAcceptsPrograms(t *testing.T) {
	programs := []string{
		"let x: u8 = 300; exit(x);",
		"let mut x: u32 = 1; x = 2; x += x * 3;",
		"{ let x: u32 = 1; } { let x: u32 = 2; }",
		"let a: u64 = 5; let b: u64 = a + 1;",
		"let mut i: u32 = 0; while i < 10 { i += 1; if i == 5 { break; } }",
		"let x: u32 = 1; let p: ^u32 = &x; let y: u32 = ^p;",
		"let t: bool = true && !false;",
		"let n: i32 = -5;",
		"let a: i8 = 1; let b: i64 = a << 2;",
		"let f: f32 = 1; let g: f64 = -f;",
		"if 1 < 2 { exit(0); } else if false { exit(1); } else { exit(2); }",
		"while 1 { break; }",
		"fn add(a: u32, b: u32) -> u32 { return a + b; }",
		"fn noop() { return; }",
		"fn pick(c: bool) -> u8 { if c { return 1; } }",
		"fn loop() { let mut i: u8 = 0; while true { i += 1; break; } }",
	}
	for _, src := range programs {
		if _, err := sema.Check(parse(t, src), sema.Options{}); err != nil {
			t.Errorf("%q: unexpected error %v", src, err)
		}
	}
}

func TestRejectsPrograms(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"exit(x);", diag.SemaUndeclaredVariable},
		{"{ let x: u32 = 1; } exit(x);", diag.SemaUndeclaredVariable},
		{"let x: u8 = x;", diag.SemaUndeclaredVariable},
		{"let x: u32 = 1; let x: u32 = 2;", diag.SemaDuplicateVariable},
		{"let x: u32 = 1; { let x: u32 = 2; }", diag.SemaDuplicateVariable},
		{"let u8: u32 = 1;", diag.SemaReservedName},
		{"fn f() {} let f: u8 = 1;", diag.SemaReservedName},
		{"let x: foo = 1;", diag.SemaUnknownType},
		{"let x: void;", diag.SemaTypeMismatch},
		{"let a: u64 = 5; let b: u8 = a;", diag.SemaNarrowing},
		{"let a: u8 = 5; let b: u8 = a + 1000; let c: u8 = b * a; let d: u16 = 1; let e: u8 = d;", diag.SemaNarrowing},
		{"let a: u64 = 5; let b: u8 = 1 + a;", diag.SemaNarrowing},
		{"let x: u32 = 1; x = 2;", diag.SemaReassignConstant},
		{"x = 2;", diag.SemaUndeclaredVariable},
		{"break;", diag.SemaNotInLoop},
		{"while true { fn f() { break; } }", diag.SemaNotInLoop},
		{"let b: bool = true; let x: u32 = b;", diag.SemaTypeMismatch},
		{"let a: i32 = 1; let b: u32 = a;", diag.SemaTypeMismatch},
		{"let a: i32 = 1; let b: u32 = 2; exit(a + b);", diag.SemaTypeMismatch},
		{"exit(1 && true);", diag.SemaTypeMismatch},
		{"let f: f32 = 1; exit(f & 1);", diag.SemaTypeMismatch},
		{"let x: u16 = 1; let p: ^u32 = &x;", diag.SemaTypeMismatch},
		{"let x: u32 = 1; let p: u32 = &x;", diag.SemaAddressingMismatch},
		{"let x: u32 = 1; let p: ^u32 = x;", diag.SemaAddressingMismatch},
		{"if 1 { exit(0); }", diag.SemaConditionNotBool},
		{"if true { } else if 2 { }", diag.SemaConditionNotBool},
		{"let x: u32 = 1; exit(!x);", diag.SemaIllegalUnary},
		{"let x: u32 = 1; exit(-x);", diag.SemaIllegalUnary},
		{"exit(&1);", diag.SemaIllegalUnary},
		{"let x: u32 = 1; exit(^x);", diag.SemaIllegalUnary},
		{"exit(~true);", diag.SemaIllegalUnary},
		{"exit(1, 2);", diag.SemaIllegalBinary},
		{"let mut x: u32 = 1; exit(x = 2);", diag.SemaIllegalBinary},
		{"fn f() {} fn f() {}", diag.SemaDuplicateFunction},
		{"fn f(a: u8, a: u8) {}", diag.SemaDuplicateParam},
		{"fn f(a: bogus) {}", diag.SemaUnknownType},
		{"fn f() -> bogus { }", diag.SemaUnknownType},
		{"fn f() -> u32 { let x: u32 = 1; }", diag.SemaMissingReturn},
		{"fn f() -> u32 { }", diag.SemaMissingReturn},
		{"return 1;", diag.SemaReturnOutsideFn},
		{"fn f() { return 1; }", diag.SemaReturnMismatch},
		{"fn f() -> u32 { return; }", diag.SemaReturnMismatch},
		{"fn f() -> u8 { let x: u64 = 1; return x; }", diag.SemaReturnMismatch},
		{"let x: u32 = 1; fn f() -> u32 { return x; }", diag.SemaUndeclaredVariable},
		{"fn f(a: u8) { a = 1; }", diag.SemaReassignConstant},
	}
	for _, tc := range cases {
		_, err := sema.Check(parse(t, tc.src), sema.Options{})
		if err == nil {
			t.Errorf("%q: expected %s, got success", tc.src, tc.code.ID())
			continue
		}
		if got := diag.CodeOf(err); got != tc.code {
			t.Errorf("%q: expected %s, got %s (%v)", tc.src, tc.code.ID(), got.ID(), err)
		}
	}
}

func TestBreakOutsideLoopMessage(t *testing.T) {
	_, err := sema.Check(parse(t, "break;"), sema.Options{})
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if de.Diag.Message != "not inside a loop! cannot break" {
		t.Fatalf("unexpected message %q", de.Diag.Message)
	}
}

func TestFrameOffsets(t *testing.T) {
	res := mustCheck(t, "let a: u8 = 1; let b: u32 = 2; { let c: u64 = 3; } let p: ^u8 = &a; { let d: u8 = 4; }")
	want := []struct {
		name   string
		offset int
		width  int
	}{
		{"a", 1, 1},
		{"b", 5, 4},
		{"c", 13, 8},
		{"p", 13, 8},
		{"d", 14, 1},
	}
	var got []*ast.VarSemantics
	var collect func(stmts []ast.Stmt)
	collect = func(stmts []ast.Stmt) {
		for _, st := range stmts {
			switch st := st.(type) {
			case *ast.VarSemantics:
				got = append(got, st)
			case *ast.NakedScope:
				collect(st.Body.Stmts)
			}
		}
	}
	collect(res.Program.Stmts)
	if len(got) != len(want) {
		t.Fatalf("expected %d declarations, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Name.Text != w.name || got[i].Offset != w.offset || got[i].Width != w.width {
			t.Errorf("decl %d: got %s offset=%d width=%d, want %s offset=%d width=%d",
				i, got[i].Name.Text, got[i].Offset, got[i].Width, w.name, w.offset, w.width)
		}
	}
	if res.FrameSize != 14 {
		t.Fatalf("expected frame size 14, got %d", res.FrameSize)
	}
	if p := got[3]; p.Addr != types.AddrPointer {
		t.Fatalf("expected pointer addressing for p, got %s", p.Addr)
	}
}

func TestSiblingScopesReuseSlots(t *testing.T) {
	res := mustCheck(t, "{ let x: u32 = 1; } { let x: u32 = 2; }")
	first := res.Program.Stmts[0].(*ast.NakedScope).Body.Stmts[0].(*ast.VarSemantics)
	second := res.Program.Stmts[1].(*ast.NakedScope).Body.Stmts[0].(*ast.VarSemantics)
	if first.Offset != second.Offset {
		t.Fatalf("expected equal offsets, got %d and %d", first.Offset, second.Offset)
	}
	if len(res.Vars) != 2 {
		t.Fatalf("expected two arena slots, got %d", len(res.Vars))
	}
}

func TestExpressionAnnotations(t *testing.T) {
	res := mustCheck(t, "let a: u8 = 1; let b: u16 = a + 1; let c: bool = a < 2; let p: ^u8 = &a; let d: u8 = ^p;")
	initOf := func(i int) ast.Expr {
		return res.Program.Stmts[i].(*ast.VarSemantics).Init
	}

	sum, ok := res.Expr(initOf(1))
	if !ok {
		t.Fatalf("missing annotation for a + 1")
	}
	if sum.Mode != types.Int(false) || res.Width(sum) != 1 || sum.IsVariable() {
		t.Fatalf("unexpected annotation for a + 1: %+v", sum)
	}
	lhs, _ := res.Expr(initOf(1).(*ast.BinaryExpr).Lhs)
	if !lhs.IsVariable() || res.Width(lhs) != 1 {
		t.Fatalf("expected variable form for a, got %+v", lhs)
	}
	if v, ok := res.Var(lhs.Var); !ok || v.Name.Text != "a" {
		t.Fatalf("handle does not resolve to a: %+v", v)
	}
	lit, _ := res.Expr(initOf(1).(*ast.BinaryExpr).Rhs)
	if lit.Mode != types.IntLit || res.Width(lit) != 0 {
		t.Fatalf("unexpected literal annotation %+v", lit)
	}

	cmp, _ := res.Expr(initOf(2))
	if cmp.Mode != types.Bool || res.Width(cmp) != 1 {
		t.Fatalf("unexpected comparison annotation %+v", cmp)
	}

	addr, _ := res.Expr(initOf(3))
	if addr.Addr != types.AddrPointer || addr.Width != types.PtrWidth || addr.Elem != 1 {
		t.Fatalf("unexpected address-of annotation %+v", addr)
	}
	deref, _ := res.Expr(initOf(4))
	if deref.Addr != types.AddrPrimitive || deref.Width != 1 {
		t.Fatalf("unexpected deref annotation %+v", deref)
	}
}

func TestFunctionsBecomeSemantic(t *testing.T) {
	res := mustCheck(t, "fn add(a: u32, b: i8) -> u64 { return a + 1; } fn noop() { }")
	fn, ok := res.Program.Stmts[0].(*ast.FnSemantics)
	if !ok {
		t.Fatalf("expected FnSemantics, got %T", res.Program.Stmts[0])
	}
	if len(fn.Params) != 2 || fn.Params[0].Width != 4 || fn.Params[1].Width != 1 {
		t.Fatalf("unexpected params %+v", fn.Params)
	}
	if name := res.Types.MustGet(fn.Ret).Name; name != "u64" {
		t.Fatalf("expected u64 return, got %s", name)
	}
	noop := res.Program.Stmts[1].(*ast.FnSemantics)
	if noop.Ret != types.VoidID {
		t.Fatalf("expected void return, got %d", noop.Ret)
	}
}

func TestErrorIsReported(t *testing.T) {
	bag := diag.NewBag(4)
	_, err := sema.Check(parse(t, "exit(y);"), sema.Options{Reporter: &diag.BagReporter{Bag: bag}})
	if err == nil {
		t.Fatalf("expected error")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUndeclaredVariable {
		t.Fatalf("expected one %s diagnostic, got %+v", diag.SemaUndeclaredVariable.ID(), items)
	}
}

func TestUnsupportedTypeForm(t *testing.T) {
	reg := types.NewRegistry()
	u8, _ := reg.Lookup("u8")
	if _, err := reg.Register(types.Type{Width: 2, Name: "pair", Form: types.Struct{Members: []types.TypeID{u8, u8}}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := sema.Check(parse(t, "let p: pair;"), sema.Options{Types: reg})
	if diag.CodeOf(err) != diag.SemaUnsupportedTypeForm || !diag.CodeOf(err).Unsupported() {
		t.Fatalf("expected unsupported type form, got %v", err)
	}
}
