package codegen_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"ember/internal/ast"
	"ember/internal/codegen"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/parser"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/types"
)

func check(t *testing.T, src string) *sema.Result {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.em", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	prog, err := parser.Parse(toks, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := sema.Check(prog, sema.Options{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return res
}

func generate(t *testing.T, src string) string {
	t.Helper()
	asm, err := codegen.Generate(check(t, src), codegen.Options{})
	if err != nil {
		t.Fatalf("generate %q: %v", src, err)
	}
	return asm
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no golden files")
	}
	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			files := make(map[string]string, len(ar.Files))
			for _, f := range ar.Files {
				files[f.Name] = string(f.Data)
			}
			input, ok := files["input.em"]
			if !ok {
				t.Fatalf("%s: missing input.em", path)
			}
			got := generate(t, input)
			if diff := cmp.Diff(files["want.asm"], got); diff != "" {
				t.Fatalf("assembly mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntrySymbol(t *testing.T) {
	asm, err := codegen.Generate(check(t, "exit(0);"), codegen.Options{Entry: "_start"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(asm, "global _start\nsection .text\n_start:\n") {
		t.Fatalf("unexpected header:\n%s", asm)
	}
}

func TestEndLabelOnlyWithBranches(t *testing.T) {
	plain := generate(t, "let a: u8 = 1; if a == 1 { exit(1); }")
	if strings.Contains(plain, "END_IF") {
		t.Fatalf("end label emitted without else:\n%s", plain)
	}
	withElif := generate(t, "let a: u8 = 1; if a == 1 { exit(1); } else if a == 2 { exit(2); }")
	for _, want := range []string{"jmp .1_END_IF", ".2_ELIF_FALSE:", ".1_END_IF:"} {
		if !strings.Contains(withElif, want) {
			t.Fatalf("missing %q in:\n%s", want, withElif)
		}
	}
}

func TestNestedBreakTargetsInnermostLoop(t *testing.T) {
	asm := generate(t, "while true { while true { break; } break; }")
	inner := strings.Index(asm, "jmp .2_WHILE_END")
	outer := strings.Index(asm, "jmp .1_WHILE_END")
	if inner < 0 || outer < 0 || inner > outer {
		t.Fatalf("breaks do not target their own loops:\n%s", asm)
	}
}

func TestConditionWithoutComparison(t *testing.T) {
	asm := generate(t, "let b: bool = true; if b { exit(1); }")
	want := "    movzx rax, byte [rbp-1]\n    cmp rax, 0\n    je .1_IF_FALSE\n"
	if !strings.Contains(asm, want) {
		t.Fatalf("missing %q in:\n%s", want, asm)
	}
}

func TestLiteralStores(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"let x: u8 = 300;", "    mov byte [rbp-1], 44\n"},
		{"let x: u64 = 4294967296;", "    mov rax, 4294967296\n    mov qword [rbp-8], rax\n"},
		{"let x: i64 = 7;", "    mov qword [rbp-8], 7\n"},
		{"let b: bool = false;", "    mov byte [rbp-1], 0\n"},
	}
	for _, tc := range cases {
		if asm := generate(t, tc.src); !strings.Contains(asm, tc.want) {
			t.Errorf("%q: missing %q in:\n%s", tc.src, tc.want, asm)
		}
	}
}

func TestOperatorLowering(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"let a: u32 = 9; exit(a / 2);", "    xor edx, edx\n    div rcx\n"},
		{"let a: u32 = 9; exit(a % 2);", "    div rcx\n    mov rax, rdx\n"},
		{"let a: i64 = 9; exit(1 + a / 2);", "    push rax\n    mov rax, rcx\n    cqo\n    idiv rsi\n    mov rcx, rax\n    pop rax\n"},
		{"let a: i8 = 9; exit(a >> 1);", "    sar rax, cl\n"},
		{"let a: u8 = 9; exit(a >> 1);", "    shr rax, cl\n"},
		{"let a: u8 = 9; exit(1 + (a << 2));", "    xchg rcx, rsi\n    shl rsi, cl\n    mov rcx, rsi\n"},
		{"let a: u8 = 9; exit(a &~ 3);", "    not rcx\n    and rax, rcx\n"},
		{"let a: u8 = 9; exit(a | 3 ~ 1);", "    or rax, rcx\n"},
		{"let a: i16 = 9; exit(~a);", "    movsx rax, word [rbp-2]\n    not rax\n"},
		{"let a: u8 = 9; let b: bool = a >= 3 || false;", "    jne .1_OR_TRUE\n"},
		{"let a: i32 = 9; let b: bool = a <= 3;", "    setle al\n"},
		{"let a: u32 = 9; let b: bool = a <= 3;", "    setbe al\n"},
	}
	for _, tc := range cases {
		if asm := generate(t, tc.src); !strings.Contains(asm, tc.want) {
			t.Errorf("%q: missing %q in:\n%s", tc.src, tc.want, asm)
		}
	}
}

func TestLoweringErrors(t *testing.T) {
	cases := []struct {
		src         string
		code        diag.Code
		unsupported bool
	}{
		{"fn f() { }", diag.GenUnsupportedFn, true},
		{"let f: f32 = 1;", diag.GenUnsupportedFloat, true},
		{"exit(99999999999999999999);", diag.GenBadLiteral, false},
		{"exit(1 + (2 + (3 + (4 + (5 + (6 + (7 + (8 + 9))))))));", diag.GenRegistersExhausted, false},
	}
	for _, tc := range cases {
		_, err := codegen.Generate(check(t, tc.src), codegen.Options{})
		code := diag.CodeOf(err)
		if code != tc.code {
			t.Errorf("%q: expected %s, got %v", tc.src, tc.code.ID(), err)
			continue
		}
		if code.Unsupported() != tc.unsupported {
			t.Errorf("%q: unsupported=%v", tc.src, code.Unsupported())
		}
	}
}

func ident(name string) token.Token {
	return token.Token{Kind: token.Ident, Text: name}
}

func TestInconsistentInput(t *testing.T) {
	reg := types.NewRegistry()
	u32, _ := reg.Lookup("u32")
	one := &ast.IntLit{Tok: token.Token{Kind: token.IntLit, Text: "1"}}
	cases := []struct {
		name  string
		stmts []ast.Stmt
		code  diag.Code
	}{
		{
			name:  "frame mismatch",
			stmts: []ast.Stmt{&ast.VarSemantics{Name: ident("x"), Width: 4, Type: u32, Offset: 8}},
			code:  diag.GenFrameMismatch,
		},
		{
			name: "redeclared",
			stmts: []ast.Stmt{
				&ast.VarSemantics{Name: ident("x"), Width: 4, Type: u32, Offset: 4},
				&ast.VarSemantics{Name: ident("x"), Width: 4, Type: u32, Offset: 8},
			},
			code: diag.GenRedeclared,
		},
		{
			name:  "undeclared",
			stmts: []ast.Stmt{&ast.Assign{Name: ident("y"), Value: one}},
			code:  diag.GenUndeclared,
		},
		{
			name:  "break outside loop",
			stmts: []ast.Stmt{&ast.Break{}},
			code:  diag.GenBreakOutsideLoop,
		},
		{
			name:  "unchecked expression",
			stmts: []ast.Stmt{&ast.Exit{Value: &ast.BinaryExpr{Op: token.Token{Kind: token.Plus}, Lhs: one, Rhs: one}}},
			code:  diag.GenMissingExprInfo,
		},
		{
			name:  "return",
			stmts: []ast.Stmt{&ast.Return{}},
			code:  diag.GenUnsupportedReturn,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := &sema.Result{Program: &ast.Program{Stmts: tc.stmts}, Types: reg}
			bag := diag.NewBag(2)
			_, err := codegen.Generate(res, codegen.Options{Reporter: &diag.BagReporter{Bag: bag}})
			if got := diag.CodeOf(err); got != tc.code {
				t.Fatalf("expected %s, got %v", tc.code.ID(), err)
			}
			if bag.Len() != 1 {
				t.Fatalf("expected the failure to be reported once, got %d", bag.Len())
			}
		})
	}
}
