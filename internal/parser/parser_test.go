package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/parser"
	"ember/internal/source"
	"ember/internal/token"
)

// ignoreLocations compares trees by shape: spans and positions differ between
// equivalent spellings.
var ignoreLocations = cmpopts.IgnoreTypes(source.Span{}, token.Pos{})

func parseSource(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.em", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	return parser.Parse(toks, parser.Options{})
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parseSource(t, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

// exitExpr parses "exit(<expr>);" and returns the formatted expression.
func exitExpr(t *testing.T, expr string) string {
	t.Helper()
	prog := mustParse(t, "exit("+expr+");")
	if len(prog.Stmts) != 1 {
		t.Fatalf("%q: %d statements", expr, len(prog.Stmts))
	}
	exit, ok := prog.Stmts[0].(*ast.Exit)
	if !ok {
		t.Fatalf("%q: got %T", expr, prog.Stmts[0])
	}
	return ast.FormatExpr(exit.Value)
}

func TestPrecedence(t *testing.T) {
	cases := map[string]string{
		"1 + 2 * 3":      "Add(1, Mul(2, 3))",
		"2 * 3 + 1":      "Add(Mul(2, 3), 1)",
		"2 * 3 - 1":      "Sub(Mul(2, 3), 1)",
		"10 - 3 - 2":     "Sub(Sub(10, 3), 2)",
		"(1 + 2) * 3":    "Mul(Add(1, 2), 3)",
		"a < b == c":     "Eq(Lt(a, b), c)",
		"a & b ~ c | d":  "BitOr(BitXor(BitAnd(a, b), c), d)",
		"a || b && c":    "Or(a, And(b, c))",
		"1 << 2 + 3":     "Shl(1, Add(2, 3))",
		"a &~ b":         "AndNot(a, b)",
		"x == true":      "Eq(x, true)",
		"a % b / c * d":  "Mul(Div(Mod(a, b), c), d)",
		"a >= 1 && b":    "And(Ge(a, 1), b)",
		"a != b || !c":   "Or(Ne(a, b), Not(c))",
		"1_000 + x":      "Add(1000, x)",
		"((x))":          "x",
		"a <= b > c":     "Gt(Le(a, b), c)",
		"a >> 1 >> 2":    "Shr(Shr(a, 1), 2)",
		"a | b & c ~ d":  "BitOr(a, BitXor(BitAnd(b, c), d))",
		"false || true":  "Or(false, true)",
		"-x * 2":         "Mul(Neg(x), 2)",
		"x - -1":         "Sub(x, Neg(1))",
		"~a & b":         "BitAnd(BitNot(a), b)",
		"^p + 1":         "Add(Deref(p), 1)",
		"&x":             "Addr(x)",
		"!(a == b)":      "Not(Eq(a, b))",
		"- - 1":          "Neg(Neg(1))",
		"x * (y - z) % 4": "Mod(Mul(x, Sub(y, z)), 4)",
	}
	for src, want := range cases {
		if got := exitExpr(t, src); got != want {
			t.Errorf("%q => %s, want %s", src, got, want)
		}
	}
}

func TestUnaryDisambiguation(t *testing.T) {
	if got := exitExpr(t, "-1 + 2"); got != "Add(Neg(1), 2)" {
		t.Errorf("-1 + 2 => %s", got)
	}
	if got := exitExpr(t, "a & b"); got != "BitAnd(a, b)" {
		t.Errorf("a & b => %s", got)
	}
	if got := exitExpr(t, "a - b"); got != "Sub(a, b)" {
		t.Errorf("a - b => %s", got)
	}
	// no operand after the operator: postfix application to the left side
	if got := exitExpr(t, "p^"); got != "Deref(p)" {
		t.Errorf("p^ => %s", got)
	}
	// a unary-only operator before a dual-role one stays on the left side
	if got := exitExpr(t, "p^ - 1"); got != "Sub(Deref(p), 1)" {
		t.Errorf("p^ - 1 => %s", got)
	}
	if got := exitExpr(t, "p^ & 1"); got != "BitAnd(Deref(p), 1)" {
		t.Errorf("p^ & 1 => %s", got)
	}
	if got := exitExpr(t, "p^ ~ -1"); got != "BitXor(Deref(p), Neg(1))" {
		t.Errorf("p^ ~ -1 => %s", got)
	}
}

func TestCompoundAssignDesugars(t *testing.T) {
	cases := [][2]string{
		{"x += 1;", "x = x + 1;"},
		{"x <<= 2;", "x = x << 2;"},
		{"x &~= m;", "x = x &~ m;"},
		{"x ~= y;", "x = x ~ y;"},
		{"x *= 1 + 2;", "x = x * 1 + 2;"},
		{"x -= -1;", "x = x - -1;"},
		{"x |= y && z;", "x = x | y && z;"},
	}
	for _, tc := range cases {
		got := mustParse(t, tc[0])
		want := mustParse(t, tc[1])
		if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
			t.Errorf("%q vs %q (-want +got):\n%s", tc[0], tc[1], diff)
		}
	}
}

func TestStatements(t *testing.T) {
	prog := mustParse(t, `
let mut x: u32 = 5;
let p: ^u32 = &x;
fn add(a: u32, b: u32) -> u32 { return a + b; }
fn noop() { return; }
while x > 0 { x -= 1; if x == 2 { break; } }
if x == 1 { exit(1); } else if x == 2 { exit(2); } else { exit(3); }
{ let y: u8; }
exit(0);
`)
	want := &ast.Program{Stmts: []ast.Stmt{
		&ast.VarDecl{Name: ident("x"), Type: ident("u32"), Init: intLit("5"), Mutable: true},
		&ast.VarDecl{Name: ident("p"), Type: ident("u32"), Pointer: true,
			Init: &ast.UnaryExpr{Op: op(token.Amp), Operand: &ast.Ident{Tok: ident("x")}}},
		&ast.FnDecl{
			Name:   ident("add"),
			Params: []ast.Param{{Name: ident("a"), Type: ident("u32")}, {Name: ident("b"), Type: ident("u32")}},
			Ret:    ptr(ident("u32")),
			Body: &ast.Scope{Stmts: []ast.Stmt{
				&ast.Return{Value: bin(token.Plus, name("a"), name("b"))},
			}},
		},
		&ast.FnDecl{Name: ident("noop"), Body: &ast.Scope{Stmts: []ast.Stmt{&ast.Return{}}}},
		&ast.While{
			Cond: bin(token.Gt, name("x"), intLit("0")),
			Body: &ast.Scope{Stmts: []ast.Stmt{
				&ast.Assign{Name: ident("x"), Value: bin(token.Minus, name("x"), intLit("1"))},
				&ast.If{
					Cond: bin(token.EqEq, name("x"), intLit("2")),
					Body: &ast.Scope{Stmts: []ast.Stmt{&ast.Break{}}},
				},
			}},
		},
		&ast.If{
			Cond: bin(token.EqEq, name("x"), intLit("1")),
			Body: &ast.Scope{Stmts: []ast.Stmt{&ast.Exit{Value: intLit("1")}}},
			Branches: []ast.Stmt{
				&ast.ElseIf{
					Cond: bin(token.EqEq, name("x"), intLit("2")),
					Body: &ast.Scope{Stmts: []ast.Stmt{&ast.Exit{Value: intLit("2")}}},
				},
				&ast.Else{Body: &ast.Scope{Stmts: []ast.Stmt{&ast.Exit{Value: intLit("3")}}}},
			},
		},
		&ast.NakedScope{Body: &ast.Scope{Stmts: []ast.Stmt{
			&ast.VarDecl{Name: ident("y"), Type: ident("u8")},
		}}},
		&ast.Exit{Value: intLit("0")},
	}}
	if diff := cmp.Diff(want, prog, ignoreLocations); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"exit(1)", diag.SynUnexpectedEOF},
		{"exit(1) exit(2);", diag.SynExpectSemicolon},
		{"let x: u8 = 1", diag.SynUnexpectedEOF},
		{"let x u8;", diag.SynExpectColon},
		{"let : u8;", diag.SynExpectIdentifier},
		{"break", diag.SynUnexpectedEOF},
		{"x = 1 x = 2;", diag.SynExpectSemicolon},
		{"exit 1;", diag.SynExpectLParen},
		{"exit((1);", diag.SynUnclosedParen},
		{"{ exit(0);", diag.SynUnclosedBrace},
		{"while x { ", diag.SynUnclosedBrace},
		{"1 + 2;", diag.SynExpressionStmt},
		{"x + 1;", diag.SynExpressionStmt},
		{"x;", diag.SynNotCompoundAssign},
		{"exit(a ^ b);", diag.SynNotBinaryOperator},
		{"return 1", diag.SynUnexpectedEOF},
		{"fn f(a u8) {}", diag.SynExpectColon},
		{"fn f() -> {}", diag.SynExpectType},
		{"if x exit(1);", diag.SynExpectLBrace},
		{"exit(;", diag.SynExpectExpression},
		{"}", diag.SynUnexpectedToken},
	}
	for _, tc := range cases {
		_, err := parseSource(t, tc.src)
		if err == nil {
			t.Errorf("%q: expected error", tc.src)
			continue
		}
		if got := diag.CodeOf(err); got != tc.code {
			t.Errorf("%q: code %s, want %s (%v)", tc.src, got.ID(), tc.code.ID(), err)
		}
	}
}

func TestErrorCarriesContext(t *testing.T) {
	_, err := parseSource(t, "while x > 0 {\n  let y: u8 = 1\n}")
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("err = %v", err)
	}
	if de.Code() != diag.SynExpectSemicolon {
		t.Errorf("code = %s", de.Code().ID())
	}
	if len(de.Diag.Notes) != 1 || de.Diag.Notes[0].Msg != "in variable declaration" {
		t.Errorf("notes = %+v", de.Diag.Notes)
	}
}

func TestReporterReceivesFailure(t *testing.T) {
	fs := source.NewFileSet()
	toks, err := lexer.Tokenize(fs.Get(fs.AddVirtual("t.em", []byte("break"))), lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(4)
	if _, err := parser.Parse(toks, parser.Options{Reporter: diag.BagReporter{Bag: bag}}); err == nil {
		t.Fatal("expected error")
	}
	if bag.Len() != 1 {
		t.Errorf("bag len = %d", bag.Len())
	}
}

func ident(text string) token.Token { return token.Token{Kind: token.Ident, Text: text} }
func intLit(text string) ast.Expr   { return &ast.IntLit{Tok: token.Token{Kind: token.IntLit, Text: text}} }
func name(text string) ast.Expr     { return &ast.Ident{Tok: ident(text)} }
func op(k token.Kind) token.Token   { return token.Token{Kind: k} }
func ptr[T any](v T) *T             { return &v }

func bin(k token.Kind, lhs, rhs ast.Expr) ast.Expr {
	return &ast.BinaryExpr{Op: op(k), Lhs: lhs, Rhs: rhs}
}
