package testkit_test

import (
	"testing"

	"ember/internal/ast"
	"ember/internal/lexer"
	"ember/internal/parser"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/testkit"
)

const program = `let mut i: u32 = 0;
fn twice(a: u32) -> u32 { return a; }
while i < 10 {
    if i == 3 { i += 2; } else if i == 7 { break; } else { i += 1; }
    { let t: u8 = 1; }
}
exit(i);
`

func parseProgram(t *testing.T, src string) (*ast.Program, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("spans.em", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	prog, err := parser.Parse(toks, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return prog, file
}

func TestParsedSpansHold(t *testing.T) {
	prog, file := parseProgram(t, program)
	if err := testkit.CheckSpanInvariants(prog, file); err != nil {
		t.Fatal(err)
	}
}

func TestCheckedSpansHold(t *testing.T) {
	prog, file := parseProgram(t, "let x: u8 = 1;\n{ let y: u8 = x; exit(y); }\n")
	if _, err := sema.Check(prog, sema.Options{}); err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckSpanInvariants(prog, file); err != nil {
		t.Fatal(err)
	}
}

func TestDetectsOverlap(t *testing.T) {
	prog, file := parseProgram(t, "exit(1);\nexit(2);\n")
	second := prog.Stmts[1].(*ast.Exit)
	second.Loc.Start = 0
	if err := testkit.CheckSpanInvariants(prog, file); err == nil {
		t.Error("overlap not detected")
	}
}

func TestDetectsEscape(t *testing.T) {
	prog, file := parseProgram(t, "exit(1);")
	prog.Stmts[0].(*ast.Exit).Loc.End = 100
	if err := testkit.CheckSpanInvariants(prog, file); err == nil {
		t.Error("span beyond content not detected")
	}
}
