// Package testkit holds structural checks shared by pipeline tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/ast"
	"ember/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed program:
// 1) every statement span is non-empty, points at sf and lies within its content
// 2) nested scopes and branches are contained in their parent statement
// 3) sibling statements appear in source order without overlapping
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	root := source.Span{File: sf.ID, Start: 0, End: lenContent}
	return checkList(prog.Stmts, root, sf.ID)
}

func checkList(stmts []ast.Stmt, parent source.Span, file source.FileID) error {
	var prev source.Span
	for i, st := range stmts {
		if st == nil {
			return fmt.Errorf("nil statement at index %d", i)
		}
		sp := st.Span()
		if err := checkSpan(ast.StmtName(st), sp, parent, file); err != nil {
			return err
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("%s %v overlaps previous statement %v", ast.StmtName(st), sp, prev)
		}
		prev = sp
		if err := checkChildren(st, sp, file); err != nil {
			return err
		}
	}
	return nil
}

func checkSpan(what string, sp, parent source.Span, file source.FileID) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("%s has empty span %v", what, sp)
	}
	if sp.File != file {
		return fmt.Errorf("%s span points to different file id: got=%d want=%d", what, sp.File, file)
	}
	if sp.Start < parent.Start || sp.End > parent.End {
		return fmt.Errorf("%s span %v escapes parent %v", what, sp, parent)
	}
	return nil
}

func checkScope(scope *ast.Scope, parent source.Span, file source.FileID) error {
	if scope == nil {
		return fmt.Errorf("nil scope inside %v", parent)
	}
	if err := checkSpan("Scope", scope.Loc, parent, file); err != nil {
		return err
	}
	return checkList(scope.Stmts, scope.Loc, file)
}

func checkChildren(st ast.Stmt, sp source.Span, file source.FileID) error {
	switch n := st.(type) {
	case *ast.FnDecl:
		return checkScope(n.Body, sp, file)
	case *ast.FnSemantics:
		return checkScope(n.Body, sp, file)
	case *ast.While:
		return checkScope(n.Body, sp, file)
	case *ast.NakedScope:
		return checkList(n.Body.Stmts, n.Body.Loc, file)
	case *ast.ElseIf:
		return checkScope(n.Body, sp, file)
	case *ast.Else:
		return checkScope(n.Body, sp, file)
	case *ast.If:
		if err := checkScope(n.Body, sp, file); err != nil {
			return err
		}
		prev := n.Body.Loc
		for _, br := range n.Branches {
			bsp := br.Span()
			if err := checkSpan(ast.StmtName(br), bsp, sp, file); err != nil {
				return err
			}
			if bsp.Start < prev.End {
				return fmt.Errorf("%s %v starts before %v ends", ast.StmtName(br), bsp, prev)
			}
			prev = bsp
			if err := checkChildren(br, bsp, file); err != nil {
				return err
			}
		}
	}
	return nil
}
