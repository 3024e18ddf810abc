package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/types"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// ASTNodeOutput is one node of the JSON tree dump.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

// FormatASTPretty prints prog as a box-drawn tree. reg may be nil; it only
// improves type names of checked functions.
func FormatASTPretty(w io.Writer, prog *ast.Program, reg *types.Registry) error {
	if prog == nil {
		return fmt.Errorf("nil program")
	}
	root := &treeNode{label: fmt.Sprintf("Program (%d statements)", len(prog.Stmts))}
	for _, st := range prog.Stmts {
		root.children = append(root.children, stmtTree(st, reg))
	}
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	writeTree(&sb, root.children, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTree(sb *strings.Builder, nodes []*treeNode, prefix string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(n.label)
		sb.WriteByte('\n')
		writeTree(sb, n.children, prefix+next)
	}
}

func typeName(reg *types.Registry, id types.TypeID) string {
	if reg != nil {
		if t, ok := reg.Get(id); ok {
			return t.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func scopeTree(label string, scope *ast.Scope, reg *types.Registry) *treeNode {
	n := &treeNode{label: label}
	if scope == nil {
		return n
	}
	for _, st := range scope.Stmts {
		n.children = append(n.children, stmtTree(st, reg))
	}
	return n
}

func stmtTree(st ast.Stmt, reg *types.Registry) *treeNode {
	switch st := st.(type) {
	case *ast.VarDecl:
		ty := st.Type.Text
		if st.Pointer {
			ty = "^" + ty
		}
		label := fmt.Sprintf("VarDecl %s: %s", st.Name.Text, ty)
		if st.Mutable {
			label += " mut"
		}
		if st.Init != nil {
			label += " = " + ast.FormatExpr(st.Init)
		}
		return &treeNode{label: label}
	case *ast.VarSemantics:
		label := fmt.Sprintf("Var %s: %s width=%d offset=%d", st.Name.Text, typeName(reg, st.Type), st.Width, st.Offset)
		if st.Addr == types.AddrPointer {
			label += " pointer"
		}
		if st.Mutable {
			label += " mut"
		}
		if st.Init != nil {
			label += " = " + ast.FormatExpr(st.Init)
		}
		return &treeNode{label: label}
	case *ast.FnDecl:
		params := make([]string, len(st.Params))
		for i, p := range st.Params {
			params[i] = p.Name.Text + ": " + p.Type.Text
		}
		label := fmt.Sprintf("Fn %s(%s)", st.Name.Text, strings.Join(params, ", "))
		if st.Ret != nil {
			label += " -> " + st.Ret.Text
		}
		return scopeTree(label, st.Body, reg)
	case *ast.FnSemantics:
		params := make([]string, len(st.Params))
		for i, p := range st.Params {
			params[i] = p.Name.Text + ": " + typeName(reg, p.Type)
		}
		label := fmt.Sprintf("Fn %s(%s) -> %s", st.Name.Text, strings.Join(params, ", "), typeName(reg, st.Ret))
		return scopeTree(label, st.Body, reg)
	case *ast.If:
		n := &treeNode{label: "If " + ast.FormatExpr(st.Cond)}
		n.children = append(n.children, scopeTree("Then", st.Body, reg))
		for _, br := range st.Branches {
			n.children = append(n.children, stmtTree(br, reg))
		}
		return n
	case *ast.ElseIf:
		return scopeTree("ElseIf "+ast.FormatExpr(st.Cond), st.Body, reg)
	case *ast.Else:
		return scopeTree("Else", st.Body, reg)
	case *ast.While:
		return scopeTree("While "+ast.FormatExpr(st.Cond), st.Body, reg)
	case *ast.Assign:
		return &treeNode{label: fmt.Sprintf("Assign %s = %s", st.Name.Text, ast.FormatExpr(st.Value))}
	case *ast.Exit:
		return &treeNode{label: "Exit " + ast.FormatExpr(st.Value)}
	case *ast.NakedScope:
		return scopeTree("Scope", st.Body, reg)
	case *ast.Break:
		return &treeNode{label: "Break"}
	case *ast.Return:
		if st.Value == nil {
			return &treeNode{label: "Return"}
		}
		return &treeNode{label: "Return " + ast.FormatExpr(st.Value)}
	}
	return &treeNode{label: ast.StmtName(st)}
}

// FormatASTJSON writes prog as a JSON tree.
func FormatASTJSON(w io.Writer, prog *ast.Program) error {
	if prog == nil {
		return fmt.Errorf("nil program")
	}
	root := ASTNodeOutput{Type: "Program"}
	for _, st := range prog.Stmts {
		root.Children = append(root.Children, stmtJSON(st))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func scopeJSON(scope *ast.Scope) []ASTNodeOutput {
	if scope == nil {
		return nil
	}
	out := make([]ASTNodeOutput, 0, len(scope.Stmts))
	for _, st := range scope.Stmts {
		out = append(out, stmtJSON(st))
	}
	return out
}

func exprField(e ast.Expr) any {
	if e == nil {
		return nil
	}
	return ast.FormatExpr(e)
}

func stmtJSON(st ast.Stmt) ASTNodeOutput {
	node := ASTNodeOutput{Type: ast.StmtName(st)}
	if st != nil {
		node.Span = st.Span()
	}
	switch st := st.(type) {
	case *ast.VarDecl:
		node.Text = st.Name.Text
		node.Fields = map[string]any{"type": st.Type.Text, "mutable": st.Mutable, "pointer": st.Pointer, "init": exprField(st.Init)}
	case *ast.VarSemantics:
		node.Text = st.Name.Text
		node.Fields = map[string]any{
			"type": st.Type, "width": st.Width, "offset": st.Offset,
			"mutable": st.Mutable, "addr": st.Addr.String(), "init": exprField(st.Init),
		}
	case *ast.FnDecl:
		node.Text = st.Name.Text
		params := make([]string, len(st.Params))
		for i, p := range st.Params {
			params[i] = p.Name.Text + ": " + p.Type.Text
		}
		node.Fields = map[string]any{"params": params}
		if st.Ret != nil {
			node.Fields["ret"] = st.Ret.Text
		}
		node.Children = scopeJSON(st.Body)
	case *ast.FnSemantics:
		node.Text = st.Name.Text
		node.Fields = map[string]any{"params": len(st.Params), "ret": st.Ret}
		node.Children = scopeJSON(st.Body)
	case *ast.If:
		node.Fields = map[string]any{"cond": exprField(st.Cond)}
		node.Children = append(node.Children, ASTNodeOutput{Type: "Then", Span: st.Body.Loc, Children: scopeJSON(st.Body)})
		for _, br := range st.Branches {
			node.Children = append(node.Children, stmtJSON(br))
		}
	case *ast.ElseIf:
		node.Fields = map[string]any{"cond": exprField(st.Cond)}
		node.Children = scopeJSON(st.Body)
	case *ast.Else:
		node.Children = scopeJSON(st.Body)
	case *ast.While:
		node.Fields = map[string]any{"cond": exprField(st.Cond)}
		node.Children = scopeJSON(st.Body)
	case *ast.Assign:
		node.Text = st.Name.Text
		node.Fields = map[string]any{"value": exprField(st.Value)}
	case *ast.Exit:
		node.Fields = map[string]any{"value": exprField(st.Value)}
	case *ast.Return:
		node.Fields = map[string]any{"value": exprField(st.Value)}
	case *ast.NakedScope:
		node.Children = scopeJSON(st.Body)
	}
	return node
}
