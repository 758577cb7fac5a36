package parser

import (
	"testing"

	"github.com/quest-lang/quest/internal/ast"
)

func parseOneExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	p, err := New("test.qv", src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", src, err)
	}
	if len(program.Lines) != 1 || len(program.Lines[0].Exprs) != 1 {
		t.Fatalf("expected exactly one expression, got %#v", program.Lines)
	}
	return program.Lines[0].Exprs[0]
}

func TestParseProgram_InfixPrecedence(t *testing.T) {
	// `1 + 2 * 3` should bind as `1 + (2 * 3)`.
	expr := parseOneExpr(t, "1 + 2 * 3")
	top, ok := expr.(*ast.InfixExpr)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level `+`, got %#v", expr)
	}
	rhs, ok := top.Right.(*ast.InfixExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected `*` on the right of `+`, got %#v", top.Right)
	}
}

func TestParseProgram_DotAssignRewrite(t *testing.T) {
	// `a.b = c` rewrites to a DotAssignExpr, not a nested InfixExpr.
	expr := parseOneExpr(t, "a.b = c")
	da, ok := expr.(*ast.DotAssignExpr)
	if !ok {
		t.Fatalf("expected *ast.DotAssignExpr, got %#v", expr)
	}
	if _, ok := da.Recv.(*ast.Variable); !ok {
		t.Errorf("expected Recv to be a Variable, got %#v", da.Recv)
	}
}

func TestParseProgram_CallAndIndex(t *testing.T) {
	expr := parseOneExpr(t, "f(1, 2)")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %#v", expr)
	}
	if len(call.Arg.Lines) != 1 || len(call.Arg.Lines[0].Exprs) != 2 {
		t.Fatalf("expected two call arguments, got %#v", call.Arg.Lines)
	}

	expr = parseOneExpr(t, "a[0]")
	idx, ok := expr.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected *ast.IndexExpr, got %#v", expr)
	}
	if len(idx.Arg.Lines) != 1 || len(idx.Arg.Lines[0].Exprs) != 1 {
		t.Fatalf("expected one index argument, got %#v", idx.Arg.Lines)
	}
}

func TestParseProgram_BlockLiteralKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind byte
	}{
		{"{ 1 }", '{'},
		{"( 1 )", '('},
		{"[ 1 ]", '['},
	}
	for _, tt := range tests {
		expr := parseOneExpr(t, tt.src)
		b, ok := expr.(*ast.BlockLit)
		if !ok {
			t.Fatalf("%s: expected *ast.BlockLit, got %#v", tt.src, expr)
		}
		if b.Kind != tt.kind {
			t.Errorf("%s: Kind = %q, want %q", tt.src, b.Kind, tt.kind)
		}
	}
}

func TestParseProgram_StackPosLiteral(t *testing.T) {
	expr := parseOneExpr(t, ":2")
	sp, ok := expr.(*ast.StackPosLit)
	if !ok {
		t.Fatalf("expected *ast.StackPosLit, got %#v", expr)
	}
	if sp.Depth != 2 {
		t.Errorf("Depth = %d, want 2", sp.Depth)
	}
}
