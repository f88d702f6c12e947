package parser

import (
	"testing"

	"github.com/wabbit-lang/wabbit/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %s", src, p.Errors().Error())
	}
	return prog
}

func TestParseProgram_VarAndConst(t *testing.T) {
	prog := mustParse(t, `
		var a int = 2;
		const pi = 3.14159;
	`)
	if len(prog.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(prog.Items))
	}
	v, ok := prog.Items[0].(*ast.VarDecl)
	if !ok || v.Name != "a" || v.TypeName != "int" {
		t.Fatalf("unexpected first item: %#v", prog.Items[0])
	}
	c, ok := prog.Items[1].(*ast.ConstDecl)
	if !ok || c.Name != "pi" {
		t.Fatalf("unexpected second item: %#v", prog.Items[1])
	}
}

func TestParseProgram_FuncDecl(t *testing.T) {
	prog := mustParse(t, `
		func add(x int, y int) int {
			return x + y;
		}
	`)
	f, ok := prog.Items[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %#v", prog.Items[0])
	}
	if f.Name != "add" || len(f.Params) != 2 || f.ReturnType != "int" {
		t.Fatalf("unexpected func decl: %#v", f)
	}
	if f.Params[0].Name != "x" || f.Params[0].TypeName != "int" {
		t.Fatalf("unexpected param 0: %#v", f.Params[0])
	}
}

func TestParseProgram_FuncDeclDefaultsToUnit(t *testing.T) {
	prog := mustParse(t, `func main() { print 1; }`)
	f := prog.Items[0].(*ast.FuncDecl)
	if f.ReturnType != "unit" {
		t.Fatalf("expected implicit unit return type, got %q", f.ReturnType)
	}
}

func TestExpr_OperatorPrecedence(t *testing.T) {
	// 3 + 4 * -5 should parse as 3 + (4 * (-5))
	prog := mustParse(t, `func main() int { return 3 + 4 * -5; }`)
	f := prog.Items[0].(*ast.FuncDecl)
	ret := f.Body.Stmts[0].(*ast.ReturnStmt)
	add, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("expected top-level +, got %#v", ret.Value)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("expected right side of + to be *, got %#v", add.Right)
	}
	neg, ok := mul.Right.(*ast.UnaryExpr)
	if !ok || neg.Op != ast.OpSub {
		t.Fatalf("expected right side of * to be unary -, got %#v", mul.Right)
	}
}

func TestExpr_LeftAssociativity(t *testing.T) {
	// 10 - 3 - 2 should parse as (10 - 3) - 2
	prog := mustParse(t, `func main() int { return 10 - 3 - 2; }`)
	f := prog.Items[0].(*ast.FuncDecl)
	ret := f.Body.Stmts[0].(*ast.ReturnStmt)
	outer, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || outer.Op != ast.OpSub {
		t.Fatalf("expected outer -, got %#v", ret.Value)
	}
	inner, ok := outer.Left.(*ast.BinaryExpr)
	if !ok || inner.Op != ast.OpSub {
		t.Fatalf("expected left-associative nesting, got %#v", outer.Left)
	}
	if _, ok := outer.Right.(*ast.IntegerLit); !ok {
		t.Fatalf("expected right operand to be a literal, got %#v", outer.Right)
	}
}

func TestParseCompoundExpr(t *testing.T) {
	prog := mustParse(t, `
		func main() int {
			var x = 37;
			var y = 42;
			x = { var t = y; y = x; t };
			return x;
		}
	`)
	f := prog.Items[0].(*ast.FuncDecl)
	assign := f.Body.Stmts[2].(*ast.AssignStmt)
	compound, ok := assign.Value.(*ast.CompoundExpr)
	if !ok {
		t.Fatalf("expected CompoundExpr, got %#v", assign.Value)
	}
	if len(compound.Stmts) != 2 {
		t.Fatalf("expected 2 leading statements, got %d", len(compound.Stmts))
	}
	if _, ok := compound.Result.(*ast.Ident); !ok {
		t.Fatalf("expected trailing Ident result, got %#v", compound.Result)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, `
		func main() {
			var a int = 2;
			var b int = 3;
			if a < b {
				print a;
			} else {
				print b;
			}
		}
	`)
	f := prog.Items[0].(*ast.FuncDecl)
	ifStmt := f.Body.Stmts[2].(*ast.IfStmt)
	if ifStmt.Else == nil {
		t.Fatal("expected else branch")
	}
}

func TestParseWhileBreakContinue(t *testing.T) {
	prog := mustParse(t, `
		func main() {
			var x int = 0;
			while x < 10 {
				if x == 1 { x = x + 2; continue; }
				if x == 7 { break; }
				x = x + 1;
			}
		}
	`)
	f := prog.Items[0].(*ast.FuncDecl)
	w := f.Body.Stmts[1].(*ast.WhileStmt)
	if len(w.Body.Stmts) != 3 {
		t.Fatalf("expected 3 statements in while body, got %d", len(w.Body.Stmts))
	}
}

func TestParseCallExpr(t *testing.T) {
	prog := mustParse(t, `
		func main() int {
			return factorial(5);
		}
	`)
	f := prog.Items[0].(*ast.FuncDecl)
	ret := f.Body.Stmts[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.CallExpr)
	if !ok || call.Name != "factorial" || len(call.Args) != 1 {
		t.Fatalf("unexpected call expr: %#v", ret.Value)
	}
}

func TestParseUnitLiteral(t *testing.T) {
	prog := mustParse(t, `var u = ();`)
	v := prog.Items[0].(*ast.VarDecl)
	if _, ok := v.Value.(*ast.UnitLit); !ok {
		t.Fatalf("expected UnitLit, got %#v", v.Value)
	}
}

func TestParseError_UnexpectedTopLevelToken(t *testing.T) {
	p := New(`123;`)
	p.ParseProgram()
	if !p.Errors().HasErrors() {
		t.Fatal("expected a parse error for a bare statement at top level")
	}
}

func TestParseError_MissingVarTypeOrValue(t *testing.T) {
	p := New(`var x;`)
	p.ParseProgram()
	if !p.Errors().HasErrors() {
		t.Fatal("expected an error for a var with neither type nor initializer")
	}
}
