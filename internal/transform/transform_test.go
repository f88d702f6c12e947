package transform

import (
	"testing"

	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/types"
)

func checkedProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().Error())
	}
	if _, ok := types.Check(prog); !ok {
		t.Fatalf("program did not type-check")
	}
	return prog
}

func TestFold_ConstantArithmetic(t *testing.T) {
	prog := checkedProgram(t, `func main() { print 3 + 4 * -5; }`)
	out := Program(prog)

	fn := out.Items[0].(*ast.FuncDecl)
	print := fn.Body.Stmts[0].(*ast.PrintStmt)
	lit, ok := print.X.(*ast.IntegerLit)
	if !ok {
		t.Fatalf("expected folded IntegerLit, got %#v", print.X)
	}
	if lit.Value != -17 {
		t.Fatalf("got %d, want -17", lit.Value)
	}
	if lit.Type() != types.Int {
		t.Fatalf("folded literal lost its PType: %v", lit.Type())
	}
}

func TestFold_ConstDeclRemovedAndSubstituted(t *testing.T) {
	prog := checkedProgram(t, `
		func main() {
			const pi = 3.14159;
			const tau = 2.0 * pi;
			print tau;
		}
	`)
	out := Program(prog)

	fn := out.Items[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected both const decls folded away, got %d stmts", len(fn.Body.Stmts))
	}
	print := fn.Body.Stmts[0].(*ast.PrintStmt)
	lit, ok := print.X.(*ast.FloatLit)
	if !ok {
		t.Fatalf("expected folded FloatLit, got %#v", print.X)
	}
	if lit.Value != 6.28318 {
		t.Fatalf("got %v, want 6.28318", lit.Value)
	}
}

func TestFold_DeadWhileRemoved(t *testing.T) {
	prog := checkedProgram(t, `
		func main() {
			while false {
				print 1;
			}
			print 2;
		}
	`)
	out := Program(prog)
	fn := out.Items[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected dead while loop dropped, got %d stmts", len(fn.Body.Stmts))
	}
}

func TestFold_IfWithConstantConditionCollapses(t *testing.T) {
	prog := checkedProgram(t, `
		func main() {
			if true {
				print 1;
			} else {
				print 2;
			}
		}
	`)
	out := Program(prog)
	fn := out.Items[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected if collapsed to its taken branch, got %d stmts", len(fn.Body.Stmts))
	}
	print := fn.Body.Stmts[0].(*ast.PrintStmt)
	lit := print.X.(*ast.IntegerLit)
	if lit.Value != 1 {
		t.Fatalf("got %d, want the then-branch's print 1", lit.Value)
	}
}

func TestFold_PreservesSideEffectOrder(t *testing.T) {
	prog := checkedProgram(t, `
		func main() {
			print 1;
			print 2 + 3;
			print 4;
		}
	`)
	out := Program(prog)
	fn := out.Items[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("expected all three prints preserved in order, got %d", len(fn.Body.Stmts))
	}
}
