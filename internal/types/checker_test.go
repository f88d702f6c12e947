package types

import (
	"testing"

	"github.com/wabbit-lang/wabbit/internal/parser"
)

func checkSrc(t *testing.T, src string) (ok bool, msgs []string) {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parse errors: %s", p.Errors().Error())
	}
	errs, ok := Check(prog)
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return ok, msgs
}

func TestCheck_WellTypedProgram(t *testing.T) {
	ok, msgs := checkSrc(t, `
		const n = 10;
		func factorial(x int) int {
			if x <= 1 {
				return 1;
			}
			return x * factorial(x - 1);
		}
		func main() int {
			return factorial(n);
		}
	`)
	if !ok {
		t.Fatalf("expected well-typed program, got errors: %v", msgs)
	}
}

func TestCheck_AssignToConst(t *testing.T) {
	ok, msgs := checkSrc(t, `
		func main() {
			const c = 1;
			c = 2;
		}
	`)
	if ok {
		t.Fatal("expected a type error assigning to a const")
	}
	if len(msgs) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
}

func TestCheck_InitializerTypeMismatch(t *testing.T) {
	ok, _ := checkSrc(t, `func main() { var a int = 5.5; }`)
	if ok {
		t.Fatal("expected a type error for int/float mismatch in initializer")
	}
}

func TestCheck_BreakOutsideLoop(t *testing.T) {
	ok, _ := checkSrc(t, `func main() { break; }`)
	if ok {
		t.Fatal("expected an error for break outside while")
	}
}

func TestCheck_IfConditionMustBeBool(t *testing.T) {
	ok, _ := checkSrc(t, `func main() { if () { } }`)
	if ok {
		t.Fatal("expected an error for a non-bool if condition")
	}
}

func TestCheck_UndefinedNameInCall(t *testing.T) {
	ok, _ := checkSrc(t, `func main() { print missing(); }`)
	if ok {
		t.Fatal("expected an error for a call to an undefined function")
	}
}

func TestCheck_Recursion(t *testing.T) {
	ok, msgs := checkSrc(t, `
		func even(n int) bool {
			if n == 0 { return true; }
			return odd(n - 1);
		}
		func odd(n int) bool {
			if n == 0 { return false; }
			return even(n - 1);
		}
		func main() bool { return even(10); }
	`)
	if !ok {
		t.Fatalf("expected mutual recursion to check out, got: %v", msgs)
	}
}

func TestCheck_ScopeShadowing(t *testing.T) {
	ok, msgs := checkSrc(t, `
		func main() int {
			var x int = 1;
			if true {
				var x int = 2;
				print x;
			}
			return x;
		}
	`)
	if !ok {
		t.Fatalf("expected shadowing in an inner scope to be legal, got: %v", msgs)
	}
}

func TestCheck_NestedFuncDefRejected(t *testing.T) {
	ok, _ := checkSrc(t, `
		func outer() {
			func inner() {}
		}
	`)
	if ok {
		t.Fatal("expected an error for a nested function definition")
	}
}

func TestCheck_ArityMismatch(t *testing.T) {
	ok, _ := checkSrc(t, `
		func add(x int, y int) int { return x + y; }
		func main() int { return add(1); }
	`)
	if ok {
		t.Fatal("expected an arity mismatch error")
	}
}

func TestCheck_CompoundExprType(t *testing.T) {
	ok, msgs := checkSrc(t, `
		func main() int {
			var x = 37;
			var y = 42;
			x = { var t = y; y = x; t };
			return x;
		}
	`)
	if !ok {
		t.Fatalf("expected compound expression assignment to check out, got: %v", msgs)
	}
}
