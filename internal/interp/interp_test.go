package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/types"
)

func run(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().Error())
	}
	if _, ok := types.Check(prog); !ok {
		t.Fatalf("program did not type-check")
	}
	var buf bytes.Buffer
	i := New(WithOutput(&buf))
	if _, err := i.Run(prog); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	return buf.String()
}

func TestSeed1_ArithmeticPrecedence(t *testing.T) {
	got := run(t, `func main() { print 3 + 4 * -5; }`)
	if strings.TrimRight(got, "\n") != "-17" {
		t.Fatalf("got %q, want -17", got)
	}
}

func TestSeed2_ConstFolding(t *testing.T) {
	got := run(t, `
		func main() {
			const pi = 3.14159;
			const tau = 2.0 * pi;
			print tau;
		}
	`)
	if strings.TrimRight(got, "\n") != "6.28318" {
		t.Fatalf("got %q, want 6.28318", got)
	}
}

func TestSeed3_IfElse(t *testing.T) {
	got := run(t, `
		func main() {
			var a int = 2;
			var b int = 3;
			if a < b { print a; } else { print b; }
		}
	`)
	if strings.TrimRight(got, "\n") != "2" {
		t.Fatalf("got %q, want 2", got)
	}
}

func TestSeed4_Factorial(t *testing.T) {
	got := run(t, `
		func main() {
			const n = 10;
			var x int = 1;
			var fact int = 1;
			while x < n {
				fact = fact * x;
				print fact;
				x = x + 1;
			}
		}
	`)
	want := "1\n2\n6\n24\n120\n720\n5040\n40320\n362880\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSeed5_CompoundSwap(t *testing.T) {
	got := run(t, `
		func main() {
			var x = 37;
			var y = 42;
			x = { var t = y; y = x; t };
			print x;
			print y;
		}
	`)
	want := "42\n37\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSeed6_BreakContinue(t *testing.T) {
	got := run(t, `
		func main() {
			const n = 10;
			var x int = 0;
			while x < n {
				print x;
				if x == 1 { x = x + 2; continue; }
				if x == 7 { break; }
				x = x + 1;
			}
		}
	`)
	want := "0\n1\n3\n4\n5\n6\n7\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSeed7_RecursiveFactorial(t *testing.T) {
	p := parser.New(`
		func factorial(n int) int {
			if n <= 1 {
				return 1;
			}
			return n * factorial(n - 1);
		}
		func main() int {
			return factorial(5);
		}
	`)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().Error())
	}
	if _, ok := types.Check(prog); !ok {
		t.Fatalf("program did not type-check")
	}
	i := New()
	result, err := i.Run(prog)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if result != 120 {
		t.Fatalf("factorial(5) = %d, want 120", result)
	}
}

func TestDivisionByZero_IsTolerant(t *testing.T) {
	got := run(t, `
		func main() {
			var x int = 1;
			var zero int = 0;
			print x / zero;
		}
	`)
	if strings.TrimRight(got, "\n") != "9223372036854775807" {
		t.Fatalf("got %q, want INT_MAX", got)
	}
}

func TestPrint_CharHasNoNewline(t *testing.T) {
	got := run(t, `
		func main() {
			print 'a';
			print 'b';
		}
	`)
	if got != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestShortCircuit_AndSkipsRightOnFalse(t *testing.T) {
	got := run(t, `
		func sideEffect() bool { print 'x'; return true; }
		func main() {
			print false && sideEffect();
		}
	`)
	if strings.TrimRight(got, "\n") != "false" {
		t.Fatalf("got %q, want false", got)
	}
}

func TestMissingMain(t *testing.T) {
	p := parser.New(`const x = 1;`)
	prog := p.ParseProgram()
	i := New()
	_, err := i.Run(prog)
	if err == nil {
		t.Fatal("expected a missing entry point error")
	}
}
