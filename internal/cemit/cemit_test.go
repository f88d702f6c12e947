package cemit

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/transform"
	"github.com/wabbit-lang/wabbit/internal/types"
)

func compileToC(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().Error())
	}
	if _, ok := types.Check(prog); !ok {
		t.Fatalf("program did not type-check")
	}
	optimized := transform.Program(prog)
	return Program(optimized)
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestCEmit_Seed1_Arithmetic(t *testing.T) {
	out := compileToC(t, `func main() { print 3 + 4 * -5; }`)
	snaps.MatchSnapshot(t, out)
}

func TestCEmit_Seed3_IfElse(t *testing.T) {
	out := compileToC(t, `
		func main() {
			var a int = 2;
			var b int = 3;
			if a < b { print a; } else { print b; }
		}
	`)
	snaps.MatchSnapshot(t, out)
}

func TestCEmit_Seed4_WhileLoop(t *testing.T) {
	out := compileToC(t, `
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
	snaps.MatchSnapshot(t, out)
}

func TestCEmit_Seed7_RecursiveFactorial(t *testing.T) {
	out := compileToC(t, `
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
	snaps.MatchSnapshot(t, out)
}

func TestCEmit_GlobalDeclarations(t *testing.T) {
	out := compileToC(t, `
		var counter int = 0;
		func main() {
			counter = counter + 1;
			print counter;
		}
	`)
	snaps.MatchSnapshot(t, out)
}

func TestCType_BoolAndUnitTranslation(t *testing.T) {
	if cType(types.Bool) != "int" {
		t.Fatalf("bool should translate to C int")
	}
	if cType(types.Unit) != "int*" {
		t.Fatalf("unit should translate to C int*")
	}
}
