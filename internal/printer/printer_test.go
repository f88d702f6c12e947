package printer

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/wabbit-lang/wabbit/internal/parser"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func mustParse(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().Error())
	}
	return New(DefaultOptions()).Print(prog)
}

// roundTrip re-parses printed output and checks it parses cleanly with no
// errors, the contract spec.md §8 asks of the printer.
func roundTrip(t *testing.T, printed string) {
	t.Helper()
	p := parser.New(printed)
	p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("printed output failed to re-parse: %s\n---\n%s", p.Errors().Error(), printed)
	}
}

func TestPrint_Seed1_Arithmetic(t *testing.T) {
	out := mustParse(t, `func main() { print 3 + 4 * -5; }`)
	roundTrip(t, out)
	snaps.MatchSnapshot(t, out)
}

func TestPrint_Seed3_IfElse(t *testing.T) {
	out := mustParse(t, `
		func main() {
			var a int = 2;
			var b int = 3;
			if a < b { print a; } else { print b; }
		}
	`)
	roundTrip(t, out)
	snaps.MatchSnapshot(t, out)
}

func TestPrint_Seed4_WhileLoop(t *testing.T) {
	out := mustParse(t, `
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
	roundTrip(t, out)
	snaps.MatchSnapshot(t, out)
}

func TestPrint_Seed7_RecursiveFactorial(t *testing.T) {
	out := mustParse(t, `
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
	roundTrip(t, out)
	snaps.MatchSnapshot(t, out)
}

func TestPrint_ParenthesesPreserveGrouping(t *testing.T) {
	out := mustParse(t, `func main() { print (1 + 2) * 3; }`)
	roundTrip(t, out)
	snaps.MatchSnapshot(t, out)
}

func TestPrint_CompoundExprSwap(t *testing.T) {
	out := mustParse(t, `
		func main() {
			var x int = 42;
			var y int = 37;
			x = { var t = y; y = x; t };
			print x;
			print y;
		}
	`)
	roundTrip(t, out)
	snaps.MatchSnapshot(t, out)
}
