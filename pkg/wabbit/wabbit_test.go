package wabbit

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Seed1_Arithmetic(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Run(`func main() { print 3 + 4 * -5; }`, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "-17" {
		t.Fatalf("got %q, want -17", got)
	}
}

func TestRun_ReturnsMainResult(t *testing.T) {
	var buf bytes.Buffer
	result, err := Run(`
		func factorial(n int) int {
			if n <= 1 { return 1; }
			return n * factorial(n - 1);
		}
		func main() int { return factorial(5); }
	`, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 120 {
		t.Fatalf("got %d, want 120", result)
	}
}

func TestRun_TypeErrorReported(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(`func main() { var x int = true; }`, &buf)
	if err == nil {
		t.Fatalf("expected a type error, got none")
	}
}

func TestCompileToC_ProducesCSource(t *testing.T) {
	out, err := CompileToC(`func main() { print 1 + 2; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "#include <stdio.h>") {
		t.Fatalf("expected a C translation unit, got: %s", out)
	}
}

func TestCompileToWasm_ProducesBinaryModule(t *testing.T) {
	out, err := CompileToWasm(`func main() { print 1 + 2; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	if len(out) < 8 || !bytes.Equal(out[:8], want) {
		t.Fatalf("expected a WASM binary module header, got %v", out)
	}
}

func TestFormat_RoundTripsParseableOutput(t *testing.T) {
	out, err := Format(`func main(){print 1+2;}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, diags := Parse(out); diags.HasErrors() {
		t.Fatalf("formatted output failed to re-parse: %s", diags.Error())
	}
}

func TestParseAndCheck_StopsAtParseErrors(t *testing.T) {
	_, diags, ok := ParseAndCheck(`func main() { print ; }`)
	if ok {
		t.Fatalf("expected a parse failure")
	}
	if !diags.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
}
