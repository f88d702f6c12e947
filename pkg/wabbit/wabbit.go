// Package wabbit is the public entry point for embedding the Wabbit
// toolchain: parse, type-check, interpret, and compile to C or WASM from
// a single call each, without reaching into internal/* directly.
package wabbit

import (
	"fmt"
	"io"

	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/cemit"
	"github.com/wabbit-lang/wabbit/internal/errors"
	"github.com/wabbit-lang/wabbit/internal/interp"
	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/transform"
	"github.com/wabbit-lang/wabbit/internal/types"
	"github.com/wabbit-lang/wabbit/internal/printer"
	"github.com/wabbit-lang/wabbit/internal/wasmemit"
)

// Diagnostics is an ordered set of compiler messages from any pipeline
// stage; it implements error, so a failing call can be used directly as
// one.
type Diagnostics = errors.List

// Parse lexes and parses src, returning its AST and any diagnostics.
// Diagnostics.HasErrors() reports whether the parse failed; prog may
// still be partially built even when it did, since the parser never
// stops at the first error (spec.md §7).
func Parse(src string) (*ast.Program, Diagnostics) {
	p := parser.New(src)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

// Check type-checks prog in place, annotating every expression node with
// its PType. It returns the accumulated diagnostics and whether the
// program is well-typed.
func Check(prog *ast.Program) (Diagnostics, bool) {
	return types.Check(prog)
}

// ParseAndCheck runs Parse followed by Check, short-circuiting after a
// failed parse so Check never runs over a malformed tree.
func ParseAndCheck(src string) (*ast.Program, Diagnostics, bool) {
	prog, diags := Parse(src)
	if diags.HasErrors() {
		return prog, diags, false
	}
	checkDiags, ok := Check(prog)
	return prog, checkDiags, ok
}

// Run parses, type-checks, and interprets src, writing any `print`
// output to out and returning main's integer result (spec.md §4.4).
func Run(src string, out io.Writer) (int64, error) {
	prog, diags, ok := ParseAndCheck(src)
	if !ok {
		return 0, fmt.Errorf("%s", diags.Error())
	}
	i := interp.New(interp.WithOutput(out))
	return i.Run(prog)
}

// CompileToC parses, type-checks, optimizes, and lowers src to a single
// C translation unit (spec.md §4.6).
func CompileToC(src string) (string, error) {
	prog, diags, ok := ParseAndCheck(src)
	if !ok {
		return "", fmt.Errorf("%s", diags.Error())
	}
	optimized := transform.Program(prog)
	return cemit.Program(optimized), nil
}

// CompileToWasm parses, type-checks, optimizes, and lowers src to a
// binary WASM module (spec.md §4.7).
func CompileToWasm(src string) ([]byte, error) {
	prog, diags, ok := ParseAndCheck(src)
	if !ok {
		return nil, fmt.Errorf("%s", diags.Error())
	}
	optimized := transform.Program(prog)
	return wasmemit.Program(optimized), nil
}

// Format parses src and renders it back out in canonical form (spec.md
// §8). It does not require src to type-check, only to parse.
func Format(src string) (string, error) {
	prog, diags := Parse(src)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s", diags.Error())
	}
	return printer.New(printer.DefaultOptions()).Print(prog), nil
}
