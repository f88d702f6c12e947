// Package interp is a tree-walking evaluator for a type-checked Wabbit
// AST (spec.md §4.4). It never re-checks types; callers must run
// internal/types.Check first and only interpret programs that came back
// ok.
package interp

import (
	"fmt"
	"math"

	"github.com/wabbit-lang/wabbit/internal/types"
)

// Value is a runtime Wabbit value: a type tag plus payload. Literal AST
// nodes are not reused directly as runtime values (unlike the interpreter
// sketched in spec.md §4.4's prose) so that folding a constant during
// transform can't alias the value a running program observes; a Value is
// copied by assignment like any Go struct.
type Value struct {
	Type types.Type
	I    int64
	F    float64
	C    byte
	B    bool
}

func IntValue(v int64) Value   { return Value{Type: types.Int, I: v} }
func FloatValue(v float64) Value { return Value{Type: types.Float, F: v} }
func CharValue(v byte) Value   { return Value{Type: types.Char, C: v} }
func BoolValue(v bool) Value   { return Value{Type: types.Bool, B: v} }
func UnitValue() Value         { return Value{Type: types.Unit} }

// String renders v the way `print` does, without the trailing newline
// print itself appends for non-char values.
func (v Value) String() string {
	switch v.Type {
	case types.Int:
		return fmt.Sprintf("%d", v.I)
	case types.Float:
		return formatFloat(v.F)
	case types.Char:
		return string(v.C)
	case types.Bool:
		if v.B {
			return "true"
		}
		return "false"
	case types.Unit:
		return "()"
	default:
		return "?"
	}
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}

// IntMax and FloatMax are returned by division by zero (spec.md §4.4,
// §9 open question (a)): intentional tolerant behavior, not a trap.
const IntMax = math.MaxInt64

var FloatMax = math.MaxFloat64
