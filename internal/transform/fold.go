package transform

import (
	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/token"
	"github.com/wabbit-lang/wabbit/internal/types"
)

// Folded literals are freshly constructed nodes, so their PType slot (set
// by the checker on the originals they replace) has to be stamped again
// here — the type-soundness invariant of spec.md §3 must survive the
// transform pass, since cemit/wasmemit read PType off the transformed
// tree, not the pre-transform one.

func mkInt(pos token.Position, v int64) ast.Expr {
	lit := ast.NewIntegerLit(pos, v)
	lit.SetType(types.Int)
	return lit
}

func mkFloat(pos token.Position, v float64) ast.Expr {
	lit := ast.NewFloatLit(pos, v)
	lit.SetType(types.Float)
	return lit
}

func mkBool(pos token.Position, v bool) ast.Expr {
	lit := ast.NewBoolLit(pos, v)
	lit.SetType(types.Bool)
	return lit
}

// foldUnary evaluates a UnaryExpr whose operand is now a literal, leaving
// it untouched otherwise.
func foldUnary(u *ast.UnaryExpr) ast.Expr {
	switch x := u.X.(type) {
	case *ast.IntegerLit:
		switch u.Op {
		case ast.OpAdd:
			return x
		case ast.OpSub:
			return mkInt(u.Pos(), -x.Value)
		}
	case *ast.FloatLit:
		switch u.Op {
		case ast.OpAdd:
			return x
		case ast.OpSub:
			return mkFloat(u.Pos(), -x.Value)
		}
	case *ast.BoolLit:
		if u.Op == ast.OpNot {
			return mkBool(u.Pos(), !x.Value)
		}
	}
	return u
}

// foldBinaryLiteral evaluates a BinaryExpr whose operands are both now
// literals of the same kind, leaving it untouched otherwise (e.g. either
// operand is still a Location the checker resolved to a non-const, or a
// CallExpr).
func foldBinaryLiteral(b *ast.BinaryExpr) ast.Expr {
	switch l := b.Left.(type) {
	case *ast.IntegerLit:
		r, ok := b.Right.(*ast.IntegerLit)
		if !ok {
			return b
		}
		return foldIntBinary(b, l.Value, r.Value)
	case *ast.FloatLit:
		r, ok := b.Right.(*ast.FloatLit)
		if !ok {
			return b
		}
		return foldFloatBinary(b, l.Value, r.Value)
	case *ast.CharLit:
		r, ok := b.Right.(*ast.CharLit)
		if !ok {
			return b
		}
		return foldCharBinary(b, l.Value, r.Value)
	case *ast.BoolLit:
		r, ok := b.Right.(*ast.BoolLit)
		if !ok {
			return b
		}
		return foldBoolBinary(b, l.Value, r.Value)
	case *ast.UnitLit:
		if _, ok := b.Right.(*ast.UnitLit); !ok {
			return b
		}
		return foldUnitBinary(b)
	default:
		return b
	}
}

func foldIntBinary(b *ast.BinaryExpr, l, r int64) ast.Expr {
	switch b.Op {
	case ast.OpAdd:
		return mkInt(b.Pos(), l+r)
	case ast.OpSub:
		return mkInt(b.Pos(), l-r)
	case ast.OpMul:
		return mkInt(b.Pos(), l*r)
	case ast.OpDiv:
		if r == 0 {
			return b // defer to the interpreter/back-end's tolerant semantics
		}
		return mkInt(b.Pos(), l/r)
	case ast.OpLt:
		return mkBool(b.Pos(), l < r)
	case ast.OpLe:
		return mkBool(b.Pos(), l <= r)
	case ast.OpGt:
		return mkBool(b.Pos(), l > r)
	case ast.OpGe:
		return mkBool(b.Pos(), l >= r)
	case ast.OpEq:
		return mkBool(b.Pos(), l == r)
	case ast.OpNe:
		return mkBool(b.Pos(), l != r)
	default:
		return b
	}
}

func foldFloatBinary(b *ast.BinaryExpr, l, r float64) ast.Expr {
	switch b.Op {
	case ast.OpAdd:
		return mkFloat(b.Pos(), l+r)
	case ast.OpSub:
		return mkFloat(b.Pos(), l-r)
	case ast.OpMul:
		return mkFloat(b.Pos(), l*r)
	case ast.OpDiv:
		if r == 0 {
			return b
		}
		return mkFloat(b.Pos(), l/r)
	case ast.OpLt:
		return mkBool(b.Pos(), l < r)
	case ast.OpLe:
		return mkBool(b.Pos(), l <= r)
	case ast.OpGt:
		return mkBool(b.Pos(), l > r)
	case ast.OpGe:
		return mkBool(b.Pos(), l >= r)
	case ast.OpEq:
		return mkBool(b.Pos(), l == r)
	case ast.OpNe:
		return mkBool(b.Pos(), l != r)
	default:
		return b
	}
}

func foldCharBinary(b *ast.BinaryExpr, l, r byte) ast.Expr {
	switch b.Op {
	case ast.OpLt:
		return mkBool(b.Pos(), l < r)
	case ast.OpLe:
		return mkBool(b.Pos(), l <= r)
	case ast.OpGt:
		return mkBool(b.Pos(), l > r)
	case ast.OpGe:
		return mkBool(b.Pos(), l >= r)
	case ast.OpEq:
		return mkBool(b.Pos(), l == r)
	case ast.OpNe:
		return mkBool(b.Pos(), l != r)
	default:
		return b
	}
}

func foldBoolBinary(b *ast.BinaryExpr, l, r bool) ast.Expr {
	switch b.Op {
	case ast.OpEq:
		return mkBool(b.Pos(), l == r)
	case ast.OpNe:
		return mkBool(b.Pos(), l != r)
	case ast.OpAnd:
		return mkBool(b.Pos(), l && r)
	case ast.OpOr:
		return mkBool(b.Pos(), l || r)
	default:
		return b
	}
}

func foldUnitBinary(b *ast.BinaryExpr) ast.Expr {
	switch b.Op {
	case ast.OpEq:
		return mkBool(b.Pos(), true)
	case ast.OpNe:
		return mkBool(b.Pos(), false)
	default:
		return b
	}
}
