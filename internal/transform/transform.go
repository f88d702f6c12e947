// Package transform implements Wabbit's optimizing pass: bottom-up
// constant folding and dead-code elimination over a type-checked AST
// (spec.md §4.5). It never reorders observable side effects.
package transform

import (
	"github.com/wabbit-lang/wabbit/internal/ast"
)

// env tracks constants folded so far, so a later Location referring to one
// can be substituted with its literal. It is a plain name->literal map
// rather than a scope stack: Wabbit's closed-set-of-primitives constants
// can't meaningfully shadow across the transform's single linear pass over
// a well-typed program the way the checker's scopes do, and spec.md §4.5
// only asks that folded consts be remembered, not reshadowed.
type env struct {
	consts map[string]ast.Expr
}

func newEnv() *env {
	return &env{consts: make(map[string]ast.Expr)}
}

// Program folds constants and eliminates dead code across every top-level
// item of prog, returning the transformed item list.
func Program(prog *ast.Program) *ast.Program {
	e := newEnv()
	out := &ast.Program{}
	for _, item := range prog.Items {
		if folded := e.item(item); folded != nil {
			out.Items = append(out.Items, folded)
		}
	}
	return out
}

func (e *env) item(item ast.Item) ast.Item {
	switch it := item.(type) {
	case *ast.FuncDecl:
		it.Body = e.block(it.Body)
		return it
	case *ast.ConstDecl:
		it.Value = e.expr(it.Value)
		if lit, ok := asLiteral(it.Value); ok {
			e.consts[it.Name] = lit
			return nil // folded away: later references substitute directly
		}
		return it
	case *ast.VarDecl:
		if it.Value != nil {
			it.Value = e.expr(it.Value)
		}
		return it
	default:
		return item
	}
}

// block folds every statement of b, dropping ones that disappear (a
// folded ConstDecl, an If that collapses to nothing, a While whose
// condition folds to false). Statements after a return, break or
// continue are kept as they are.
func (e *env) block(b *ast.Block) *ast.Block {
	var out []ast.Stmt
	for _, s := range b.Stmts {
		folded := e.stmt(s)
		if folded == nil {
			continue
		}
		// An If whose condition folded to a literal collapses to its
		// taken branch's statements (ifStmt below), wrapped in a Block
		// only so stmt() has a single value to return; splice its
		// contents in flat rather than nesting, since Wabbit's grammar
		// has no bare nested-block statement of its own.
		if inner, ok := folded.(*ast.Block); ok {
			out = append(out, inner.Stmts...)
			continue
		}
		out = append(out, folded)
	}
	b.Stmts = out
	return b
}

func (e *env) stmt(stmt ast.Stmt) ast.Stmt {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		s.X = e.expr(s.X)
		return s
	case *ast.ExprStmt:
		s.X = e.expr(s.X)
		return s
	case *ast.AssignStmt:
		s.Value = e.expr(s.Value)
		return s
	case *ast.VarDecl:
		if s.Value != nil {
			s.Value = e.expr(s.Value)
		}
		return s
	case *ast.ConstDecl:
		s.Value = e.expr(s.Value)
		if lit, ok := asLiteral(s.Value); ok {
			e.consts[s.Name] = lit
			return nil
		}
		return s
	case *ast.IfStmt:
		return e.ifStmt(s)
	case *ast.WhileStmt:
		return e.whileStmt(s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = e.expr(s.Value)
		}
		return s
	case *ast.FuncDecl:
		s.Body = e.block(s.Body)
		return s
	default:
		return stmt
	}
}

func (e *env) ifStmt(s *ast.IfStmt) ast.Stmt {
	s.Cond = e.expr(s.Cond)
	s.Then = e.block(s.Then)
	if s.Else != nil {
		s.Else = e.block(s.Else)
	}

	if b, ok := s.Cond.(*ast.BoolLit); ok {
		var taken *ast.Block
		if b.Value {
			taken = s.Then
		} else {
			taken = s.Else
		}
		if taken == nil || len(taken.Stmts) == 0 {
			return nil
		}
		// Splice the taken branch's statements in directly: the branch
		// collapses, not merely the condition.
		return ast.NewBlock(s.Pos(), taken.Stmts)
	}

	if len(s.Then.Stmts) == 0 {
		s.Then = nil
	}
	if s.Then == nil && s.Else == nil {
		return nil
	}
	if s.Then == nil {
		s.Then = ast.NewBlock(s.Pos(), nil)
	}
	return s
}

func (e *env) whileStmt(s *ast.WhileStmt) ast.Stmt {
	s.Cond = e.expr(s.Cond)
	if b, ok := s.Cond.(*ast.BoolLit); ok && !b.Value {
		return nil
	}
	s.Body = e.block(s.Body)
	return s
}

// expr folds x bottom-up, substituting literal-valued constants at
// Locations and evaluating BinOp/UnOp nodes whose operands are now all
// literal.
func (e *env) expr(x ast.Expr) ast.Expr {
	switch v := x.(type) {
	case *ast.Ident:
		if lit, ok := e.consts[v.Name]; ok {
			return lit
		}
		return v
	case *ast.UnaryExpr:
		v.X = e.expr(v.X)
		return foldUnary(v)
	case *ast.BinaryExpr:
		return e.foldBinary(v)
	case *ast.CallExpr:
		for i, a := range v.Args {
			v.Args[i] = e.expr(a)
		}
		return v
	case *ast.CompoundExpr:
		for i, s := range v.Stmts {
			v.Stmts[i] = e.stmt(s)
		}
		var compacted []ast.Stmt
		for _, s := range v.Stmts {
			if s == nil {
				continue
			}
			// Splice a collapsed If's Block flat, as block() does.
			if inner, ok := s.(*ast.Block); ok {
				compacted = append(compacted, inner.Stmts...)
				continue
			}
			compacted = append(compacted, s)
		}
		v.Stmts = compacted
		v.Result = e.expr(v.Result)
		return v
	default:
		return x // already a literal
	}
}

// foldBinary folds short-circuit operators as soon as the left operand
// alone is decisive, even if the right operand isn't foldable yet (e.g.
// `false && f()` folds to `false` without evaluating f()), matching
// spec.md §4.5.
func (e *env) foldBinary(b *ast.BinaryExpr) ast.Expr {
	b.Left = e.expr(b.Left)

	if lb, ok := b.Left.(*ast.BoolLit); ok {
		switch b.Op {
		case ast.OpAnd:
			if !lb.Value {
				return mkBool(b.Pos(), false)
			}
			b.Right = e.expr(b.Right)
			if rb, ok := b.Right.(*ast.BoolLit); ok {
				return mkBool(b.Pos(), rb.Value)
			}
			return b
		case ast.OpOr:
			if lb.Value {
				return mkBool(b.Pos(), true)
			}
			b.Right = e.expr(b.Right)
			if rb, ok := b.Right.(*ast.BoolLit); ok {
				return mkBool(b.Pos(), rb.Value)
			}
			return b
		}
	}

	b.Right = e.expr(b.Right)
	return foldBinaryLiteral(b)
}

func asLiteral(x ast.Expr) (ast.Expr, bool) {
	switch x.(type) {
	case *ast.IntegerLit, *ast.FloatLit, *ast.CharLit, *ast.BoolLit, *ast.UnitLit:
		return x, true
	default:
		return nil, false
	}
}
