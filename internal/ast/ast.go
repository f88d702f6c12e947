// Package ast defines the Wabbit abstract syntax tree (spec.md §3). Every
// node carries its source line number; expression nodes additionally carry
// a PType slot that the type checker fills in (internal/types.Type).
//
// Nodes are created once by the parser, have PType attached (and, during
// transform, children substituted) in place, and are read by every later
// pass. There is no separate node-identity side table: each node owns its
// own annotation slot, per spec.md §9.
package ast

import (
	"github.com/wabbit-lang/wabbit/internal/token"
	"github.com/wabbit-lang/wabbit/internal/types"
)

// Node is the common interface implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Expr is any node that produces a value. After a successful type check
// every Expr has a non-Unknown Type().
type Expr interface {
	Node
	Type() types.Type
	SetType(types.Type)
	exprNode()
}

// Stmt is any node appearing in statement position.
type Stmt interface {
	Node
	stmtNode()
}

// exprBase is embedded by every Expr implementation to provide position
// tracking and the mutable type-annotation slot.
type exprBase struct {
	Position token.Position
	PType    types.Type
}

func (e *exprBase) Pos() token.Position  { return e.Position }
func (e *exprBase) Type() types.Type     { return e.PType }
func (e *exprBase) SetType(t types.Type) { e.PType = t }
func (*exprBase) exprNode()              {}

// stmtBase is embedded by every Stmt implementation.
type stmtBase struct {
	Position token.Position
}

func (s *stmtBase) Pos() token.Position { return s.Position }
func (*stmtBase) stmtNode()             {}

// Item is a top-level declaration: a FuncDecl, VarDecl, or ConstDecl
// (spec.md §4.2 top_item). All three already implement Stmt.
type Item = Stmt

// Program is an ordered sequence of top-level items.
type Program struct {
	Items []Item
}
