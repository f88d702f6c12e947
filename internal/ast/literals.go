package ast

import "github.com/wabbit-lang/wabbit/internal/token"

// IntegerLit is a 64-bit signed integer literal (spec.md §4.1).
type IntegerLit struct {
	exprBase
	Value int64
}

// FloatLit is an IEEE-754 64-bit float literal.
type FloatLit struct {
	exprBase
	Value float64
}

// CharLit is a single decoded character literal.
type CharLit struct {
	exprBase
	Value byte
}

// BoolLit is the `true` or `false` literal.
type BoolLit struct {
	exprBase
	Value bool
}

// UnitLit is the singleton `()` literal.
type UnitLit struct {
	exprBase
}

// Ident is a Location: a name referring to a binding.
type Ident struct {
	exprBase
	Name string
}

func NewIdent(pos token.Position, name string) *Ident {
	return &Ident{exprBase: exprBase{Position: pos}, Name: name}
}
