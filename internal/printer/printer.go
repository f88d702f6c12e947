// Package printer renders a Wabbit AST back to canonical source text
// (spec.md §4.2/§8). Re-lexing and re-parsing its output yields a
// structurally equivalent AST modulo line numbers, which is what the
// `wabbit fmt` subcommand and the printer's own round-trip tests rely on.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wabbit-lang/wabbit/internal/ast"
)

// Options controls the printer's indentation. Wabbit has a single
// canonical textual form, unlike the DWScript printer this is adapted
// from, so there is no separate output-format/style selector here.
type Options struct {
	IndentWidth int
	UseSpaces   bool
}

// DefaultOptions returns the printer's default style: four spaces.
func DefaultOptions() Options {
	return Options{IndentWidth: 4, UseSpaces: true}
}

// Printer holds the indentation configuration used across one Print call.
type Printer struct {
	opts Options
}

// New returns a Printer configured by opts.
func New(opts Options) *Printer {
	return &Printer{opts: opts}
}

// Print renders prog as Wabbit source text.
func (p *Printer) Print(prog *ast.Program) string {
	var sb strings.Builder
	for i, item := range prog.Items {
		if i > 0 {
			sb.WriteString("\n")
		}
		p.item(&sb, 0, item)
	}
	return sb.String()
}

func (p *Printer) indent(sb *strings.Builder, depth int) {
	unit := "\t"
	if p.opts.UseSpaces {
		unit = strings.Repeat(" ", p.opts.IndentWidth)
	}
	sb.WriteString(strings.Repeat(unit, depth))
}

func (p *Printer) item(sb *strings.Builder, depth int, item ast.Item) {
	switch it := item.(type) {
	case *ast.VarDecl:
		p.indent(sb, depth)
		p.varDecl(sb, it)
	case *ast.ConstDecl:
		p.indent(sb, depth)
		p.constDecl(sb, it)
	case *ast.FuncDecl:
		p.indent(sb, depth)
		p.funcDecl(sb, depth, it)
	default:
		p.stmt(sb, depth, item.(ast.Stmt))
	}
}

func (p *Printer) varDecl(sb *strings.Builder, v *ast.VarDecl) {
	sb.WriteString("var ")
	sb.WriteString(v.Name)
	if v.TypeName != "" {
		sb.WriteString(" ")
		sb.WriteString(v.TypeName)
	}
	if v.Value != nil {
		sb.WriteString(" = ")
		p.expr(sb, v.Value)
	}
	sb.WriteString(";\n")
}

func (p *Printer) constDecl(sb *strings.Builder, c *ast.ConstDecl) {
	sb.WriteString("const ")
	sb.WriteString(c.Name)
	if c.TypeName != "" {
		sb.WriteString(" ")
		sb.WriteString(c.TypeName)
	}
	sb.WriteString(" = ")
	p.expr(sb, c.Value)
	sb.WriteString(";\n")
}

func (p *Printer) funcDecl(sb *strings.Builder, depth int, f *ast.FuncDecl) {
	sb.WriteString("func ")
	sb.WriteString(f.Name)
	sb.WriteString("(")
	for i, param := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(param.Name)
		sb.WriteString(" ")
		sb.WriteString(param.TypeName)
	}
	sb.WriteString(")")
	if f.ReturnType != "" && f.ReturnType != "unit" {
		sb.WriteString(" ")
		sb.WriteString(f.ReturnType)
	}
	sb.WriteString(" ")
	p.block(sb, depth, f.Body)
	sb.WriteString("\n")
}

func (p *Printer) block(sb *strings.Builder, depth int, b *ast.Block) {
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		p.stmt(sb, depth+1, s)
	}
	p.indent(sb, depth)
	sb.WriteString("}")
}

func (p *Printer) stmt(sb *strings.Builder, depth int, stmt ast.Stmt) {
	p.indent(sb, depth)
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		sb.WriteString("print ")
		p.expr(sb, s.X)
		sb.WriteString(";\n")
	case *ast.ExprStmt:
		p.expr(sb, s.X)
		sb.WriteString(";\n")
	case *ast.AssignStmt:
		sb.WriteString(s.Name)
		sb.WriteString(" = ")
		p.expr(sb, s.Value)
		sb.WriteString(";\n")
	case *ast.VarDecl:
		p.varDecl(sb, s)
	case *ast.ConstDecl:
		p.constDecl(sb, s)
	case *ast.FuncDecl:
		p.funcDecl(sb, depth, s)
	case *ast.IfStmt:
		p.ifStmt(sb, depth, s)
	case *ast.WhileStmt:
		p.whileStmt(sb, depth, s)
	case *ast.BreakStmt:
		sb.WriteString("break;\n")
	case *ast.ContinueStmt:
		sb.WriteString("continue;\n")
	case *ast.ReturnStmt:
		sb.WriteString("return")
		if s.Value != nil {
			sb.WriteString(" ")
			p.expr(sb, s.Value)
		}
		sb.WriteString(";\n")
	case *ast.Block:
		// Printed only by the transform pass's intermediate splicing;
		// it never survives into real source, but render it inline for
		// safety rather than panicking on an unexpected case.
		for _, inner := range s.Stmts {
			p.stmt(sb, depth, inner)
		}
	}
}

func (p *Printer) ifStmt(sb *strings.Builder, depth int, s *ast.IfStmt) {
	sb.WriteString("if ")
	p.expr(sb, s.Cond)
	sb.WriteString(" ")
	p.block(sb, depth, s.Then)
	if s.Else != nil {
		sb.WriteString(" else ")
		p.block(sb, depth, s.Else)
	}
	sb.WriteString("\n")
}

func (p *Printer) whileStmt(sb *strings.Builder, depth int, s *ast.WhileStmt) {
	sb.WriteString("while ")
	p.expr(sb, s.Cond)
	sb.WriteString(" ")
	p.block(sb, depth, s.Body)
	sb.WriteString("\n")
}

// precedence mirrors the parser's tier order (spec.md §4.2): higher
// binds tighter. Atoms (literals, locations, calls, parens) are always
// 100, so they never gain redundant parentheses.
func precedence(op ast.Operator) int {
	switch op {
	case ast.OpOr:
		return 1
	case ast.OpAnd:
		return 2
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		return 3
	case ast.OpAdd, ast.OpSub:
		return 4
	case ast.OpMul, ast.OpDiv:
		return 5
	default:
		return 100
	}
}

func (p *Printer) expr(sb *strings.Builder, x ast.Expr) {
	p.exprPrec(sb, x, 0)
}

// exprPrec renders x, wrapping it in parentheses if its own precedence
// is lower than minPrec (the precedence of the context it sits in) —
// the grammar is strictly left-associative, so a right operand whose
// precedence equals its parent's also needs parens to preserve grouping.
func (p *Printer) exprPrec(sb *strings.Builder, x ast.Expr, minPrec int) {
	switch e := x.(type) {
	case *ast.IntegerLit:
		sb.WriteString(strconv.FormatInt(e.Value, 10))
	case *ast.FloatLit:
		// Fixed notation with a '.' always present, so the literal
		// re-lexes as a FLOAT, never as an INTEGER or an exponent form.
		s := strconv.FormatFloat(e.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		sb.WriteString(s)
	case *ast.CharLit:
		sb.WriteString(charLiteral(e.Value))
	case *ast.BoolLit:
		if e.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case *ast.UnitLit:
		sb.WriteString("()")
	case *ast.Ident:
		sb.WriteString(e.Name)
	case *ast.UnaryExpr:
		sb.WriteString(string(e.Op))
		p.exprPrec(sb, e.X, 6)
	case *ast.BinaryExpr:
		prec := precedence(e.Op)
		open := prec < minPrec
		if open {
			sb.WriteString("(")
		}
		p.exprPrec(sb, e.Left, prec)
		sb.WriteString(" ")
		sb.WriteString(string(e.Op))
		sb.WriteString(" ")
		p.exprPrec(sb, e.Right, prec+1)
		if open {
			sb.WriteString(")")
		}
	case *ast.CallExpr:
		sb.WriteString(e.Name)
		sb.WriteString("(")
		for i, a := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.expr(sb, a)
		}
		sb.WriteString(")")
	case *ast.CompoundExpr:
		sb.WriteString("{ ")
		for _, s := range e.Stmts {
			p.stmtInline(sb, s)
		}
		p.expr(sb, e.Result)
		sb.WriteString(" }")
	default:
		sb.WriteString(fmt.Sprintf("/* unknown expr %T */", x))
	}
}

// stmtInline renders one compound-expression leading statement. Print,
// expression, assignment and declaration statements stay on one line;
// any other statement (if, while, break, continue, return) is rendered in
// its multi-line form by stmt.
func (p *Printer) stmtInline(sb *strings.Builder, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		sb.WriteString("print ")
		p.expr(sb, s.X)
		sb.WriteString("; ")
	case *ast.ExprStmt:
		p.expr(sb, s.X)
		sb.WriteString("; ")
	case *ast.AssignStmt:
		sb.WriteString(s.Name)
		sb.WriteString(" = ")
		p.expr(sb, s.Value)
		sb.WriteString("; ")
	case *ast.VarDecl:
		sb.WriteString("var ")
		sb.WriteString(s.Name)
		if s.TypeName != "" {
			sb.WriteString(" ")
			sb.WriteString(s.TypeName)
		}
		if s.Value != nil {
			sb.WriteString(" = ")
			p.expr(sb, s.Value)
		}
		sb.WriteString("; ")
	case *ast.ConstDecl:
		sb.WriteString("const ")
		sb.WriteString(s.Name)
		if s.TypeName != "" {
			sb.WriteString(" ")
			sb.WriteString(s.TypeName)
		}
		sb.WriteString(" = ")
		p.expr(sb, s.Value)
		sb.WriteString("; ")
	default:
		p.stmt(sb, 0, s)
	}
}

func charLiteral(b byte) string {
	switch b {
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\'':
		return `'\''`
	default:
		// The lexer has no `\\` escape and ends a char literal at a NUL
		// byte, so a backslash and any non-printable byte use `\xHH`.
		if b == '\\' || b < 0x20 || b >= 0x7f {
			return fmt.Sprintf(`'\x%02x'`, b)
		}
		return fmt.Sprintf("'%c'", b)
	}
}
