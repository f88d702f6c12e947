// Package cemit lowers a transformed, type-checked Wabbit AST to a single
// C translation unit (spec.md §4.6), grounded on the original course's
// c.py: SSA-style numbered temporaries, label/goto lowering of structured
// control flow, and format-specifier selection from the checked type.
package cemit

import (
	"fmt"
	"strings"

	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/types"
)

// ctx is the emitter's single mutable context: every counter and buffer a
// pass needs, passed by reference instead of living in package globals
// (spec.md §9 design note on the C emitter's counters).
type ctx struct {
	tempCounter  int
	labelCounter int

	globalDecls []string // pre-`main` global variable declarations
	tempDecls   []string // pre-`main` temporary declarations
	stmts       []string // the body of `main`, or of the function being emitted

	funcs []string // rendered standalone function definitions (not main)

	breakLabel    string
	continueLabel string
}

func newCtx() *ctx {
	return &ctx{}
}

func (c *ctx) newTemp(cType string) string {
	c.tempCounter++
	name := fmt.Sprintf("_t%d", c.tempCounter)
	c.tempDecls = append(c.tempDecls, fmt.Sprintf("\t%s %s;", cType, name))
	return name
}

func (c *ctx) newLabel() string {
	c.labelCounter++
	return fmt.Sprintf("L%d", c.labelCounter)
}

func (c *ctx) emit(stmt string) {
	c.stmts = append(c.stmts, "\t"+stmt)
}

func (c *ctx) emitLabel(label string) {
	c.stmts = append(c.stmts, label+":")
}

// cType maps a checked Wabbit type to its C rendering (spec.md §4.6:
// bool->int, unit->int*, else unchanged).
func cType(t types.Type) string {
	switch t {
	case types.Int:
		return "int"
	case types.Float:
		return "double"
	case types.Char:
		return "char"
	case types.Bool:
		return "int"
	case types.Unit:
		return "int*"
	default:
		return "int"
	}
}

// Program lowers prog (already transformed) to a complete C source string.
func Program(prog *ast.Program) string {
	c := newCtx()

	var funcDecls []*ast.FuncDecl
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.FuncDecl:
			funcDecls = append(funcDecls, it)
		case *ast.VarDecl:
			c.globalVarDecl(it)
		case *ast.ConstDecl:
			c.globalConstDecl(it)
		}
	}

	for _, fd := range funcDecls {
		if fd.Name == "main" {
			continue
		}
		c.funcs = append(c.funcs, c.emitFunc(fd))
	}

	var main *ast.FuncDecl
	for _, fd := range funcDecls {
		if fd.Name == "main" {
			main = fd
		}
	}
	if main != nil {
		c.block(main.Body)
	}

	var sb strings.Builder
	sb.WriteString("#include <stdio.h>\n")
	sb.WriteString("#include <limits.h>\n")
	sb.WriteString("#include <float.h>\n\n")
	for _, g := range c.globalDecls {
		sb.WriteString(g)
		sb.WriteString("\n")
	}
	if len(c.globalDecls) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(forwardDeclarations(funcDecls))

	for _, f := range c.funcs {
		sb.WriteString(f)
		sb.WriteString("\n\n")
	}

	sb.WriteString("int main(void) {\n")
	for _, d := range c.tempDecls {
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	for _, s := range c.stmts {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	sb.WriteString("\treturn 0;\n}\n")
	return sb.String()
}

func forwardDeclarations(funcs []*ast.FuncDecl) string {
	var sb strings.Builder
	for _, fd := range funcs {
		if fd.Name == "main" {
			continue
		}
		sb.WriteString(funcSignature(fd))
		sb.WriteString(";\n")
	}
	if len(funcs) > 1 {
		sb.WriteString("\n")
	}
	return sb.String()
}

func funcSignature(fd *ast.FuncDecl) string {
	retType, _ := types.Lookup(fd.ReturnType)
	var params []string
	for _, p := range fd.Params {
		pt, _ := types.Lookup(p.TypeName)
		params = append(params, fmt.Sprintf("%s %s", cType(pt), p.Name))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	return fmt.Sprintf("%s %s(%s)", cType(retType), fd.Name, strings.Join(params, ", "))
}

// emitFunc lowers one user-defined function to a standalone C function
// definition. It collects the function's own declarations and statements
// apart from main's, while the temp and label counters stay shared via c
// so generated names never collide across function boundaries (spec.md
// §4.6).
func (c *ctx) emitFunc(fd *ast.FuncDecl) string {
	savedDecls, savedStmts := c.tempDecls, c.stmts
	c.tempDecls, c.stmts = nil, nil

	c.block(fd.Body)

	body := c.stmts
	decls := c.tempDecls
	c.tempDecls, c.stmts = savedDecls, savedStmts

	var sb strings.Builder
	sb.WriteString(funcSignature(fd))
	sb.WriteString(" {\n")
	for _, d := range decls {
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	for _, s := range body {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (c *ctx) globalVarDecl(v *ast.VarDecl) {
	t := declaredType(v)
	c.globalDecls = append(c.globalDecls, fmt.Sprintf("%s %s;", cType(t), v.Name))
	if v.Value != nil {
		val := c.expr(v.Value)
		c.emit(fmt.Sprintf("%s = %s;", v.Name, val))
	}
}

func (c *ctx) globalConstDecl(cd *ast.ConstDecl) {
	t := cd.Value.Type()
	c.globalDecls = append(c.globalDecls, fmt.Sprintf("%s %s;", cType(t), cd.Name))
	val := c.expr(cd.Value)
	c.emit(fmt.Sprintf("%s = %s;", cd.Name, val))
}

func (c *ctx) block(b *ast.Block) {
	for _, stmt := range b.Stmts {
		c.stmt(stmt)
	}
}

func (c *ctx) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		c.printStmt(s)
	case *ast.ExprStmt:
		c.expr(s.X)
	case *ast.VarDecl:
		c.localVarDecl(s)
	case *ast.ConstDecl:
		c.localConstDecl(s)
	case *ast.AssignStmt:
		val := c.expr(s.Value)
		c.emit(fmt.Sprintf("%s = %s;", s.Name, val))
	case *ast.IfStmt:
		c.ifStmt(s)
	case *ast.WhileStmt:
		c.whileStmt(s)
	case *ast.BreakStmt:
		c.emit(fmt.Sprintf("goto %s;", c.breakLabel))
	case *ast.ContinueStmt:
		c.emit(fmt.Sprintf("goto %s;", c.continueLabel))
	case *ast.ReturnStmt:
		if s.Value == nil {
			c.emit("return NULL;") // unit is NULL in C
			return
		}
		val := c.expr(s.Value)
		c.emit(fmt.Sprintf("return %s;", val))
	}
}

// localVarDecl and localConstDecl declare into tempDecls rather than
// globalDecls: they're scoped to whichever function (or main) is
// currently being lowered, which emitFunc saves/restores per function, so
// two functions declaring a same-named local don't collide at file scope.
func (c *ctx) localVarDecl(v *ast.VarDecl) {
	t := declaredType(v)
	c.tempDecls = append(c.tempDecls, fmt.Sprintf("\t%s %s;", cType(t), v.Name))
	if v.Value != nil {
		val := c.expr(v.Value)
		c.emit(fmt.Sprintf("%s = %s;", v.Name, val))
	}
}

func (c *ctx) localConstDecl(cd *ast.ConstDecl) {
	c.tempDecls = append(c.tempDecls, fmt.Sprintf("\t%s %s;", cType(cd.Value.Type()), cd.Name))
	val := c.expr(cd.Value)
	c.emit(fmt.Sprintf("%s = %s;", cd.Name, val))
}

// declaredType resolves a VarDecl's declared type, falling back to its
// initializer's checked type when the declaration omitted one.
func declaredType(v *ast.VarDecl) types.Type {
	if v.TypeName != "" {
		if t, ok := types.Lookup(v.TypeName); ok {
			return t
		}
	}
	if v.Value != nil {
		return v.Value.Type()
	}
	return types.Unit
}

func (c *ctx) printStmt(p *ast.PrintStmt) {
	val := c.expr(p.X)
	t := p.X.Type()
	if t == types.Unit {
		c.emit(`printf("()\n");`)
		return
	}
	spec, suffix := formatSpecifier(t)
	c.emit(fmt.Sprintf(`printf("%%%s%s", %s);`, spec, suffix, val))
}

func formatSpecifier(t types.Type) (spec, suffix string) {
	switch t {
	case types.Char:
		return "c", ""
	case types.Float:
		return "f", `\n`
	default: // int, bool
		return "d", `\n`
	}
}

func (c *ctx) ifStmt(i *ast.IfStmt) {
	trueL := c.newLabel()
	var falseL string
	if i.Else != nil {
		falseL = c.newLabel()
	}
	joinL := c.newLabel()

	cmp := c.expr(i.Cond)
	c.emit(fmt.Sprintf("if (%s) goto %s;", cmp, trueL))
	if i.Else != nil {
		c.emit(fmt.Sprintf("goto %s;", falseL))
	} else {
		c.emit(fmt.Sprintf("goto %s;", joinL))
	}

	c.emitLabel(trueL)
	c.block(i.Then)
	c.emit(fmt.Sprintf("goto %s;", joinL))

	if i.Else != nil {
		c.emitLabel(falseL)
		c.block(i.Else)
		c.emit(fmt.Sprintf("goto %s;", joinL))
	}

	c.emitLabel(joinL)
}

func (c *ctx) whileStmt(w *ast.WhileStmt) {
	condL := c.newLabel()
	bodyL := c.newLabel()
	exitL := c.newLabel()

	savedBreak, savedContinue := c.breakLabel, c.continueLabel
	c.breakLabel, c.continueLabel = exitL, condL

	c.emitLabel(condL)
	cmp := c.expr(w.Cond)
	c.emit(fmt.Sprintf("if (%s) goto %s;", cmp, bodyL))
	c.emit(fmt.Sprintf("goto %s;", exitL))

	c.emitLabel(bodyL)
	c.block(w.Body)
	c.emit(fmt.Sprintf("goto %s;", condL))

	c.emitLabel(exitL)

	c.breakLabel, c.continueLabel = savedBreak, savedContinue
}

// expr lowers x and returns the C expression text referring to its value:
// either a literal spelling or the name of a temporary that now holds it.
func (c *ctx) expr(x ast.Expr) string {
	switch e := x.(type) {
	case *ast.IntegerLit:
		return fmt.Sprintf("%d", e.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("%g", e.Value)
	case *ast.CharLit:
		return charLiteral(e.Value)
	case *ast.BoolLit:
		if e.Value {
			return "1"
		}
		return "0"
	case *ast.UnitLit:
		return "NULL"
	case *ast.Ident:
		return e.Name
	case *ast.UnaryExpr:
		return c.unary(e)
	case *ast.BinaryExpr:
		return c.binary(e)
	case *ast.CallExpr:
		return c.call(e)
	case *ast.CompoundExpr:
		return c.compound(e)
	default:
		return "0"
	}
}

func charLiteral(b byte) string {
	switch b {
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	default:
		return fmt.Sprintf("'%c'", b)
	}
}

func (c *ctx) unary(u *ast.UnaryExpr) string {
	x := c.expr(u.X)
	var result string
	switch u.Op {
	case ast.OpSub:
		result = "-" + x
	case ast.OpNot:
		result = "!" + x
	default:
		result = "+" + x
	}
	temp := c.newTemp(cType(u.Type()))
	c.emit(fmt.Sprintf("%s = %s;", temp, result))
	return temp
}

func (c *ctx) binary(b *ast.BinaryExpr) string {
	left := c.expr(b.Left)
	right := c.expr(b.Right)

	var result string
	if b.Op == ast.OpDiv {
		// Division by zero is tolerant, not a trap (spec.md §4.4, §9 open
		// question (a)): substitute the type's max value instead of letting
		// C's native `/` invoke UB (int) or produce `inf` (double).
		max := "INT_MAX"
		if b.Type() == types.Float {
			max = "DBL_MAX"
		}
		result = fmt.Sprintf("(%s == 0 ? %s : %s / %s)", right, max, left, right)
	} else {
		result = fmt.Sprintf("%s %s %s", left, string(b.Op), right)
	}

	temp := c.newTemp(cType(b.Type()))
	c.emit(fmt.Sprintf("%s = %s;", temp, result))
	return temp
}

func (c *ctx) call(call *ast.CallExpr) string {
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = c.expr(a)
	}
	result := fmt.Sprintf("%s(%s)", call.Name, strings.Join(args, ", "))
	temp := c.newTemp(cType(call.Type()))
	c.emit(fmt.Sprintf("%s = %s;", temp, result))
	return temp
}

func (c *ctx) compound(ce *ast.CompoundExpr) string {
	for _, stmt := range ce.Stmts {
		c.stmt(stmt)
	}
	return c.expr(ce.Result)
}
