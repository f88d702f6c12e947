package types

import (
	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/errors"
	"github.com/wabbit-lang/wabbit/internal/token"
)

// scopeKind identifies what an environment frame was opened for, so
// break/continue/return placement can be validated against the nearest
// enclosing frame of the right kind (spec.md §4.3).
type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeFunction
	scopeWhile
	scopeIf
	scopeElse
	scopeCompoundExpr
)

// symbol is one binding's recorded mutability and type.
type symbol struct {
	mutable bool
	typ     Type
}

// frame is one lexical scope: its own bindings plus the scopeKind it was
// opened for.
type frame struct {
	kind     scopeKind
	names    map[string]symbol
	funcName string // set only when kind == scopeFunction
}

func newFrame(kind scopeKind) *frame {
	return &frame{kind: kind, names: make(map[string]symbol)}
}

// Checker walks a Program and annotates every Expr's PType, accumulating
// diagnostics rather than stopping at the first (spec.md §4.3).
type Checker struct {
	frames []*frame // stack, outermost first; frames[len-1] is innermost
	funcs  map[string]FuncSig
	errs   errors.List
}

// NewChecker returns a Checker with a fresh global frame.
func NewChecker() *Checker {
	c := &Checker{funcs: make(map[string]FuncSig)}
	c.push(scopeGlobal)
	return c
}

// Check type-checks prog in place, returning the accumulated diagnostics
// and whether the program is well-typed.
func Check(prog *ast.Program) (errors.List, bool) {
	c := NewChecker()
	c.checkProgram(prog)
	return c.errs, !c.errs.HasErrors()
}

func (c *Checker) push(kind scopeKind) *frame {
	f := newFrame(kind)
	c.frames = append(c.frames, f)
	return f
}

func (c *Checker) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *Checker) top() *frame {
	return c.frames[len(c.frames)-1]
}

func (c *Checker) errorf(pos token.Position, format string, args ...any) {
	c.errs.Add(errors.New(errors.Type, pos, format, args...))
}

// lookup searches frames innermost-first for name.
func (c *Checker) lookup(name string) (symbol, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if s, ok := c.frames[i].names[name]; ok {
			return s, true
		}
	}
	return symbol{}, false
}

// enclosing reports whether a frame of kind k exists anywhere on the
// stack without crossing a scopeFunction boundary (used for break/continue,
// which must not escape an enclosing function into an outer loop).
func (c *Checker) enclosing(k scopeKind) bool {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].kind == k {
			return true
		}
		if c.frames[i].kind == scopeFunction {
			return false
		}
	}
	return false
}

// enclosingFunc returns the nearest enclosing function's signature.
func (c *Checker) enclosingFunc() (FuncSig, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].kind == scopeFunction {
			sig, ok := c.funcs[c.frames[i].funcName]
			return sig, ok
		}
	}
	return FuncSig{}, false
}

func (c *Checker) checkProgram(prog *ast.Program) {
	// Two-phase: register every function's signature before checking any
	// body, so forward calls and recursion resolve (spec.md §4.3 FuncDef).
	for _, item := range prog.Items {
		if fd, ok := item.(*ast.FuncDecl); ok {
			c.registerFunc(fd)
		}
	}
	for _, item := range prog.Items {
		c.checkItem(item)
	}
}

func (c *Checker) registerFunc(fd *ast.FuncDecl) {
	if _, exists := c.funcs[fd.Name]; exists {
		c.errorf(fd.Pos(), "function '%s' already defined", fd.Name)
		return
	}
	retType, ok := Lookup(fd.ReturnType)
	if !ok {
		c.errorf(fd.Pos(), "invalid return type '%s'", fd.ReturnType)
		retType = Unknown
	}
	params := make([]Type, len(fd.Params))
	for i, p := range fd.Params {
		pt, ok := Lookup(p.TypeName)
		if !ok {
			c.errorf(fd.Pos(), "invalid parameter type '%s'", p.TypeName)
		}
		params[i] = pt
	}
	c.funcs[fd.Name] = FuncSig{Params: params, Return: retType}
}

func (c *Checker) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDecl:
		c.checkFuncDecl(it)
	case *ast.VarDecl:
		c.checkVarDecl(it)
	case *ast.ConstDecl:
		c.checkConstDecl(it)
	default:
		c.errorf(item.Pos(), "unsupported top-level item")
	}
}

func (c *Checker) declare(pos token.Position, name string, mutable bool, typ Type) {
	f := c.top()
	if _, exists := f.names[name]; exists {
		c.errorf(pos, "'%s' already defined in this scope", name)
		return
	}
	if token.IsReserved(name) {
		c.errorf(pos, "'%s' is a reserved word and cannot be used as a name", name)
		return
	}
	f.names[name] = symbol{mutable: mutable, typ: typ}
}

func (c *Checker) checkVarDecl(v *ast.VarDecl) {
	var declared Type
	haveDeclared := false
	if v.TypeName != "" {
		t, ok := Lookup(v.TypeName)
		if !ok {
			c.errorf(v.Pos(), "invalid declared type '%s'", v.TypeName)
		} else {
			declared, haveDeclared = t, true
		}
	}

	var valueType Type
	haveValue := v.Value != nil
	if haveValue {
		valueType = c.checkExpr(v.Value)
	}

	switch {
	case haveDeclared && haveValue:
		if declared != valueType {
			c.errorf(v.Pos(), "type error in initialization. %s != %s", declared, valueType)
		}
		c.declare(v.Pos(), v.Name, true, declared)
	case haveDeclared:
		c.declare(v.Pos(), v.Name, true, declared)
	case haveValue:
		c.declare(v.Pos(), v.Name, true, valueType)
	default:
		// Parser already reported "needs a type or an initializer"; still
		// declare with Unknown so later references don't cascade.
		c.declare(v.Pos(), v.Name, true, Unknown)
	}
}

func (c *Checker) checkConstDecl(cd *ast.ConstDecl) {
	valueType := c.checkExpr(cd.Value)

	declared := valueType
	if cd.TypeName != "" {
		t, ok := Lookup(cd.TypeName)
		if !ok {
			c.errorf(cd.Pos(), "invalid declared type '%s'", cd.TypeName)
		} else if t != valueType {
			c.errorf(cd.Pos(), "type error in initialization. %s != %s", t, valueType)
		} else {
			declared = t
		}
	}
	c.declare(cd.Pos(), cd.Name, false, declared)
}

func (c *Checker) checkFuncDecl(fd *ast.FuncDecl) {
	if c.top().kind != scopeGlobal {
		c.errorf(fd.Pos(), "nested function definitions are not allowed")
		return
	}
	sig := c.funcs[fd.Name]

	f := c.push(scopeFunction)
	f.funcName = fd.Name
	for i, p := range fd.Params {
		pt := Unknown
		if i < len(sig.Params) {
			pt = sig.Params[i]
		}
		c.declare(fd.Pos(), p.Name, true, pt)
	}
	c.checkBlock(fd.Body)
	c.pop()
}

func (c *Checker) checkBlock(b *ast.Block) {
	for _, stmt := range b.Stmts {
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		c.checkExpr(s.X)
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	case *ast.VarDecl:
		c.checkVarDecl(s)
	case *ast.ConstDecl:
		c.checkConstDecl(s)
	case *ast.AssignStmt:
		c.checkAssignStmt(s)
	case *ast.IfStmt:
		c.checkIfStmt(s)
	case *ast.WhileStmt:
		c.checkWhileStmt(s)
	case *ast.BreakStmt:
		if !c.enclosing(scopeWhile) {
			c.errorf(s.Pos(), "break used outside of while loop")
		}
	case *ast.ContinueStmt:
		if !c.enclosing(scopeWhile) {
			c.errorf(s.Pos(), "continue used outside of while loop")
		}
	case *ast.ReturnStmt:
		c.checkReturnStmt(s)
	case *ast.FuncDecl:
		c.checkFuncDecl(s)
	default:
		c.errorf(stmt.Pos(), "unsupported statement")
	}
}

func (c *Checker) checkAssignStmt(a *ast.AssignStmt) {
	valueType := c.checkExpr(a.Value)
	sym, ok := c.lookup(a.Name)
	if !ok {
		c.errorf(a.Pos(), "%s not defined!", a.Name)
		return
	}
	if !sym.mutable {
		c.errorf(a.Pos(), "can't assign to const")
		return
	}
	if sym.typ != valueType {
		c.errorf(a.Pos(), "type error in assignment. %s != %s", sym.typ, valueType)
	}
}

func (c *Checker) checkIfStmt(i *ast.IfStmt) {
	condType := c.checkExpr(i.Cond)
	if condType != Bool {
		c.errorf(i.Pos(), "if test must be bool. Got %s", condType)
	}
	c.push(scopeIf)
	c.checkBlock(i.Then)
	c.pop()
	if i.Else != nil {
		c.push(scopeElse)
		c.checkBlock(i.Else)
		c.pop()
	}
}

func (c *Checker) checkWhileStmt(w *ast.WhileStmt) {
	condType := c.checkExpr(w.Cond)
	if condType != Bool {
		c.errorf(w.Pos(), "while test must be bool. Got %s", condType)
	}
	c.push(scopeWhile)
	c.checkBlock(w.Body)
	c.pop()
}

func (c *Checker) checkReturnStmt(r *ast.ReturnStmt) {
	sig, ok := c.enclosingFunc()
	if !ok {
		c.errorf(r.Pos(), "return used outside of function")
		return
	}
	gotType := Unit
	if r.Value != nil {
		gotType = c.checkExpr(r.Value)
	}
	if gotType != sig.Return {
		c.errorf(r.Pos(), "type error in return. %s != %s", sig.Return, gotType)
	}
}

// checkExpr type-checks x, records its PType, and returns it.
func (c *Checker) checkExpr(x ast.Expr) Type {
	t := c.inferExpr(x)
	x.SetType(t)
	return t
}

func (c *Checker) inferExpr(x ast.Expr) Type {
	switch e := x.(type) {
	case *ast.IntegerLit:
		return Int
	case *ast.FloatLit:
		return Float
	case *ast.CharLit:
		return Char
	case *ast.BoolLit:
		return Bool
	case *ast.UnitLit:
		return Unit
	case *ast.Ident:
		sym, ok := c.lookup(e.Name)
		if !ok {
			c.errorf(e.Pos(), "%s not defined!", e.Name)
			return Unknown
		}
		return sym.typ
	case *ast.UnaryExpr:
		return c.inferUnary(e)
	case *ast.BinaryExpr:
		return c.inferBinary(e)
	case *ast.CallExpr:
		return c.inferCall(e)
	case *ast.CompoundExpr:
		return c.inferCompound(e)
	default:
		c.errorf(x.Pos(), "unsupported expression")
		return Unknown
	}
}

func (c *Checker) inferUnary(u *ast.UnaryExpr) Type {
	operand := c.checkExpr(u.X)
	switch u.Op {
	case ast.OpAdd, ast.OpSub:
		if operand != Int && operand != Float {
			c.errorf(u.Pos(), "unary %s not defined on %s", u.Op, operand)
			return Unknown
		}
		return operand
	case ast.OpNot:
		if operand != Bool {
			c.errorf(u.Pos(), "unary ! not defined on %s", operand)
			return Unknown
		}
		return Bool
	default:
		c.errorf(u.Pos(), "unsupported unary operator %s", u.Op)
		return Unknown
	}
}

// binOpClass classifies an operator into the table of spec.md §4.3.
type binOpClass int

const (
	classArith binOpClass = iota
	classRelational
	classEquality
	classLogical
)

var binOpClasses = map[ast.Operator]binOpClass{
	ast.OpAdd: classArith, ast.OpSub: classArith,
	ast.OpMul: classArith, ast.OpDiv: classArith,
	ast.OpLt: classRelational, ast.OpLe: classRelational,
	ast.OpGt: classRelational, ast.OpGe: classRelational,
	ast.OpEq: classEquality, ast.OpNe: classEquality,
	ast.OpAnd: classLogical, ast.OpOr: classLogical,
}

func (c *Checker) inferBinary(b *ast.BinaryExpr) Type {
	left := c.checkExpr(b.Left)
	right := c.checkExpr(b.Right)

	if left != right {
		c.errorf(b.Pos(), "type error in binary operator %s. %s != %s", b.Op, left, right)
		return Unknown
	}

	class := binOpClasses[b.Op]
	switch class {
	case classArith:
		if left == Int || left == Float {
			return left
		}
	case classRelational:
		if left == Int || left == Float || left == Char {
			return Bool
		}
	case classEquality:
		return Bool
	case classLogical:
		if left == Bool || left == Unit {
			return Bool
		}
	}
	c.errorf(b.Pos(), "operator %s not defined on %s", b.Op, left)
	return Unknown
}

func (c *Checker) inferCall(call *ast.CallExpr) Type {
	sig, ok := c.funcs[call.Name]
	if !ok {
		c.errorf(call.Pos(), "%s not defined!", call.Name)
		for _, a := range call.Args {
			c.checkExpr(a)
		}
		return Unknown
	}
	if len(call.Args) != len(sig.Params) {
		c.errorf(call.Pos(), "'%s' expects %d argument(s), got %d", call.Name, len(sig.Params), len(call.Args))
	}
	for i, a := range call.Args {
		at := c.checkExpr(a)
		if i < len(sig.Params) && at != sig.Params[i] {
			c.errorf(a.Pos(), "type error in argument %d of '%s'. %s != %s", i+1, call.Name, sig.Params[i], at)
		}
	}
	return sig.Return
}

func (c *Checker) inferCompound(ce *ast.CompoundExpr) Type {
	c.push(scopeCompoundExpr)
	defer c.pop()
	for _, stmt := range ce.Stmts {
		c.checkStmt(stmt)
	}
	return c.checkExpr(ce.Result)
}
