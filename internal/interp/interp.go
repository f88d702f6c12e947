package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/types"
)

// Interp runs a single type-checked Program to completion.
type Interp struct {
	env *Env
	out io.Writer

	// pending carries a break/continue/return Signal raised by a
	// CompoundExpr's leading statements back out through the expression
	// evaluator (eval returns a Value, not a Signal) to the nearest
	// enclosing execStmt call, which propagates it exactly as execBlock
	// would (spec.md §4.4, internal/interp/signal.go).
	pending Signal
}

// Option configures an Interp, following the teacher's functional-options
// style for constructing long-lived components with optional overrides.
type Option func(*Interp)

// WithOutput redirects `print` output away from os.Stdout, primarily for
// tests.
func WithOutput(w io.Writer) Option {
	return func(i *Interp) { i.out = w }
}

// New returns an Interp ready to Run prog. prog must already be
// type-checked; New does not re-check types (spec.md §4.4/§7).
func New(opts ...Option) *Interp {
	i := &Interp{env: newEnv(), out: os.Stdout}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RuntimeError reports a structural precondition violation: a missing
// `main`, or (defensively) an unannotated node that should have been
// rejected by the type checker already (spec.md §7).
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// Run evaluates every top-level item in order, then calls `main` with no
// arguments and returns its integer return value.
func (i *Interp) Run(prog *ast.Program) (int64, error) {
	for _, item := range prog.Items {
		i.runTopItem(item)
	}

	fn, ok := i.env.funcs["main"]
	if !ok {
		return 0, &RuntimeError{Message: "missing entry point main"}
	}
	sig := i.callFunc(fn, nil)
	if sig.Kind == SigReturn {
		return sig.Value.I, nil
	}
	return 0, nil
}

func (i *Interp) runTopItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDecl:
		i.env.funcs[it.Name] = &FuncValue{Decl: it}
	case *ast.VarDecl:
		i.execStmt(it)
	case *ast.ConstDecl:
		i.execStmt(it)
	}
}

// callFunc pushes a fresh call frame (fresh environment per call; the
// Python original's argument-binding-as-VarDef hack is deliberately not
// replicated, see SPEC_FULL.md), binds params, runs the body, and returns
// a SigReturn Signal carrying the result (unit when the body falls
// through without a return).
func (i *Interp) callFunc(fn *FuncValue, args []Value) Signal {
	i.env.pushCall()
	defer i.env.popCall()

	for idx, p := range fn.Decl.Params {
		var v Value
		if idx < len(args) {
			v = args[idx]
		}
		i.env.declare(p.Name, v)
	}

	sig := i.execBlock(fn.Decl.Body)
	if sig.Kind == SigReturn {
		return sig
	}
	return Signal{Kind: SigReturn, Value: UnitValue()}
}

// execBlock runs stmts in a fresh lexical scope, stopping and propagating
// the moment any statement yields a non-SigNone Signal.
func (i *Interp) execBlock(b *ast.Block) Signal {
	i.env.pushScope()
	defer i.env.popScope()
	for _, stmt := range b.Stmts {
		if sig := i.execStmt(stmt); sig.Kind != SigNone {
			return sig
		}
	}
	return none
}

func (i *Interp) execStmt(stmt ast.Stmt) Signal {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		i.execPrint(s)
		return i.takePending()
	case *ast.ExprStmt:
		i.eval(s.X)
		return i.takePending()
	case *ast.VarDecl:
		i.execVarDecl(s)
		return i.takePending()
	case *ast.ConstDecl:
		i.execConstDecl(s)
		return i.takePending()
	case *ast.AssignStmt:
		v := i.eval(s.Value)
		if sig, ok := i.takePendingOK(); ok {
			return sig
		}
		ptr, ok := i.env.lookup(s.Name)
		if !ok {
			panic(&RuntimeError{Message: fmt.Sprintf("%s not defined!", s.Name)})
		}
		*ptr = v
		return none
	case *ast.IfStmt:
		return i.execIf(s)
	case *ast.WhileStmt:
		return i.execWhile(s)
	case *ast.BreakStmt:
		return Signal{Kind: SigBreak}
	case *ast.ContinueStmt:
		return Signal{Kind: SigContinue}
	case *ast.ReturnStmt:
		v := UnitValue()
		if s.Value != nil {
			v = i.eval(s.Value)
			if sig, ok := i.takePendingOK(); ok {
				return sig
			}
		}
		return Signal{Kind: SigReturn, Value: v}
	case *ast.FuncDecl:
		i.env.funcs[s.Name] = &FuncValue{Decl: s}
		return none
	default:
		panic(&RuntimeError{Message: "unsupported statement in interpreter"})
	}
}

// takePending returns and clears i.pending if a nested CompoundExpr raised
// a Signal during the statement just executed, otherwise none.
func (i *Interp) takePending() Signal {
	sig, _ := i.takePendingOK()
	return sig
}

// takePendingOK is takePending with an explicit ok flag, for call sites that
// need to branch on whether a Signal is pending before using a Value that
// was computed alongside it.
func (i *Interp) takePendingOK() (Signal, bool) {
	if i.pending.Kind == SigNone {
		return none, false
	}
	sig := i.pending
	i.pending = none
	return sig, true
}

func (i *Interp) execPrint(s *ast.PrintStmt) {
	v := i.eval(s.X)
	if v.Type == types.Char {
		fmt.Fprint(i.out, v.String())
		return
	}
	fmt.Fprintln(i.out, v.String())
}

func (i *Interp) execVarDecl(v *ast.VarDecl) {
	val := UnitValue()
	if v.Value != nil {
		val = i.eval(v.Value)
		if i.pending.Kind != SigNone {
			return
		}
	}
	i.env.declare(v.Name, val)
}

func (i *Interp) execConstDecl(c *ast.ConstDecl) {
	val := i.eval(c.Value)
	if i.pending.Kind != SigNone {
		return
	}
	i.env.declare(c.Name, val)
}

func (i *Interp) execIf(s *ast.IfStmt) Signal {
	cond := i.eval(s.Cond)
	if sig, ok := i.takePendingOK(); ok {
		return sig
	}
	if cond.B {
		return i.execBlock(s.Then)
	}
	if s.Else != nil {
		return i.execBlock(s.Else)
	}
	return none
}

func (i *Interp) execWhile(s *ast.WhileStmt) Signal {
	for {
		cond := i.eval(s.Cond)
		if sig, ok := i.takePendingOK(); ok {
			return sig
		}
		if !cond.B {
			return none
		}
		sig := i.execBlock(s.Body)
		switch sig.Kind {
		case SigBreak:
			return none
		case SigReturn:
			return sig
		}
		// SigContinue and SigNone both fall through to re-test the
		// condition.
	}
}

// eval evaluates an expression to a Value. x must already carry a type
// from a successful type check; eval does not validate operand types.
func (i *Interp) eval(x ast.Expr) Value {
	switch e := x.(type) {
	case *ast.IntegerLit:
		return IntValue(e.Value)
	case *ast.FloatLit:
		return FloatValue(e.Value)
	case *ast.CharLit:
		return CharValue(e.Value)
	case *ast.BoolLit:
		return BoolValue(e.Value)
	case *ast.UnitLit:
		return UnitValue()
	case *ast.Ident:
		ptr, ok := i.env.lookup(e.Name)
		if !ok {
			panic(&RuntimeError{Message: fmt.Sprintf("%s not defined!", e.Name)})
		}
		return *ptr
	case *ast.UnaryExpr:
		return i.evalUnary(e)
	case *ast.BinaryExpr:
		return i.evalBinary(e)
	case *ast.CallExpr:
		return i.evalCall(e)
	case *ast.CompoundExpr:
		return i.evalCompound(e)
	default:
		panic(&RuntimeError{Message: "unsupported expression in interpreter"})
	}
}

func (i *Interp) evalUnary(u *ast.UnaryExpr) Value {
	x := i.eval(u.X)
	if i.pending.Kind != SigNone {
		return x
	}
	switch u.Op {
	case ast.OpAdd:
		return x
	case ast.OpSub:
		if x.Type == types.Float {
			return FloatValue(-x.F)
		}
		return IntValue(-x.I)
	case ast.OpNot:
		return BoolValue(!x.B)
	default:
		panic(&RuntimeError{Message: "unsupported unary operator"})
	}
}

func (i *Interp) evalBinary(b *ast.BinaryExpr) Value {
	// Short-circuit && and || evaluate the right operand conditionally
	// (spec.md §4.4), so the right side is deferred until needed.
	switch b.Op {
	case ast.OpAnd:
		left := i.eval(b.Left)
		if i.pending.Kind != SigNone {
			return left
		}
		if !left.B {
			return BoolValue(false)
		}
		right := i.eval(b.Right)
		return BoolValue(right.B)
	case ast.OpOr:
		left := i.eval(b.Left)
		if i.pending.Kind != SigNone {
			return left
		}
		if left.B {
			return BoolValue(true)
		}
		right := i.eval(b.Right)
		return BoolValue(right.B)
	}

	left := i.eval(b.Left)
	if i.pending.Kind != SigNone {
		return left
	}
	right := i.eval(b.Right)
	if i.pending.Kind != SigNone {
		return right
	}
	return applyBinOp(b.Op, left, right)
}

func applyBinOp(op ast.Operator, left, right Value) Value {
	if left.Type == types.Int && isArithOrRel(op) {
		return intBinOp(op, left.I, right.I)
	}
	if left.Type == types.Float && isArithOrRel(op) {
		return floatBinOp(op, left.F, right.F)
	}
	if left.Type == types.Char && isRelOrEq(op) {
		return charBinOp(op, left.C, right.C)
	}
	// bool/unit equality and bool logical ops: compare by Go equality of
	// the relevant payload, which the type checker has already ensured is
	// comparable here.
	switch op {
	case ast.OpEq:
		return BoolValue(left == right)
	case ast.OpNe:
		return BoolValue(left != right)
	case ast.OpAnd:
		return BoolValue(left.B && right.B)
	case ast.OpOr:
		return BoolValue(left.B || right.B)
	}
	panic(&RuntimeError{Message: fmt.Sprintf("unsupported operator %s", op)})
}

func isArithOrRel(op ast.Operator) bool {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv,
		ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		return true
	}
	return false
}

func isRelOrEq(op ast.Operator) bool {
	switch op {
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		return true
	}
	return false
}

func intBinOp(op ast.Operator, l, r int64) Value {
	switch op {
	case ast.OpAdd:
		return IntValue(l + r)
	case ast.OpSub:
		return IntValue(l - r)
	case ast.OpMul:
		return IntValue(l * r)
	case ast.OpDiv:
		if r == 0 {
			// Division by zero is intentional tolerant behavior, not a
			// trap (spec.md §4.4, §9 open question (a)).
			return IntValue(IntMax)
		}
		return IntValue(l / r) // Go's / truncates toward zero for ints
	case ast.OpLt:
		return BoolValue(l < r)
	case ast.OpLe:
		return BoolValue(l <= r)
	case ast.OpGt:
		return BoolValue(l > r)
	case ast.OpGe:
		return BoolValue(l >= r)
	case ast.OpEq:
		return BoolValue(l == r)
	case ast.OpNe:
		return BoolValue(l != r)
	default:
		panic(&RuntimeError{Message: fmt.Sprintf("unsupported int operator %s", op)})
	}
}

func floatBinOp(op ast.Operator, l, r float64) Value {
	switch op {
	case ast.OpAdd:
		return FloatValue(l + r)
	case ast.OpSub:
		return FloatValue(l - r)
	case ast.OpMul:
		return FloatValue(l * r)
	case ast.OpDiv:
		if r == 0 {
			return FloatValue(FloatMax)
		}
		return FloatValue(l / r)
	case ast.OpLt:
		return BoolValue(l < r)
	case ast.OpLe:
		return BoolValue(l <= r)
	case ast.OpGt:
		return BoolValue(l > r)
	case ast.OpGe:
		return BoolValue(l >= r)
	case ast.OpEq:
		return BoolValue(l == r)
	case ast.OpNe:
		return BoolValue(l != r)
	default:
		panic(&RuntimeError{Message: fmt.Sprintf("unsupported float operator %s", op)})
	}
}

func charBinOp(op ast.Operator, l, r byte) Value {
	switch op {
	case ast.OpLt:
		return BoolValue(l < r)
	case ast.OpLe:
		return BoolValue(l <= r)
	case ast.OpGt:
		return BoolValue(l > r)
	case ast.OpGe:
		return BoolValue(l >= r)
	case ast.OpEq:
		return BoolValue(l == r)
	case ast.OpNe:
		return BoolValue(l != r)
	default:
		panic(&RuntimeError{Message: fmt.Sprintf("unsupported char operator %s", op)})
	}
}

func (i *Interp) evalCall(call *ast.CallExpr) Value {
	fn, ok := i.env.funcs[call.Name]
	if !ok {
		panic(&RuntimeError{Message: fmt.Sprintf("%s not defined!", call.Name)})
	}
	args := make([]Value, len(call.Args))
	for idx, a := range call.Args {
		args[idx] = i.eval(a)
		if i.pending.Kind != SigNone {
			return args[idx]
		}
	}
	sig := i.callFunc(fn, args)
	return sig.Value
}

// evalCompound runs a CompoundExpr's leading statements in a fresh scope,
// then evaluates its trailing result expression. A break/continue/return
// among the leading statements stops iteration immediately and is carried
// out via i.pending for the nearest enclosing execStmt to propagate, the
// same way execBlock propagates a Signal out of an ordinary block.
func (i *Interp) evalCompound(ce *ast.CompoundExpr) Value {
	i.env.pushScope()
	defer i.env.popScope()
	for _, stmt := range ce.Stmts {
		if sig := i.execStmt(stmt); sig.Kind != SigNone {
			i.pending = sig
			return UnitValue()
		}
	}
	return i.eval(ce.Result)
}
