package wasmemit

import (
	"fmt"
	"math"

	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/types"
)

// wasmType maps a checked Wabbit type to its WASM value type. int and
// float keep the same i32/f64 split the original course's generator
// used; char, bool, and unit all ride on i32 (char as its byte value,
// bool as 0/1, unit as the constant 0). cemit likewise maps bool to a C
// int, but gives unit a C int*.
func wasmType(t types.Type) byte {
	if t == types.Float {
		return ValF64
	}
	return ValI32
}

// funcBuilder accumulates one function's instructions and its local
// variable index space. Unlike generate.py's single flat env shared by
// the whole module, each Wabbit function gets its own builder and its
// own name->index map, since SPEC_FULL.md's function support means
// multiple functions now coexist and must not collide.
type funcBuilder struct {
	code        []byte
	locals      []byte // local types beyond the parameters, in order
	localIndex  map[string]uint32
	nextLocal   uint32
	labelDepth  int // relative depth of the nearest enclosing while's outer block, for break/continue
	scratchSeen int // counter for compiler-synthesized scratch locals
}

// newScratch declares a fresh local under a name no Wabbit identifier can
// spell (spec.md §4.1 identifiers are `[_a-zA-Z][_a-zA-Z0-9]*`, never
// containing `$`), for values the emitter needs to hold across a branch.
func (fb *funcBuilder) newScratch(t byte) uint32 {
	fb.scratchSeen++
	return fb.declareLocal(fmt.Sprintf("$scratch%d", fb.scratchSeen), t)
}

func newFuncBuilder(params []ast.Param) *funcBuilder {
	fb := &funcBuilder{localIndex: make(map[string]uint32)}
	for _, p := range params {
		// Params don't add to fb.locals; their types already live in the
		// function's ParamTypes, ahead of any declared locals.
		fb.localIndex[p.Name] = fb.nextLocal
		fb.nextLocal++
	}
	return fb
}

func (fb *funcBuilder) emit(b ...byte)     { fb.code = append(fb.code, b...) }
func (fb *funcBuilder) emitBytes(b []byte) { fb.code = append(fb.code, b...) }

func (fb *funcBuilder) declareLocal(name string, t byte) uint32 {
	idx := fb.nextLocal
	fb.localIndex[name] = idx
	fb.locals = append(fb.locals, t)
	fb.nextLocal++
	return idx
}

// emitter lowers a transformed, type-checked program into a Module. Each
// function is generated against its own funcBuilder, threaded through
// explicitly rather than an implicit "current function" pointer.
type emitter struct {
	mod       *Module
	funcIndex map[string]uint32 // function name -> module-wide call index
}

const runtimeEnv = "runtime"

// Program lowers prog (already transformed) to a complete binary WASM
// module.
func Program(prog *ast.Program) []byte {
	e := &emitter{mod: newModule(), funcIndex: make(map[string]uint32)}

	for _, name := range []string{"_printi", "_printf", "_printb", "_printc", "_printu"} {
		var params []byte
		switch name {
		case "_printi", "_printb", "_printc":
			params = []byte{ValI32}
		case "_printf":
			params = []byte{ValF64}
		case "_printu":
			params = nil
		}
		f := e.mod.addImport(runtimeEnv, name, params, nil)
		e.funcIndex[name] = f.idx
	}

	var funcDecls []*ast.FuncDecl
	var globals []ast.Item
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.FuncDecl:
			funcDecls = append(funcDecls, it)
		default:
			globals = append(globals, it)
		}
	}

	haveMain := false
	for _, fd := range funcDecls {
		if fd.Name == "main" {
			haveMain = true
		}
	}

	// Two-pass: register every function's signature (reserving its call
	// index) before lowering any body, so forward references and
	// recursive calls resolve correctly (spec.md §4.7 function extension).
	for _, fd := range funcDecls {
		params := make([]byte, len(fd.Params))
		for i, p := range fd.Params {
			pt, _ := types.Lookup(p.TypeName)
			params[i] = wasmType(pt)
		}
		retType, _ := types.Lookup(fd.ReturnType)
		var results []byte
		if retType != types.Unit {
			results = []byte{wasmType(retType)}
		}
		wf := e.mod.addFunc(fd.Name, params, results)
		e.funcIndex[fd.Name] = wf.idx
	}
	if !haveMain {
		wf := e.mod.addFunc("main", nil, []byte{ValI32})
		e.funcIndex["main"] = wf.idx
	}

	prelude := e.globalDecls(globals)

	fi := 0
	for _, fd := range funcDecls {
		e.genFunc(e.mod.Funcs[fi], fd, fd.Name == "main", prelude)
		fi++
	}
	if !haveMain {
		e.genImplicitMain(e.mod.Funcs[fi], prelude)
	}

	return Encode(e.mod)
}

// globalDecls registers a Global for every top-level var/const and
// returns the code that initializes them, to be run once at the start
// of main: WASM's global-section initializer must be a constant
// expression, so a non-literal initializer (or one that is simply
// inconvenient to prove constant) is instead assigned at runtime,
// mirroring cemit's globalVarDecl/globalConstDecl split between
// declaration and assignment.
func (e *emitter) globalDecls(items []ast.Item) []func(fb *funcBuilder) {
	var prelude []func(fb *funcBuilder)
	for _, item := range items {
		switch it := item.(type) {
		case *ast.VarDecl:
			t := declaredType(it.TypeName, it.Value)
			g := e.mod.addGlobal(it.Name, wasmType(t))
			g.IsFloat = t == types.Float
			e.funcIndex["$global$"+it.Name] = g.idx
			if it.Value != nil {
				val := it.Value
				prelude = append(prelude, func(fb *funcBuilder) {
					e.genExpr(fb, val)
					fb.emit(opGlobalSet)
					fb.emitBytes(encodeUnsigned(uint64(g.idx)))
				})
			}
		case *ast.ConstDecl:
			t := it.Value.Type()
			g := e.mod.addGlobal(it.Name, wasmType(t))
			g.IsFloat = t == types.Float
			e.funcIndex["$global$"+it.Name] = g.idx
			val := it.Value
			prelude = append(prelude, func(fb *funcBuilder) {
				e.genExpr(fb, val)
				fb.emit(opGlobalSet)
				fb.emitBytes(encodeUnsigned(uint64(g.idx)))
			})
		}
	}
	return prelude
}

func declaredType(typeName string, value ast.Expr) types.Type {
	if typeName != "" {
		if t, ok := types.Lookup(typeName); ok {
			return t
		}
	}
	if value != nil {
		return value.Type()
	}
	return types.Unit
}

func (e *emitter) genFunc(wf *wasmFunc, fd *ast.FuncDecl, isMain bool, prelude []func(fb *funcBuilder)) {
	fb := newFuncBuilder(fd.Params)
	if isMain {
		for _, p := range prelude {
			p(fb)
		}
	}
	e.genBlock(fb, fd.Body)
	// The checker doesn't enforce that every path through a non-unit
	// function ends in a return; a trailing zero keeps the function's
	// implicit fall-through end balanced against its declared result
	// type. When every path already returns, this is dead code after
	// an unconditional `return`, which WASM's validator permits (a
	// `return` puts the rest of its enclosing block in unreachable,
	// stack-polymorphic mode).
	if len(wf.ResultTypes) > 0 {
		if wf.ResultTypes[0] == ValF64 {
			fb.emit(opF64Const)
			fb.emitBytes(encodeF64(0))
		} else {
			fb.emit(opI32Const)
			fb.emitBytes(encodeSigned(0))
		}
	}
	wf.Locals = fb.locals
	wf.Code = fb.code
}

// genImplicitMain handles the common seed-program shape where the
// source has no explicit func main(): the whole program's top-level
// statements already flowed through globalDecls for var/const, so this
// only needs to run the prelude and close out with a 0 result.
func (e *emitter) genImplicitMain(wf *wasmFunc, prelude []func(fb *funcBuilder)) {
	fb := newFuncBuilder(nil)
	for _, p := range prelude {
		p(fb)
	}
	fb.emit(opI32Const)
	fb.emitBytes(encodeSigned(0))
	wf.Locals = fb.locals
	wf.Code = fb.code
}

func (e *emitter) genBlock(fb *funcBuilder, b *ast.Block) {
	for _, s := range b.Stmts {
		e.genStmt(fb, s)
	}
}

func (e *emitter) genStmt(fb *funcBuilder, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		e.genPrint(fb, s)
	case *ast.ExprStmt:
		e.genExpr(fb, s.X)
		if s.X.Type() != types.Unit {
			fb.emit(opDrop)
		}
	case *ast.VarDecl:
		e.genLocalDecl(fb, s.Name, declaredType(s.TypeName, s.Value), s.Value)
	case *ast.ConstDecl:
		e.genLocalDecl(fb, s.Name, s.Value.Type(), s.Value)
	case *ast.AssignStmt:
		e.genExpr(fb, s.Value)
		e.genSet(fb, s.Name)
	case *ast.IfStmt:
		e.genIf(fb, s)
	case *ast.WhileStmt:
		e.genWhile(fb, s)
	case *ast.BreakStmt:
		fb.emit(opBr)
		fb.emitBytes(encodeUnsigned(uint64(fb.labelDepth)))
	case *ast.ContinueStmt:
		fb.emit(opBr)
		fb.emitBytes(encodeUnsigned(uint64(fb.labelDepth - 1)))
	case *ast.ReturnStmt:
		if s.Value != nil {
			e.genExpr(fb, s.Value)
		}
		fb.emit(opReturn)
	}
}

func (e *emitter) genLocalDecl(fb *funcBuilder, name string, t types.Type, value ast.Expr) {
	idx := fb.declareLocal(name, wasmType(t))
	if value != nil {
		e.genExpr(fb, value)
		fb.emit(opLocalSet)
		fb.emitBytes(encodeUnsigned(uint64(idx)))
	}
}

func (e *emitter) genSet(fb *funcBuilder, name string) {
	if idx, ok := fb.localIndex[name]; ok {
		fb.emit(opLocalSet)
		fb.emitBytes(encodeUnsigned(uint64(idx)))
		return
	}
	idx := e.funcIndex["$global$"+name]
	fb.emit(opGlobalSet)
	fb.emitBytes(encodeUnsigned(uint64(idx)))
}

func (e *emitter) genGet(fb *funcBuilder, name string) {
	if idx, ok := fb.localIndex[name]; ok {
		fb.emit(opLocalGet)
		fb.emitBytes(encodeUnsigned(uint64(idx)))
		return
	}
	idx := e.funcIndex["$global$"+name]
	fb.emit(opGlobalGet)
	fb.emitBytes(encodeUnsigned(uint64(idx)))
}

func (e *emitter) genPrint(fb *funcBuilder, p *ast.PrintStmt) {
	e.genExpr(fb, p.X)
	var name string
	switch p.X.Type() {
	case types.Int:
		name = "_printi"
	case types.Float:
		name = "_printf"
	case types.Bool:
		name = "_printb"
	case types.Char:
		name = "_printc"
	default:
		name = "_printu"
	}
	fb.emit(opCall)
	fb.emitBytes(encodeUnsigned(uint64(e.funcIndex[name])))
}

// genIf lowers a `if cond { then } [else { else }]` into a WASM
// `if`/`else`/`end` with a block type matching the then-branch's
// checked type: spec.md's grammar only ever uses If in statement
// position, so its result type is always empty here, but the block
// type machinery is shared with the expression-position short-circuit
// lowering below.
func (e *emitter) genIf(fb *funcBuilder, s *ast.IfStmt) {
	e.genExpr(fb, s.Cond)
	fb.emit(opIf, blockTypeEmpty)
	fb.labelDepth++
	e.genBlock(fb, s.Then)
	if s.Else != nil {
		fb.emit(opElse)
		e.genBlock(fb, s.Else)
	}
	fb.emit(opEnd)
	fb.labelDepth--
}

// genWhile lowers `while cond { body }` as `block { loop { cond; i32.eqz;
// br_if 1; body; br 0 } }`: the outer block is break's target (index 1
// relative to the loop), the loop itself is continue's target (index 0),
// matching generate.py's shape.
func (e *emitter) genWhile(fb *funcBuilder, s *ast.WhileStmt) {
	fb.emit(opBlock, blockTypeEmpty)
	fb.emit(opLoop, blockTypeEmpty)
	// Inside the loop this while's block is label 1 whatever encloses it,
	// so restart the count there and restore the outer count afterwards.
	savedDepth := fb.labelDepth
	fb.labelDepth = 1

	e.genExpr(fb, s.Cond)
	fb.emit(opI32Eqz)
	fb.emit(opBrIf)
	fb.emitBytes(encodeUnsigned(1))

	e.genBlock(fb, s.Body)

	fb.emit(opBr)
	fb.emitBytes(encodeUnsigned(0))

	fb.emit(opEnd) // loop
	fb.emit(opEnd) // block
	fb.labelDepth = savedDepth
}

func (e *emitter) genExpr(fb *funcBuilder, x ast.Expr) {
	switch v := x.(type) {
	case *ast.IntegerLit:
		fb.emit(opI32Const)
		fb.emitBytes(encodeSigned(v.Value))
	case *ast.FloatLit:
		fb.emit(opF64Const)
		fb.emitBytes(encodeF64(v.Value))
	case *ast.CharLit:
		fb.emit(opI32Const)
		fb.emitBytes(encodeSigned(int64(v.Value)))
	case *ast.BoolLit:
		n := int64(0)
		if v.Value {
			n = 1
		}
		fb.emit(opI32Const)
		fb.emitBytes(encodeSigned(n))
	case *ast.UnitLit:
		fb.emit(opI32Const)
		fb.emitBytes(encodeSigned(0))
	case *ast.Ident:
		e.genGet(fb, v.Name)
	case *ast.UnaryExpr:
		e.genUnary(fb, v)
	case *ast.BinaryExpr:
		e.genBinary(fb, v)
	case *ast.CallExpr:
		e.genCall(fb, v)
	case *ast.CompoundExpr:
		e.genCompound(fb, v)
	}
}

// genUnary lowers `+`/`-`/`!`. WASM has no dedicated negate instruction
// for i32/f64, so unary minus multiplies by -1, matching generate.py.
func (e *emitter) genUnary(fb *funcBuilder, u *ast.UnaryExpr) {
	switch u.Op {
	case ast.OpNot:
		e.genExpr(fb, u.X)
		fb.emit(opI32Eqz)
	case ast.OpSub:
		e.genExpr(fb, u.X)
		if u.Type() == types.Float {
			fb.emit(opF64Const)
			fb.emitBytes(encodeF64(-1))
			fb.emit(opF64Mul)
		} else {
			fb.emit(opI32Const)
			fb.emitBytes(encodeSigned(-1))
			fb.emit(opI32Mul)
		}
	default: // unary plus: value unchanged
		e.genExpr(fb, u.X)
	}
}

// genBinary lowers arithmetic/relational operators directly, and
// synthesizes real if/else bytecode for `&&`/`||` rather than building
// a temporary AST node and re-entering statement lowering the way
// generate.py does: the resulting instruction shape is the same either
// way, but this skips the round-trip through a fake AST.
func (e *emitter) genBinary(fb *funcBuilder, b *ast.BinaryExpr) {
	switch b.Op {
	case ast.OpAnd:
		e.genExpr(fb, b.Left)
		fb.emit(opIf, ValI32)
		fb.labelDepth++
		e.genExpr(fb, b.Right)
		fb.emit(opElse)
		fb.emit(opI32Const)
		fb.emitBytes(encodeSigned(0))
		fb.emit(opEnd)
		fb.labelDepth--
		return
	case ast.OpOr:
		e.genExpr(fb, b.Left)
		fb.emit(opIf, ValI32)
		fb.labelDepth++
		fb.emit(opI32Const)
		fb.emitBytes(encodeSigned(1))
		fb.emit(opElse)
		e.genExpr(fb, b.Right)
		fb.emit(opEnd)
		fb.labelDepth--
		return
	}

	isFloat := b.Left.Type() == types.Float

	if b.Op == ast.OpDiv {
		e.genDiv(fb, b, isFloat)
		return
	}

	e.genExpr(fb, b.Left)
	e.genExpr(fb, b.Right)

	var op byte
	switch b.Op {
	case ast.OpAdd:
		op = pick(isFloat, opF64Add, opI32Add)
	case ast.OpSub:
		op = pick(isFloat, opF64Sub, opI32Sub)
	case ast.OpMul:
		op = pick(isFloat, opF64Mul, opI32Mul)
	case ast.OpEq:
		op = pick(isFloat, opF64Eq, opI32Eq)
	case ast.OpNe:
		op = pick(isFloat, opF64Ne, opI32Ne)
	case ast.OpLt:
		op = pick(isFloat, opF64Lt, opI32LtS)
	case ast.OpLe:
		op = pick(isFloat, opF64Le, opI32LeS)
	case ast.OpGt:
		op = pick(isFloat, opF64Gt, opI32GtS)
	case ast.OpGe:
		op = pick(isFloat, opF64Ge, opI32GeS)
	}
	fb.emit(op)
}

// genDiv lowers `/` with the division-by-zero tolerance spec.md §4.4/§9(a)
// requires: WASM's native i32.div_s traps on a zero divisor and f64.div
// produces `inf`, neither of which is the mandated IntMax/FloatMax
// substitution, so both operands are stashed in scratch locals and the
// divisor is tested before the real division ever executes.
func (e *emitter) genDiv(fb *funcBuilder, b *ast.BinaryExpr, isFloat bool) {
	valType := byte(ValI32)
	if isFloat {
		valType = ValF64
	}

	left := fb.newScratch(valType)
	right := fb.newScratch(valType)

	e.genExpr(fb, b.Left)
	fb.emit(opLocalSet)
	fb.emitBytes(encodeUnsigned(uint64(left)))
	e.genExpr(fb, b.Right)
	fb.emit(opLocalSet)
	fb.emitBytes(encodeUnsigned(uint64(right)))

	fb.emit(opLocalGet)
	fb.emitBytes(encodeUnsigned(uint64(right)))
	if isFloat {
		fb.emit(opF64Const)
		fb.emitBytes(encodeF64(0))
		fb.emit(opF64Eq)
	} else {
		fb.emit(opI32Eqz)
	}

	fb.emit(opIf, valType)
	fb.labelDepth++
	if isFloat {
		fb.emit(opF64Const)
		fb.emitBytes(encodeF64(math.MaxFloat64))
	} else {
		fb.emit(opI32Const)
		fb.emitBytes(encodeSigned(math.MaxInt32))
	}
	fb.emit(opElse)
	fb.emit(opLocalGet)
	fb.emitBytes(encodeUnsigned(uint64(left)))
	fb.emit(opLocalGet)
	fb.emitBytes(encodeUnsigned(uint64(right)))
	fb.emit(pick(isFloat, opF64Div, opI32DivS))
	fb.emit(opEnd)
	fb.labelDepth--
}

func pick(cond bool, ifTrue, ifFalse byte) byte {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func (e *emitter) genCall(fb *funcBuilder, call *ast.CallExpr) {
	for _, a := range call.Args {
		e.genExpr(fb, a)
	}
	fb.emit(opCall)
	fb.emitBytes(encodeUnsigned(uint64(e.funcIndex[call.Name])))
}

func (e *emitter) genCompound(fb *funcBuilder, ce *ast.CompoundExpr) {
	for _, s := range ce.Stmts {
		e.genStmt(fb, s)
	}
	e.genExpr(fb, ce.Result)
}
