package ast

import "github.com/wabbit-lang/wabbit/internal/token"

// Constructors for expression nodes. exprBase is unexported so that every
// Expr is created through one of these (or NewIdent in literals.go),
// keeping position-tracking and the PType slot initialization in one
// place.

func NewIntegerLit(pos token.Position, v int64) *IntegerLit {
	return &IntegerLit{exprBase: exprBase{Position: pos}, Value: v}
}

func NewFloatLit(pos token.Position, v float64) *FloatLit {
	return &FloatLit{exprBase: exprBase{Position: pos}, Value: v}
}

func NewCharLit(pos token.Position, v byte) *CharLit {
	return &CharLit{exprBase: exprBase{Position: pos}, Value: v}
}

func NewBoolLit(pos token.Position, v bool) *BoolLit {
	return &BoolLit{exprBase: exprBase{Position: pos}, Value: v}
}

func NewUnitLit(pos token.Position) *UnitLit {
	return &UnitLit{exprBase: exprBase{Position: pos}}
}

func NewUnaryExpr(pos token.Position, op Operator, x Expr) *UnaryExpr {
	return &UnaryExpr{exprBase: exprBase{Position: pos}, Op: op, X: x}
}

func NewBinaryExpr(pos token.Position, op Operator, left, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase: exprBase{Position: pos}, Op: op, Left: left, Right: right}
}

func NewCallExpr(pos token.Position, name string, args []Expr) *CallExpr {
	return &CallExpr{exprBase: exprBase{Position: pos}, Name: name, Args: args}
}

func NewCompoundExpr(pos token.Position, stmts []Stmt, result Expr) *CompoundExpr {
	return &CompoundExpr{exprBase: exprBase{Position: pos}, Stmts: stmts, Result: result}
}

// Constructors for statement nodes, for the same reason as above.

func NewPrintStmt(pos token.Position, x Expr) *PrintStmt {
	return &PrintStmt{stmtBase: stmtBase{Position: pos}, X: x}
}

func NewExprStmt(pos token.Position, x Expr) *ExprStmt {
	return &ExprStmt{stmtBase: stmtBase{Position: pos}, X: x}
}

func NewAssignStmt(pos token.Position, name string, value Expr) *AssignStmt {
	return &AssignStmt{stmtBase: stmtBase{Position: pos}, Name: name, Value: value}
}

func NewBreakStmt(pos token.Position) *BreakStmt {
	return &BreakStmt{stmtBase: stmtBase{Position: pos}}
}

func NewContinueStmt(pos token.Position) *ContinueStmt {
	return &ContinueStmt{stmtBase: stmtBase{Position: pos}}
}

func NewReturnStmt(pos token.Position, value Expr) *ReturnStmt {
	return &ReturnStmt{stmtBase: stmtBase{Position: pos}, Value: value}
}

func NewIfStmt(pos token.Position, cond Expr, then, els *Block) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{Position: pos}, Cond: cond, Then: then, Else: els}
}

func NewWhileStmt(pos token.Position, cond Expr, body *Block) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{Position: pos}, Cond: cond, Body: body}
}

func NewVarDecl(pos token.Position, name, typeName string, value Expr) *VarDecl {
	return &VarDecl{stmtBase: stmtBase{Position: pos}, Name: name, TypeName: typeName, Value: value}
}

func NewConstDecl(pos token.Position, name, typeName string, value Expr) *ConstDecl {
	return &ConstDecl{stmtBase: stmtBase{Position: pos}, Name: name, TypeName: typeName, Value: value}
}

func NewFuncDecl(pos token.Position, name string, params []Param, returnType string, body *Block) *FuncDecl {
	return &FuncDecl{stmtBase: stmtBase{Position: pos}, Name: name, Params: params, ReturnType: returnType, Body: body}
}
