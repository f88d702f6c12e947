package ast

// IfStmt is `if cond { ... } [else { ... }]`. Else is nil when absent.
type IfStmt struct {
	stmtBase
	Cond Expr
	Then *Block
	Else *Block
}

// WhileStmt is `while cond { ... }`.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *Block
}
