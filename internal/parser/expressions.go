package parser

import (
	"strconv"

	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/token"
)

// parseExpr parses a full expression at the lowest precedence tier, `||`.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.cur.at(token.OR) {
		op := p.cur.advance()
		right := p.parseAnd()
		left = ast.NewBinaryExpr(op.Pos, ast.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseComparison()
	for p.cur.at(token.AND) {
		op := p.cur.advance()
		right := p.parseComparison()
		left = ast.NewBinaryExpr(op.Pos, ast.OpAnd, left, right)
	}
	return left
}

var comparisonOps = map[token.Kind]ast.Operator{
	token.LT: ast.OpLt, token.LE: ast.OpLe,
	token.GT: ast.OpGt, token.GE: ast.OpGe,
	token.EQ: ast.OpEq, token.NE: ast.OpNe,
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for {
		op, ok := comparisonOps[p.cur.cur().Kind]
		if !ok {
			return left
		}
		opTok := p.cur.advance()
		right := p.parseAdditive()
		left = ast.NewBinaryExpr(opTok.Pos, op, left, right)
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur.at(token.PLUS) || p.cur.at(token.MINUS) {
		opTok := p.cur.advance()
		op := ast.OpAdd
		if opTok.Kind == token.MINUS {
			op = ast.OpSub
		}
		right := p.parseMultiplicative()
		left = ast.NewBinaryExpr(opTok.Pos, op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.cur.at(token.STAR) || p.cur.at(token.SLASH) {
		opTok := p.cur.advance()
		op := ast.OpMul
		if opTok.Kind == token.SLASH {
			op = ast.OpDiv
		}
		right := p.parseUnary()
		left = ast.NewBinaryExpr(opTok.Pos, op, left, right)
	}
	return left
}

var unaryOps = map[token.Kind]ast.Operator{
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub, token.NOT: ast.OpNot,
}

func (p *Parser) parseUnary() ast.Expr {
	if op, ok := unaryOps[p.cur.cur().Kind]; ok {
		opTok := p.cur.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(opTok.Pos, op, operand)
	}
	return p.parseAtom()
}

// parseAtom parses the highest-precedence grammar tier: literals,
// locations, calls, parenthesized expressions, and compound expressions.
func (p *Parser) parseAtom() ast.Expr {
	tok := p.cur.cur()

	switch tok.Kind {
	case token.INTEGER:
		p.cur.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid integer literal %q", tok.Literal)
		}
		return ast.NewIntegerLit(tok.Pos, v)

	case token.FLOAT:
		p.cur.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid float literal %q", tok.Literal)
		}
		return ast.NewFloatLit(tok.Pos, v)

	case token.CHAR:
		p.cur.advance()
		var v byte
		if len(tok.Literal) > 0 {
			v = tok.Literal[0]
		}
		return ast.NewCharLit(tok.Pos, v)

	case token.TRUE:
		p.cur.advance()
		return ast.NewBoolLit(tok.Pos, true)

	case token.FALSE:
		p.cur.advance()
		return ast.NewBoolLit(tok.Pos, false)

	case token.LPAREN:
		p.cur.advance()
		if p.cur.at(token.RPAREN) {
			p.cur.advance()
			return ast.NewUnitLit(tok.Pos)
		}
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return inner

	case token.LBRACE:
		return p.parseCompoundExpr()

	case token.NAME:
		p.cur.advance()
		if p.cur.at(token.LPAREN) {
			return p.parseCallExpr(tok)
		}
		return ast.NewIdent(tok.Pos, tok.Literal)

	default:
		p.errorf(tok.Pos, "unexpected token %s %q in expression", tok.Kind, tok.Literal)
		p.cur.advance()
		return ast.NewUnitLit(tok.Pos)
	}
}

func (p *Parser) parseCallExpr(name token.Token) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	if !p.cur.at(token.RPAREN) {
		args = append(args, p.parseExpr())
		for p.cur.at(token.COMMA) {
			p.cur.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RPAREN)
	return ast.NewCallExpr(name.Pos, name.Literal, args)
}

// parseCompoundExpr parses `{ stmts... expr }`, a block in expression
// position. Per spec.md §4.2 the final expression carries no trailing
// semicolon.
func (p *Parser) parseCompoundExpr() ast.Expr {
	lbrace := p.expect(token.LBRACE)

	var stmts []ast.Stmt
	for !p.cur.at(token.RBRACE) && !p.cur.at(token.EOF) {
		if p.atExprTail() {
			break
		}
		before := p.cur.pos
		stmts = append(stmts, p.parseStmt())
		if p.cur.pos == before {
			p.cur.advance()
		}
	}

	var result ast.Expr
	if p.cur.at(token.RBRACE) {
		p.errorf(p.cur.cur().Pos, "compound expression must end with an expression")
		result = ast.NewUnitLit(p.cur.cur().Pos)
	} else {
		result = p.parseExpr()
	}

	p.expect(token.RBRACE)
	return ast.NewCompoundExpr(lbrace.Pos, stmts, result)
}

// atExprTail heuristically detects that the cursor is sitting on what must
// be the compound expression's trailing value rather than another
// statement: anything that isn't a statement-introducing keyword.
func (p *Parser) atExprTail() bool {
	switch p.cur.cur().Kind {
	case token.PRINT, token.VAR, token.CONST, token.IF, token.WHILE,
		token.BREAK, token.CONTINUE, token.RETURN:
		return false
	case token.NAME:
		// `name = expr;` is an assignment statement; any other use of a
		// NAME starts an expression (the tail value).
		return p.cur.peekN(1).Kind != token.ASSIGN
	default:
		return true
	}
}
