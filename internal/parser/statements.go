package parser

import (
	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/token"
)

// parseStmt parses one statement production (spec.md §4.2 `stmt`).
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.cur().Kind {
	case token.PRINT:
		return p.parsePrintStmt()
	case token.VAR:
		return p.parseVarDecl()
	case token.CONST:
		return p.parseConstDecl()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.BREAK:
		tok := p.cur.advance()
		p.expect(token.SEMI)
		return ast.NewBreakStmt(tok.Pos)
	case token.CONTINUE:
		tok := p.cur.advance()
		p.expect(token.SEMI)
		return ast.NewContinueStmt(tok.Pos)
	case token.RETURN:
		return p.parseReturnStmt()
	case token.FUNC:
		// Grammar-level the func_def production is top-level only; a
		// nested func here parses so the type checker can reject it with
		// a proper diagnostic (spec.md §4.3 FuncDef) instead of a cryptic
		// parse error.
		return p.parseFuncDecl()
	case token.NAME:
		if p.cur.peekN(1).Kind == token.ASSIGN {
			return p.parseAssignStmt()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parsePrintStmt() ast.Stmt {
	tok := p.expect(token.PRINT)
	x := p.parseExpr()
	p.expect(token.SEMI)
	return ast.NewPrintStmt(tok.Pos, x)
}

func (p *Parser) parseAssignStmt() ast.Stmt {
	name := p.expect(token.NAME)
	p.expect(token.ASSIGN)
	value := p.parseExpr()
	p.expect(token.SEMI)
	return ast.NewAssignStmt(name.Pos, name.Literal, value)
}

func (p *Parser) parseExprStmt() ast.Stmt {
	tok := p.cur.cur()
	x := p.parseExpr()
	p.expect(token.SEMI)
	return ast.NewExprStmt(tok.Pos, x)
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	tok := p.expect(token.RETURN)
	if p.cur.at(token.SEMI) {
		p.cur.advance()
		return ast.NewReturnStmt(tok.Pos, nil)
	}
	value := p.parseExpr()
	p.expect(token.SEMI)
	return ast.NewReturnStmt(tok.Pos, value)
}

// parseBlock parses `{ stmts }` in statement position (no trailing value).
func (p *Parser) parseBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.cur.at(token.RBRACE) && !p.cur.at(token.EOF) {
		before := p.cur.pos
		stmts = append(stmts, p.parseStmt())
		if p.cur.pos == before {
			p.cur.advance()
		}
	}
	p.expect(token.RBRACE)
	return ast.NewBlock(lbrace.Pos, stmts)
}
