package parser

import (
	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/token"
)

func (p *Parser) parseIfStmt() ast.Stmt {
	tok := p.expect(token.IF)
	cond := p.parseExpr()
	then := p.parseBlock()

	var els *ast.Block
	if p.cur.at(token.ELSE) {
		p.cur.advance()
		els = p.parseBlock()
	}

	return ast.NewIfStmt(tok.Pos, cond, then, els)
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	tok := p.expect(token.WHILE)
	cond := p.parseExpr()
	body := p.parseBlock()
	return ast.NewWhileStmt(tok.Pos, cond, body)
}
