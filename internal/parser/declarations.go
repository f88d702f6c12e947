package parser

import (
	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/token"
)

// parseTypeName parses the `type` production: a bare NAME. Validity against
// the closed primitive set is a type-checker concern (spec.md §4.2/§4.3);
// the parser only records the spelling.
func (p *Parser) parseTypeName() string {
	tok := p.expect(token.NAME)
	return tok.Literal
}

// parseVarDecl parses `var location [type] ["=" expr] ";"`.
func (p *Parser) parseVarDecl() ast.Stmt {
	tok := p.expect(token.VAR)
	name := p.expect(token.NAME)

	var typeName string
	if p.cur.at(token.NAME) {
		typeName = p.parseTypeName()
	}

	var value ast.Expr
	if p.cur.at(token.ASSIGN) {
		p.cur.advance()
		value = p.parseExpr()
	}

	if typeName == "" && value == nil {
		p.errorf(tok.Pos, "var declaration needs a type or an initializer")
	}

	p.expect(token.SEMI)
	return ast.NewVarDecl(tok.Pos, name.Literal, typeName, value)
}

// parseConstDecl parses `const location [type] "=" expr ";"`.
func (p *Parser) parseConstDecl() ast.Stmt {
	tok := p.expect(token.CONST)
	name := p.expect(token.NAME)

	var typeName string
	if p.cur.at(token.NAME) {
		typeName = p.parseTypeName()
	}

	p.expect(token.ASSIGN)
	value := p.parseExpr()
	p.expect(token.SEMI)
	return ast.NewConstDecl(tok.Pos, name.Literal, typeName, value)
}

// parseFuncDecl parses `func NAME "(" [param_list] ")" [type] "{" stmts "}"`.
func (p *Parser) parseFuncDecl() ast.Stmt {
	tok := p.expect(token.FUNC)
	name := p.expect(token.NAME)

	p.expect(token.LPAREN)
	var params []ast.Param
	if p.cur.at(token.NAME) {
		params = append(params, p.parseParam())
		for p.cur.at(token.COMMA) {
			p.cur.advance()
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RPAREN)

	returnType := "unit"
	if p.cur.at(token.NAME) {
		returnType = p.parseTypeName()
	}

	body := p.parseBlock()
	return ast.NewFuncDecl(tok.Pos, name.Literal, params, returnType, body)
}

func (p *Parser) parseParam() ast.Param {
	name := p.expect(token.NAME)
	typeName := p.parseTypeName()
	return ast.Param{Name: name.Literal, TypeName: typeName}
}
