// Package parser implements the operator-precedence recursive-descent
// parser for Wabbit source (spec.md §4.2).
package parser

import (
	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/errors"
	"github.com/wabbit-lang/wabbit/internal/lexer"
	"github.com/wabbit-lang/wabbit/internal/token"
)

// Parser turns a pre-scanned token stream into a Program. It never stops
// at the first malformed construct: it records a diagnostic and
// resynchronizes at the next statement boundary, matching the
// accumulate-don't-stop error policy of spec.md §7.
type Parser struct {
	cur  *cursor
	errs errors.List
}

// New tokenizes src and returns a Parser ready to produce a Program.
// Lexical errors are folded into the parser's diagnostic list up front so
// callers only need to check one list after parsing.
func New(src string) *Parser {
	toks, lexErrs := lexer.Tokenize(src)
	p := &Parser{cur: newCursor(toks)}
	for _, le := range lexErrs {
		p.errs.Add(errors.New(errors.Lex, le.Pos, "%s", le.Message))
	}
	return p
}

// Errors returns every diagnostic recorded during parsing, in source
// order (lexical errors first, since they were folded in at New).
func (p *Parser) Errors() errors.List { return p.errs }

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errs.Add(errors.New(errors.Parse, pos, format, args...))
}

// expect consumes the current token if it matches k, otherwise records a
// diagnostic and leaves the cursor in place so the caller's error
// recovery can decide how to resynchronize.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.at(k) {
		return p.cur.advance()
	}
	tok := p.cur.cur()
	p.errorf(tok.Pos, "unexpected token %s %q, expected %s", tok.Kind, tok.Literal, k)
	return tok
}

// ParseProgram parses the full token stream into a Program, continuing
// past malformed top-level items so every error in the source is
// reported.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.cur.at(token.EOF) {
		before := p.cur.pos
		item := p.parseTopItem()
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
		if p.cur.pos == before {
			// No progress was made (a malformed token at top level);
			// force advancement so ParseProgram terminates.
			p.cur.advance()
		}
	}
	return prog
}

// parseTopItem parses one func/var/const top-level item, or resynchronizes
// and returns nil after recording a diagnostic for anything else.
func (p *Parser) parseTopItem() ast.Item {
	switch p.cur.cur().Kind {
	case token.FUNC:
		return p.parseFuncDecl()
	case token.VAR:
		return p.parseVarDecl()
	case token.CONST:
		return p.parseConstDecl()
	default:
		tok := p.cur.cur()
		p.errorf(tok.Pos, "unexpected token %s %q at top level", tok.Kind, tok.Literal)
		p.synchronize()
		return nil
	}
}

// synchronize skips tokens until a likely statement/item boundary so one
// malformed construct doesn't cascade into spurious follow-on errors.
func (p *Parser) synchronize() {
	for {
		switch p.cur.cur().Kind {
		case token.EOF:
			return
		case token.SEMI:
			p.cur.advance()
			return
		case token.FUNC, token.VAR, token.CONST, token.RBRACE:
			return
		}
		p.cur.advance()
	}
}
