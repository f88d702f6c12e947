package lexer

import (
	"testing"

	"github.com/wabbit-lang/wabbit/internal/token"
)

func TestNextToken_Operators(t *testing.T) {
	input := `+ - * / < <= > >= == != && || ! = , ; ( ) { }`

	want := []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.LT, token.LE, token.GT, token.GE,
		token.EQ, token.NE, token.AND, token.OR, token.NOT,
		token.ASSIGN, token.COMMA, token.SEMI,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.EOF,
	}

	l := New(input)
	for i, k := range want {
		tok := l.NextToken()
		if tok.Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, k)
		}
	}
}

func TestNextToken_KeywordsAndNames(t *testing.T) {
	input := `const var print break continue if else while true false func return x foo_bar _x1`

	want := []token.Kind{
		token.CONST, token.VAR, token.PRINT, token.BREAK, token.CONTINUE,
		token.IF, token.ELSE, token.WHILE, token.TRUE, token.FALSE,
		token.FUNC, token.RETURN, token.NAME, token.NAME, token.NAME,
		token.EOF,
	}

	l := New(input)
	for i, k := range want {
		tok := l.NextToken()
		if tok.Kind != k {
			t.Fatalf("token %d: got %s (%q), want %s", i, tok.Kind, tok.Literal, k)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		lit   string
	}{
		{"123", token.INTEGER, "123"},
		{"3.14159", token.FLOAT, "3.14159"},
		{"0.0", token.FLOAT, "0.0"},
		{"42.", token.INTEGER, "42"}, // '.' not followed by digit: not a float
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Kind != tt.kind || tok.Literal != tt.lit {
			t.Errorf("input %q: got %s(%q), want %s(%q)", tt.input, tok.Kind, tok.Literal, tt.kind, tt.lit)
		}
	}
}

func TestNextToken_CharLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  byte
	}{
		{`'a'`, 'a'},
		{`'\n'`, '\n'},
		{`'\t'`, '\t'},
		{`'\''`, '\''},
		{`'\x41'`, 'A'},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Kind != token.CHAR {
			t.Fatalf("input %q: got kind %s, want CHAR", tt.input, tok.Kind)
		}
		if len(tok.Literal) != 1 || tok.Literal[0] != tt.want {
			t.Errorf("input %q: got %q, want byte %q", tt.input, tok.Literal, tt.want)
		}
	}
}

func TestNextToken_UnterminatedCharLiteral(t *testing.T) {
	l := New(`'a`)
	l.NextToken()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(l.Errors()))
	}
}

func TestNextToken_Comments(t *testing.T) {
	input := "1 // a line comment\n/* a\nblock comment */2"
	l := New(input)
	first := l.NextToken()
	second := l.NextToken()
	if first.Literal != "1" || second.Literal != "2" {
		t.Fatalf("comments not skipped: got %q, %q", first.Literal, second.Literal)
	}
}

func TestNextToken_UnterminatedBlockComment(t *testing.T) {
	l := New("/* never closed")
	tok := l.NextToken()
	if tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %s", tok.Kind)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(l.Errors()))
	}
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	l := New(`1 @ 2`)
	l.NextToken()
	l.NextToken()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(l.Errors()))
	}
}

func TestTokenize_LineNumbers(t *testing.T) {
	toks, errs := Tokenize("var x = 1;\nvar y = 2;\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	var lines []int
	for _, tk := range toks {
		if tk.Kind == token.VAR {
			lines = append(lines, tk.Pos.Line)
		}
	}
	if len(lines) != 2 || lines[0] != 1 || lines[1] != 2 {
		t.Fatalf("unexpected line numbers: %v", lines)
	}
}
