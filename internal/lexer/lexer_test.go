package lexer

import (
	"testing"

	"cstep/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `int main(){
int a;
a=5;
printf("%d\n",a);
}
`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.INT, "int"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.INT, "int"},
		{token.IDENT, "a"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "printf"},
		{token.LPAREN, "("},
		{token.STRING, "%d\n"},
		{token.COMMA, ","},
		{token.IDENT, "a"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q, literal=%q",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNumbersAndOperators(t *testing.T) {
	input := `a = b*c+1.5/2; i++; i--; a<=b; a>=b; a==b; a!=b;`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.IDENT, "b"},
		{token.ASTERISK, "*"},
		{token.IDENT, "c"},
		{token.PLUS, "+"},
		{token.NUMBER, "1.5"},
		{token.SLASH, "/"},
		{token.NUMBER, "2"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "i"},
		{token.PLUS_PLUS, "++"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "i"},
		{token.MINUS_MINUS, "--"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.LTE, "<="},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.GTE, ">="},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.EQ, "=="},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.NEQ, "!="},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - expected=%s(%q) got=%s(%q)", i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}
