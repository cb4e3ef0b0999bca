// Package parser turns a token stream into the ast.Function forest the
// interpreter consumes. Grounded on flowa's pkg/parser/parser.go — same
// curToken/peekToken/nextToken/expectPeek shape and Pratt-style
// precedence climbing for expressions — adapted from Flowa's dynamic
// grammar to the fixed C-subset grammar in
// _examples/original_source/cyacc.py.
package parser

import (
	"fmt"
	"strconv"

	"cstep/internal/ast"
	"cstep/internal/lexer"
	"cstep/internal/token"
)

const (
	_ int = iota
	LOWEST
	SUM     // + -
	PRODUCT // * /
)

var precedences = map[token.Type]int{
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
}

type Parser struct {
	l *lexer.Lexer

	curTok  token.Token
	peekTok token.Token

	errors []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curTok.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekTok.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, fmt.Sprintf("[Line %d] expected next token to be %s, got %s instead",
		p.peekTok.Line, t, p.peekTok.Type))
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekTok.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses a whole source file into the function forest.
func (p *Parser) ParseProgram() []*ast.Function {
	var funcs []*ast.Function
	for !p.curIs(token.EOF) {
		fn := p.parseFunction()
		if fn == nil {
			p.nextToken()
			continue
		}
		funcs = append(funcs, fn)
		p.nextToken()
	}
	return funcs
}

func (p *Parser) isTypeToken(t token.Type) bool {
	return t == token.INT || t == token.FLOAT || t == token.VOID
}

func (p *Parser) parseFunction() *ast.Function {
	if !p.isTypeToken(p.curTok.Type) {
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] expected a type keyword to start a function, got %s",
			p.curTok.Line, p.curTok.Type))
		return nil
	}
	retType := p.curTok.Literal
	lineStart := p.curTok.Line

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curTok.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	stmts := p.parseStmtsUntil(token.RBRACE)
	lineEnd := p.curTok.Line // RBRACE line

	return &ast.Function{
		ReturnType: retType,
		Name:       name,
		Params:     params,
		Stmts:      stmts,
		LineStart:  lineStart,
		LineEnd:    lineEnd,
	}
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	if p.curIs(token.VOID) && p.peekIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	params = append(params, p.parseParam())
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParam())
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) parseParam() ast.Param {
	typ := p.curTok.Literal
	isArray := false
	if p.peekIs(token.ASTERISK) {
		p.nextToken()
		isArray = true
	}
	p.expectPeek(token.IDENT)
	return ast.Param{Type: typ, Name: p.curTok.Literal, IsArray: isArray}
}

func (p *Parser) parseStmtsUntil(end token.Type) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.curIs(end) && !p.curIs(token.EOF) {
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		}
		p.nextToken()
	}
	return stmts
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.curTok.Type {
	case token.INT, token.FLOAT:
		return p.parseDeclare()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.IDENT:
		return p.parseIdentLedStmt()
	default:
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] unexpected token %s starting a statement",
			p.curTok.Line, p.curTok.Type))
		return nil
	}
}

// parseIdentLedStmt disambiguates assign / increment / functcall, all of
// which start with an identifier.
func (p *Parser) parseIdentLedStmt() ast.Stmt {
	switch {
	case p.peekIs(token.ASSIGN):
		return p.parseAssignFrom(p.curTok.Literal, p.curTok.Line)
	case p.peekIs(token.LBRACKET):
		name := p.curTok.Literal
		line := p.curTok.Line
		p.nextToken() // [
		p.nextToken()
		idx := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		p.expectSemicolons()
		return &ast.Assign{Target: ast.LValue{Name: name, IsArray: true, Index: idx, Line: line}, Expr: val, Line: line}
	case p.peekIs(token.PLUS_PLUS):
		name := p.curTok.Literal
		line := p.curTok.Line
		p.nextToken() // ++
		p.expectSemicolons()
		return &ast.Increment{Target: ast.LValue{Name: name, Line: line}, Line: line}
	case p.peekIs(token.LPAREN):
		callee := p.curTok.Literal
		line := p.curTok.Line
		p.nextToken() // (
		p.nextToken()
		args := p.parseArgs()
		p.expectSemicolons()
		return &ast.FunctCall{Callee: callee, Args: args, Line: line}
	default:
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] unexpected token %s after identifier %s",
			p.peekTok.Line, p.peekTok.Type, p.curTok.Literal))
		return nil
	}
}

func (p *Parser) parseAssignFrom(name string, line int) ast.Stmt {
	p.nextToken() // now at ASSIGN
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.expectSemicolons()
	return &ast.Assign{Target: ast.LValue{Name: name, Line: line}, Expr: val, Line: line}
}

// expectSemicolons consumes any trailing `;` (zero or more; the grammar allows
// semicolonlist, matching cyacc.py's p_semicolonlist).
func (p *Parser) expectSemicolons() {
	for p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) parseDeclare() ast.Stmt {
	typ := p.curTok.Literal
	line := p.curTok.Line
	var vars []ast.Declarator

	parseOne := func() {
		if p.peekIs(token.ASTERISK) {
			p.nextToken()
		}
		p.expectPeek(token.IDENT)
		name := p.curTok.Literal
		vline := p.curTok.Line
		if p.peekIs(token.LBRACKET) {
			p.nextToken()
			p.nextToken()
			size := p.parseExpression(LOWEST)
			p.expectPeek(token.RBRACKET)
			vars = append(vars, ast.Declarator{Name: name, IsArray: true, SizeExpr: size, Line: vline})
		} else {
			vars = append(vars, ast.Declarator{Name: name, Line: vline})
		}
	}

	parseOne()
	for p.peekIs(token.COMMA) {
		p.nextToken()
		parseOne()
	}
	p.expectSemicolons()
	return &ast.Declare{Type: typ, Vars: vars, Line: line}
}

func (p *Parser) parseReturn() ast.Stmt {
	line := p.curTok.Line
	if p.peekIs(token.SEMICOLON) {
		p.expectSemicolons()
		return &ast.Return{Line: line}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.expectSemicolons()
	return &ast.Return{Value: val, Line: line}
}

func (p *Parser) parseCondition() *ast.Condition {
	line := p.curTok.Line
	if !p.curIs(token.IDENT) {
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] condition must start with an identifier", line))
		return nil
	}
	v := p.curTok.Literal
	p.nextToken()
	cmp := p.curTok.Literal
	switch p.curTok.Type {
	case token.LT, token.GT, token.LTE, token.GTE, token.EQ, token.NEQ:
	default:
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] invalid comparator %q", p.curTok.Line, p.curTok.Literal))
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	return &ast.Condition{Var: v, Cmp: cmp, Expr: expr, Line: line}
}

func (p *Parser) parseIf() ast.Stmt {
	lineStart := p.curTok.Line
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseCondition()
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	stmts := p.parseStmtsUntil(token.RBRACE)
	lineEnd := p.curTok.Line
	return &ast.If{Condition: cond, Stmts: stmts, LineStart: lineStart, LineEnd: lineEnd}
}

func (p *Parser) parseFor() ast.Stmt {
	lineStart := p.curTok.Line
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	if !p.curIs(token.IDENT) || !p.peekIs(token.ASSIGN) {
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] for-loop init must be an assignment", p.curTok.Line))
		return nil
	}
	name := p.curTok.Literal
	line := p.curTok.Line
	p.nextToken() // =
	p.nextToken()
	initVal := p.parseExpression(LOWEST)
	assign := &ast.Assign{Target: ast.LValue{Name: name, Line: line}, Expr: initVal, Line: line}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	cond := p.parseCondition()
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	if !p.curIs(token.IDENT) || !p.peekIs(token.PLUS_PLUS) {
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] for-loop step must be an increment", p.curTok.Line))
		return nil
	}
	incName := p.curTok.Literal
	incLine := p.curTok.Line
	p.nextToken() // ++
	increment := &ast.Increment{Target: ast.LValue{Name: incName, Line: incLine}, Line: incLine}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	stmts := p.parseStmtsUntil(token.RBRACE)
	lineEnd := p.curTok.Line

	return &ast.For{
		Assign:    assign,
		Increment: increment,
		Condition: cond,
		Stmts:     stmts,
		LineStart: lineStart,
		LineEnd:   lineEnd,
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	if p.curIs(token.RPAREN) {
		return args
	}
	if p.curIs(token.STRING) {
		args = append(args, &ast.StringLit{Value: p.curTok.Literal, Line: p.curTok.Line})
	} else {
		args = append(args, p.parseExpression(LOWEST))
	}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RPAREN)
	return args
}

// parseExpression implements precedence climbing over the grammar's four
// binary operators, with casting/array/call/paren as prefix forms.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		op := p.peekTok.Literal
		line := p.peekTok.Line
		p.nextToken()
		p.nextToken()
		right := p.parseExpression(precedences[token.Type(op)])
		left = &ast.BinOp{Op: op, LHS: left, RHS: right, Line: line}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.curTok.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.IDENT:
		return p.parseIdentOrCallOrArray()
	case token.LPAREN:
		return p.parseParenOrCast()
	default:
		p.errors = append(p.errors, fmt.Sprintf("[Line %d] unexpected token %s in expression",
			p.curTok.Line, p.curTok.Type))
		return nil
	}
}

func (p *Parser) parseNumber() ast.Expr {
	lit := p.curTok.Literal
	line := p.curTok.Line
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		if i, err2 := strconv.ParseInt(lit, 10, 64); err2 == nil {
			return &ast.Number{IntVal: i, FloatVal: f, Line: line}
		}
		return &ast.Number{IsFloat: true, FloatVal: f, Line: line}
	}
	p.errors = append(p.errors, fmt.Sprintf("[Line %d] could not parse %q as a number", line, lit))
	return nil
}

func (p *Parser) parseIdentOrCallOrArray() ast.Expr {
	name := p.curTok.Literal
	line := p.curTok.Line
	switch {
	case p.peekIs(token.LBRACKET):
		p.nextToken()
		p.nextToken()
		idx := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.ArrayRef{Name: name, Index: idx, Line: line}
	case p.peekIs(token.LPAREN):
		p.nextToken()
		p.nextToken()
		args := p.parseArgs()
		return &ast.FunctCall{Callee: name, Args: args, Line: line}
	default:
		return &ast.Id{Name: name, Line: line}
	}
}

func (p *Parser) parseParenOrCast() ast.Expr {
	line := p.curTok.Line
	if p.peekIs(token.INT) || p.peekIs(token.FLOAT) {
		p.nextToken()
		typ := p.curTok.Literal
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		p.nextToken()
		inner := p.parseExpression(LOWEST)
		return &ast.Casting{Type: typ, Expr: inner, Line: line}
	}
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return inner
}
