package parser

import (
	"testing"

	"cstep/internal/ast"
	"cstep/internal/lexer"
)

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errs := p.Errors()
	if len(errs) == 0 {
		return
	}
	for _, msg := range errs {
		t.Errorf("parser error: %s", msg)
	}
	t.FailNow()
}

func TestParseSimpleFunction(t *testing.T) {
	input := `int main(){int a;int b;a=5;b=a;printf("%d\n",b);}`

	l := lexer.New(input)
	p := New(l)
	funcs := p.ParseProgram()
	checkParserErrors(t, p)

	if len(funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(funcs))
	}
	main := funcs[0]
	if main.Name != "main" {
		t.Fatalf("expected function named main, got %q", main.Name)
	}
	if len(main.Stmts) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(main.Stmts))
	}

	if _, ok := main.Stmts[0].(*ast.Declare); !ok {
		t.Errorf("stmt 0 not *ast.Declare, got %T", main.Stmts[0])
	}
	assign, ok := main.Stmts[2].(*ast.Assign)
	if !ok {
		t.Fatalf("stmt 2 not *ast.Assign, got %T", main.Stmts[2])
	}
	if assign.Target.Name != "a" {
		t.Errorf("expected assign target a, got %s", assign.Target.Name)
	}
	call, ok := main.Stmts[4].(*ast.FunctCall)
	if !ok {
		t.Fatalf("stmt 4 not *ast.FunctCall, got %T", main.Stmts[4])
	}
	if call.Callee != "printf" || len(call.Args) != 2 {
		t.Errorf("unexpected printf call: %+v", call)
	}
}

func TestParseForLoop(t *testing.T) {
	input := `int main(){int i;int total;total=0;for(i=0;i<3;i++){total=total+i;}}`
	l := lexer.New(input)
	p := New(l)
	funcs := p.ParseProgram()
	checkParserErrors(t, p)

	main := funcs[0]
	forStmt, ok := main.Stmts[3].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", main.Stmts[3])
	}
	if forStmt.Condition.Var != "i" || forStmt.Condition.Cmp != "<" {
		t.Errorf("unexpected for-condition: %+v", forStmt.Condition)
	}
	if len(forStmt.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(forStmt.Stmts))
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	input := `int main(){int c;c=a*b+i;}`
	l := lexer.New(input)
	p := New(l)
	funcs := p.ParseProgram()
	checkParserErrors(t, p)

	assign := funcs[0].Stmts[1].(*ast.Assign)
	top, ok := assign.Expr.(*ast.BinOp)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level + binop, got %#v", assign.Expr)
	}
	lhs, ok := top.LHS.(*ast.BinOp)
	if !ok || lhs.Op != "*" {
		t.Fatalf("expected a*b to bind tighter than +i, got %#v", top.LHS)
	}
}

func TestParseFunctionCallInExpression(t *testing.T) {
	input := `int add(int x,int y){return x+y;} int main(){int c;c=add(2,3)+1;}`
	l := lexer.New(input)
	p := New(l)
	funcs := p.ParseProgram()
	checkParserErrors(t, p)

	if len(funcs) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(funcs))
	}
	main := funcs[1]
	assign := main.Stmts[1].(*ast.Assign)
	top := assign.Expr.(*ast.BinOp)
	if _, ok := top.LHS.(*ast.FunctCall); !ok {
		t.Fatalf("expected functcall on lhs of +, got %#v", top.LHS)
	}
}
