// cstep-parsetool parses a snippet of source and dumps the resulting
// function forest, adapted from cmd/debug_parser/main.go.
package main

import (
	"fmt"
	"os"

	"cstep/internal/lexer"
	"cstep/internal/parser"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cstep-parsetool '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	l := lexer.New(input)
	p := parser.New(l)

	funcs := p.ParseProgram()

	if errs := p.Errors(); len(errs) != 0 {
		fmt.Println("Parser errors:")
		for _, msg := range errs {
			fmt.Printf("  %s\n", msg)
		}
		fmt.Println()
	}

	for _, fn := range funcs {
		fmt.Printf("%s (%d statements, lines %d-%d)\n", fn.String(), len(fn.Stmts), fn.LineStart, fn.LineEnd)
		for i, stmt := range fn.Stmts {
			fmt.Printf("  [%d] %s\n", i, stmt.String())
		}
	}
}
