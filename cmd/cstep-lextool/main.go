// cstep-lextool dumps the token stream for a snippet of source, adapted
// from cmd/debug_tokens/main.go.
package main

import (
	"fmt"
	"os"

	"cstep/internal/lexer"
	"cstep/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cstep-lextool '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	l := lexer.New(input)

	fmt.Printf("Input: %s\n\n", input)
	fmt.Println("Tokens:")
	fmt.Println("-------")

	for {
		tok := l.NextToken()
		fmt.Printf("%-10s %-20s (line %d)\n", tok.Type, fmt.Sprintf("%q", tok.Literal), tok.Line)
		if tok.Type == token.EOF {
			break
		}
	}
}
