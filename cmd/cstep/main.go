// cstep is the driver shell (C7) and orchestrator (C8) for the stepping
// C-subset interpreter, grounded on cmd/flowa/main.go's flag handling and
// printUsage style.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cstep/internal/ast"
	"cstep/internal/config"
	"cstep/internal/debugserver"
	"cstep/internal/interp"
	"cstep/internal/lexer"
	"cstep/internal/parser"
	"cstep/internal/sessiontoken"
)

func printUsage() {
	fmt.Println("cstep - a stepping interpreter and optimizer for a C subset")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cstep <file>              Step through <file> (read from the configured input dir)")
	fmt.Println("  cstep --help, -h          Show this help message")
	fmt.Println()
	fmt.Println("After the interactive session completes, cstep writes a copy-propagated")
	fmt.Println("and common-subexpression-eliminated rewrite of the source to output.c.")
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	helpFlag := flag.Bool("help", false, "Show help message")
	helpShort := flag.Bool("h", false, "Show help message")
	serveAddr := flag.String("serve", "", "Serve a live step stream over websocket at this address instead of running the REPL")
	flag.Usage = printUsage
	flag.Parse()

	if *helpFlag || *helpShort {
		printUsage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(0)
	}

	path := filepath.Join(cfg.InputDir, args[0])
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(0)
	}
	src := string(content)

	funcs, perr := parseWithErrors(src)
	if perr != nil {
		fmt.Println(perr)
		os.Exit(0)
	}

	it, err := interp.NewInterpreter(funcs, os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(0)
	}
	if err := it.Start("main", nil); err != nil {
		fmt.Println(err)
		os.Exit(0)
	}

	if *serveAddr != "" {
		srv := &debugserver.Server{It: it}
		fmt.Printf("Serving live step stream on %s\n", *serveAddr)
		if err := http.ListenAndServe(*serveAddr, srv); err != nil {
			fmt.Fprintf(os.Stderr, "debug server error: %v\n", err)
			os.Exit(0)
		}
	} else if err := runREPL(it, toLineTable(src), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(0)
	}

	if cfg.JWTSecret != "" {
		printResumeToken(cfg.JWTSecret, it, src)
	}

	if err := orchestrate(cfg, it.Recorder, src, "main"); err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator error: %v\n", err)
		os.Exit(0)
	}
	fmt.Printf("Wrote optimized source to %s\n", cfg.OutputFile)
}

// printResumeToken signs and prints a debug-session token capturing where
// the interactive pass left off. cstep has no command that reads such a
// token back or resumes a session from it.
func printResumeToken(secret string, it *interp.Interpreter, src string) {
	sum := sha256.Sum256([]byte(src))
	claims := sessiontoken.Claims{
		CurrentLine: it.CurrentLine,
		StackDepth:  len(it.MainStack),
		SourceHash:  hex.EncodeToString(sum[:]),
	}
	tok, err := sessiontoken.Sign(claims, secret, time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign session token: %v\n", err)
		return
	}
	fmt.Printf("Session token: %s\n", tok)
}

func parseWithErrors(src string) ([]*ast.Function, error) {
	l := lexer.New(src)
	p := parser.New(l)
	funcs := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("Parser errors:\n\t%s", strings.Join(errs, "\n\t"))
	}
	return funcs, nil
}
