package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cstep/internal/interp"
	"cstep/internal/values"
)

// runREPL drives the interactive pass (C7): one next/print/trace loop over
// it, grounded on spec §6.3's exact prompt and command grammar. lines is the
// 1-indexed source line table, used to echo the current statement's source
// text after every "next" the way the original's REPL did (see DESIGN.md).
func runREPL(it *interp.Interpreter, lines []string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if it.Done() {
			fmt.Fprintln(out, "End of Program")
			return nil
		}

		fmt.Fprint(out, "Input Command(next [number] / print [variable] / trace [variable]): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}
		fields := strings.Fields(cmd)

		switch fields[0] {
		case "next":
			n := 1
			if len(fields) > 1 {
				v, err := strconv.Atoi(fields[1])
				if err == nil && v > 0 {
					n = v
				}
			}
			if err := stepN(it, n, out); err != nil {
				return err
			}
			echoCurrentLine(it, lines, out)

		case "print":
			if len(fields) < 2 {
				continue
			}
			printVariable(it, fields[1], out)

		case "trace":
			if len(fields) < 2 {
				continue
			}
			traceVariable(it, fields[1], out)

		default:
			fmt.Fprintf(out, "Unknown command: %s\n", fields[0])
		}
	}
}

// echoCurrentLine prints the source text of the statement the interpreter is
// now paused on, unless the program has already finished.
func echoCurrentLine(it *interp.Interpreter, lines []string, out io.Writer) {
	if it.Done() {
		return
	}
	line := it.CurrentLine
	if line <= 0 || line >= len(lines) {
		return
	}
	fmt.Fprintf(out, "Current stmt: %s\n", strings.TrimSpace(lines[line]))
}

func stepN(it *interp.Interpreter, n int, out io.Writer) error {
	for i := 0; i < n; i++ {
		done, err := it.StepOneLine()
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(out, "End of Program")
			return nil
		}
	}
	return nil
}

func printVariable(it *interp.Interpreter, name string, out io.Writer) {
	frame := it.CurrentFunctionFrame()
	if frame == nil {
		fmt.Fprintln(out, "Invisible variable")
		return
	}
	b, ok := frame.Store.Get(name)
	if !ok {
		fmt.Fprintln(out, "Invisible variable")
		return
	}
	if b.IsArray {
		fmt.Fprintf(out, "%s = %s\n", name, formatElements(b.Elements))
		return
	}
	v, err := b.ReadScalar()
	if err != nil || v == nil {
		fmt.Fprintln(out, "Invisible variable")
		return
	}
	fmt.Fprintf(out, "%s = %s\n", name, v.String())
}

func traceVariable(it *interp.Interpreter, name string, out io.Writer) {
	frame := it.CurrentFunctionFrame()
	if frame == nil {
		fmt.Fprintln(out, "Invisible variable")
		return
	}
	b, ok := frame.Store.Get(name)
	if !ok {
		fmt.Fprintln(out, "Invisible variable")
		return
	}
	for _, h := range b.History {
		if b.IsArray {
			fmt.Fprintf(out, "%s = %s at line %d\n", name, formatElements(h.Elements), h.Line)
		} else {
			val := "?"
			if h.Scalar != nil {
				val = h.Scalar.String()
			}
			fmt.Fprintf(out, "%s = %s at line %d\n", name, val, h.Line)
		}
	}
}

func formatElements(elems []values.Value) string {
	parts := make([]string, len(elems))
	for i, v := range elems {
		if v == nil {
			parts[i] = "?"
		} else {
			parts[i] = v.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
