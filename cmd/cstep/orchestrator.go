package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cstep/internal/ast"
	"cstep/internal/config"
	"cstep/internal/interp"
	"cstep/internal/lexer"
	"cstep/internal/optimize"
	"cstep/internal/parser"
	"cstep/internal/report"
)

// toLineTable splits src into a 1-indexed line table: index 0 is unused
// padding so table[L] is source line L, matching spec §3's 1-indexed
// line convention used throughout internal/optimize.
func toLineTable(src string) []string {
	raw := strings.Split(src, "\n")
	table := make([]string, len(raw)+1)
	copy(table[1:], raw)
	return table
}

func fromLineTable(table []string) string {
	return strings.Join(table[1:], "\n")
}

func parseSource(src string) ([]*ast.Function, error) {
	l := lexer.New(src)
	p := parser.New(l)
	funcs := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("parse errors: %s", strings.Join(errs, "; "))
	}
	return funcs, nil
}

// runSilently re-interprets src to completion with output suppressed,
// returning the interpreter whose Recorder observed the run (spec §4.7: "silent
// re-interpret of CP-rewritten source (resets interpreter state)").
func runSilently(src, entry string) (*interp.Interpreter, error) {
	funcs, err := parseSource(src)
	if err != nil {
		return nil, err
	}
	it, err := interp.NewInterpreter(funcs, io.Discard)
	if err != nil {
		return nil, err
	}
	it.InOptimization = true
	if err := it.Start(entry, nil); err != nil {
		return nil, err
	}
	for {
		done, err := it.StepOneLine()
		if err != nil {
			return nil, err
		}
		if done {
			return it, nil
		}
	}
}

// orchestrate runs C8: the CP rewrite pass, the silent CSE-gathering
// re-interpretation, the CSE rewrite pass, and the output.c write, in the
// order spec §4.7 fixes.
func orchestrate(cfg *config.Config, cpRecorder *optimize.Recorder, src, entry string) error {
	lines := toLineTable(src)

	cpLines := optimize.RewriteCP(lines, cpRecorder.CPTable)
	cpSource := fromLineTable(cpLines)

	reRun, err := runSilently(cpSource, entry)
	if err != nil {
		return fmt.Errorf("re-interpreting CP-optimized source: %w", err)
	}

	csLines := optimize.RewriteCSE(cpLines, reRun.Recorder.CSTable)
	finalSource := fromLineTable(csLines)

	if err := writeOutput(cfg, finalSource); err != nil {
		return err
	}

	maybeMailReport(cfg, cpRecorder, reRun.Recorder, finalSource)
	return nil
}

func writeOutput(cfg *config.Config, content string) error {
	if _, err := os.Stat(cfg.OutputFile); err == nil {
		passphrase := os.Getenv("CSTEP_WRITE_PASSPHRASE")
		if !cfg.AllowsOverwrite(passphrase) {
			return fmt.Errorf("refusing to overwrite %s: passphrase did not verify", cfg.OutputFile)
		}
	}
	return os.WriteFile(cfg.OutputFile, []byte(content), 0o644)
}

func maybeMailReport(cfg *config.Config, cpRecorder, csRecorder *optimize.Recorder, finalSource string) {
	if cfg.ReportTo == "" {
		return
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	smtp := report.SMTPConfig{
		Host: os.Getenv("SMTP_HOST"),
		Port: port,
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
	}
	if smtp.Host == "" || smtp.Port == 0 {
		fmt.Fprintln(os.Stderr, "CSTEP_REPORT_TO set but SMTP_HOST/SMTP_PORT are not; skipping report")
		return
	}
	sum := report.Summary{
		SourceFile:       cfg.InputDir,
		CopyPropagations: len(cpRecorder.CPTable),
		CommonSubexprs:   len(csRecorder.CSTable),
		OutputFile:       cfg.OutputFile,
	}
	if err := report.Send(smtp, cfg.ReportTo, sum); err != nil {
		fmt.Fprintf(os.Stderr, "failed to mail optimization report: %s\n", err)
	}
}
