// Package optimize implements C5 (the optimization recorder: per-function
// CP/CSE tables fed by hooks the evaluator and stepper call during
// execution) and C6 (the source rewriter that regenerates optimized
// source text from the recorded facts). Grounded on
// _examples/original_source/coptimization.py, restructured per spec §9
// as an explicit context instead of module globals.
package optimize

import "cstep/internal/ast"

// CPI is a Copy Propagation Information record: what a variable was last
// assigned, if that assignment was a direct copy or constant.
type CPI struct {
	Rhs    string
	HasRhs bool
	Line   int
}

func (c *CPI) assign(rhs string, hasRhs bool, line int) {
	c.Rhs, c.HasRhs, c.Line = rhs, hasRhs, line
}

// CSI is a Common Subexpression Information record: the free variables an
// expression string depends on, and the line numbers where it was
// re-evaluated unchanged. A sole element of -1 means "invalidated".
type CSI struct {
	UsedVars []string
	Lines    []int
}

func usesVar(vars []string, name string) bool {
	for _, v := range vars {
		if v == name {
			return true
		}
	}
	return false
}

// CPKey identifies one global copy-propagation rewrite site.
type CPKey struct {
	Line   int
	Target string // variable name, or "a[i]" form for an array element
}

// CSEntry is one publishable common-subexpression rewrite class: the
// type to declare the hoisted temporary as, and the set of lines sharing
// the value.
type CSEntry struct {
	Type  string
	Lines map[int]bool
}

// FuncOpt holds one function invocation's local CPI/CSI stacks (the
// original's per-function Optimization instance). A fresh FuncOpt belongs
// to each FunctionFrame; the two result tables below are shared by the
// whole program instead.
type FuncOpt struct {
	cpis map[string][]*CPI
	csis map[string][]*CSI
}

func NewFuncOpt() *FuncOpt {
	return &FuncOpt{cpis: make(map[string][]*CPI), csis: make(map[string][]*CSI)}
}

// Recorder holds the two global rewrite-result tables shared across every
// function in the program (coptimization.py's module-level CP_DICT/CS_DICT).
type Recorder struct {
	CPTable map[CPKey]string
	CSTable map[string][]*CSEntry
}

func NewRecorder() *Recorder {
	return &Recorder{
		CPTable: make(map[CPKey]string),
		CSTable: make(map[string][]*CSEntry),
	}
}

// --- Copy propagation ---

func (f *FuncOpt) DeclareCPI(name string, line int) {
	f.cpis[name] = append(f.cpis[name], &CPI{Line: line})
}

func (f *FuncOpt) getCPI(name string) *CPI {
	stack := f.cpis[name]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

func (f *FuncOpt) ReleaseCPI(name string) {
	stack := f.cpis[name]
	if len(stack) == 0 {
		return
	}
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(f.cpis, name)
	} else {
		f.cpis[name] = stack
	}
}

// OnAssign updates lhs's CPI per spec §4.5 and invalidates any CPI that
// was pointing at lhs as its rhs (the original's "cpi should be deleted
// if it has just assigned variable as rhs" rule — no transitive alias
// invalidation beyond this single hop, matching source behavior; see
// DESIGN.md).
func (f *FuncOpt) OnAssign(lhs string, expr ast.Expr, line int) {
	cpi := f.getCPI(lhs)
	if cpi == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Number:
		cpi.assign(e.String(), true, line)
	case *ast.Id:
		cpi.assign(e.Name, true, line)
	default:
		cpi.assign("", false, line)
	}

	for _, stack := range f.cpis {
		top := stack[len(stack)-1]
		if top.HasRhs && top.Rhs == lhs {
			top.assign("", false, line)
		}
	}

	for _, stack := range f.csis {
		top := stack[len(stack)-1]
		if usesVar(top.UsedVars, lhs) {
			top.Lines = []int{-1}
		}
	}
}

// OnIncrement invalidates name's CPI (an increment is never a direct
// copy/constant).
func (f *FuncOpt) OnIncrement(name string, line int) {
	cpi := f.getCPI(name)
	if cpi == nil {
		return
	}
	cpi.assign("", false, line)
	for _, stack := range f.cpis {
		top := stack[len(stack)-1]
		if top.HasRhs && top.Rhs == name {
			top.assign("", false, line)
		}
	}
}

// OnRead records or clears a global CP rewrite opportunity for a read of
// name at line (spec §4.5).
func (r *Recorder) OnRead(f *FuncOpt, name string, line int) {
	cpi := f.getCPI(name)
	if cpi == nil {
		return
	}
	key := CPKey{Line: line, Target: name}
	if cpi.HasRhs {
		r.CPTable[key] = cpi.Rhs
	} else {
		delete(r.CPTable, key)
	}
}

// InvalidateAssignedAtScopeExit implements the "copy propagation cannot
// be from inner scope to outer scope" rule (spec §4.2/§9): every variable
// assigned inside a scope (even if declared outside it) has its CPI
// forced null when that scope exits.
func (f *FuncOpt) InvalidateAssignedAtScopeExit(names []string, line int) {
	for _, name := range names {
		if cpi := f.getCPI(name); cpi != nil {
			cpi.assign("", false, line)
		}
	}
}

// --- Common subexpression elimination ---

// AccessCSI records one evaluation of exprStr (spec §4.5's three cases:
// first encounter, re-arm after invalidation, live re-encounter). A
// variable-free expression (no free vars at all, e.g. a constant-only
// subexpression) is never published: coptimization.py's add_cs is only
// ever called when len(used_var) > 0, so a constant subexpression is
// tracked here but intentionally never hoisted into a temporary.
func (r *Recorder) AccessCSI(f *FuncOpt, exprStr string, usedVars []string, line int, typeOf func(string) (string, bool)) {
	stack := f.csis[exprStr]
	if len(stack) == 0 {
		f.csis[exprStr] = []*CSI{{UsedVars: usedVars, Lines: []int{line}}}
		return
	}
	top := stack[len(stack)-1]
	if len(top.Lines) > 0 && top.Lines[len(top.Lines)-1] == -1 {
		top.Lines[len(top.Lines)-1] = line
		return
	}
	top.Lines = append(top.Lines, line)
	if len(top.Lines) >= 2 && len(usedVars) > 0 {
		typ := "int"
		if t, ok := typeOf(usedVars[0]); ok {
			typ = t
		}
		r.publishCS(typ, exprStr, top.Lines)
	}
}

// publishCS implements add_cs's subset-overwrite rule (spec §4.5/§9):
// not symmetric, kept as given.
func (r *Recorder) publishCS(typ, exprStr string, lines []int) {
	if len(lines) < 2 {
		return
	}
	target := make(map[int]bool, len(lines))
	for _, l := range lines {
		target[l] = true
	}
	entries := r.CSTable[exprStr]
	for _, e := range entries {
		if isSubset(e.Lines, target) {
			e.Type = typ
			e.Lines = target
			return
		}
	}
	r.CSTable[exprStr] = append(entries, &CSEntry{Type: typ, Lines: target})
}

func isSubset(a, b map[int]bool) bool {
	for l := range a {
		if !b[l] {
			return false
		}
	}
	return true
}

// OnDeclareCSI pushes a fresh shadow CSI (sentinel -1) for every existing
// expression string that already used the re-declared name, so the new
// scope's occurrences of that expression start unarmed.
func (f *FuncOpt) OnDeclareCSI(name string) {
	for exprStr, stack := range f.csis {
		top := stack[len(stack)-1]
		if usesVar(top.UsedVars, name) {
			f.csis[exprStr] = append(stack, &CSI{UsedVars: top.UsedVars, Lines: []int{-1}})
		}
	}
}

// OnReleaseCSI tears down the shadow pushed for name on scope exit.
func (f *FuncOpt) OnReleaseCSI(name string) {
	var toRelease []string
	for exprStr, stack := range f.csis {
		top := stack[len(stack)-1]
		if usesVar(top.UsedVars, name) {
			toRelease = append(toRelease, exprStr)
		}
	}
	for _, exprStr := range toRelease {
		stack := f.csis[exprStr]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(f.csis, exprStr)
		} else {
			f.csis[exprStr] = stack
		}
	}
}

// FreeVars collects every identifier/array name appearing in expr,
// de-duplicated, in first-occurrence order.
func FreeVars(expr ast.Expr) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.Id:
			add(n.Name)
		case *ast.ArrayRef:
			add(n.Name)
			walk(n.Index)
		case *ast.Casting:
			walk(n.Expr)
		case *ast.BinOp:
			walk(n.LHS)
			walk(n.RHS)
		case *ast.FunctCall:
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(expr)
	return out
}
