// Package scope implements C2: the FUNC/IF/FOR scope records and their
// statement-index advancement rules. Modeled as a tagged variant behind
// one Scope type (per spec §9's redesign note) rather than a class
// hierarchy, the way flowa models its object kinds with one ObjectKind
// enum (pkg/eval/object_kind.go) instead of per-type interfaces.
package scope

import "cstep/internal/ast"

type Kind int

const (
	Func Kind = iota
	If
	For
)

// Scope is one structured control-flow region. Steps is the uniform
// statement list spec §3 describes per variant:
//   - Func: the function body, steps 0..N-1.
//   - If:   [condition, body...].
//   - For:  [assign, increment, condition, body...].
type Scope struct {
	Kind      Kind
	Steps     []ast.Stmt
	Idx       int
	LineStart int
	LineEnd   int

	// Locals are variable names declared directly inside this scope,
	// released (and whose CPI/CSI shadow is torn down) on exit.
	Locals []string
	// AssignedVars are variable names assigned inside this scope but
	// declared in an outer one; spec §4.5 forbids copy propagation from
	// surviving across the scope boundary for these.
	AssignedVars []string

	conditionTrue bool
}

func NewFunc(stmts []ast.Stmt, lineStart, lineEnd int) *Scope {
	return &Scope{Kind: Func, Steps: stmts, LineStart: lineStart, LineEnd: lineEnd, conditionTrue: true}
}

func NewIf(stmt *ast.If) *Scope {
	steps := make([]ast.Stmt, 0, len(stmt.Stmts)+1)
	steps = append(steps, stmt.Condition)
	steps = append(steps, stmt.Stmts...)
	return &Scope{Kind: If, Steps: steps, LineStart: stmt.LineStart, LineEnd: stmt.LineEnd, conditionTrue: true}
}

func NewFor(stmt *ast.For) *Scope {
	steps := make([]ast.Stmt, 0, len(stmt.Stmts)+3)
	steps = append(steps, stmt.Assign, stmt.Increment, stmt.Condition)
	steps = append(steps, stmt.Stmts...)
	return &Scope{Kind: For, Steps: steps, LineStart: stmt.LineStart, LineEnd: stmt.LineEnd, conditionTrue: true}
}

func (s *Scope) Current() ast.Stmt { return s.Steps[s.Idx] }

func (s *Scope) IsDone() bool {
	if s.Kind == Func {
		return s.Idx == len(s.Steps)
	}
	if s.Kind == If && s.Idx == len(s.Steps) {
		return true
	}
	return !s.conditionTrue
}

// SetDone marks an IF/FOR scope done; called when its condition evaluates
// false.
func (s *Scope) SetDone() { s.conditionTrue = false }

// JustLooped reports whether the scope is a FOR loop currently sitting
// right after its increment ran (idx==1) — the point at which the
// stepper must release the body's locals before the condition re-runs
// (spec §4.2).
func (s *Scope) JustLooped() bool {
	return s.Kind == For && s.Idx == 1
}

// Advance applies the per-variant statement-index transition table from
// spec §4.2/§4.4.
func (s *Scope) Advance() {
	switch s.Kind {
	case Func, If:
		s.Idx++
	case For:
		switch {
		case s.Idx == 0:
			// assign just ran: skip the increment on the first pass.
			s.Idx = 2
		case s.Idx >= 3 && s.Idx == len(s.Steps)-1:
			// last body statement just ran: run the increment next.
			s.Idx = 1
		case s.Idx == 1:
			// increment just ran: re-check the condition.
			s.Idx = 2
		case s.Idx == 2 && len(s.Steps) == 3:
			// condition just ran with an empty body: go straight to the
			// increment, then re-check.
			s.Idx = 1
		default:
			s.Idx++
		}
	}
}

// AddLocal records a variable declared directly inside this scope.
func (s *Scope) AddLocal(name string) { s.Locals = append(s.Locals, name) }

// AddAssigned records a variable assigned inside this scope but declared
// outside it.
func (s *Scope) AddAssigned(name string) {
	for _, n := range s.AssignedVars {
		if n == name {
			return
		}
	}
	s.AssignedVars = append(s.AssignedVars, name)
}

func (s *Scope) HasLocal(name string) bool {
	for _, n := range s.Locals {
		if n == name {
			return true
		}
	}
	return false
}
