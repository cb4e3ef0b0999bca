package interp

import (
	"fmt"
	"strings"

	"cstep/internal/ast"
	"cstep/internal/scope"
	"cstep/internal/values"
)

type stepResult int

const (
	stepAdvanced stepResult = iota
	stepSuspended
	stepDone
)

// StepOneLine advances the interpreter by exactly one source line (spec
// §4.4): it runs statements as long as they share the current line (a
// for-header's assign/increment/condition all sit on one line) and stops
// at the next line boundary, a suspension, or program completion. The
// returned bool is true once the main stack has emptied.
func (it *Interpreter) StepOneLine() (bool, error) {
	if it.Done() {
		return true, nil
	}
	for {
		res, err := it.execOneStatement()
		if err != nil {
			return false, err
		}
		if res == stepDone {
			return true, nil
		}
		if res == stepSuspended {
			return false, nil
		}
		if it.Done() {
			return true, nil
		}
		frame, ok := it.MainStack[len(it.MainStack)-1].(*FunctionFrame)
		if !ok {
			continue // a return sentinel sits on top; the next pass drains it
		}
		cur := frame.CurrentScope()
		if cur == nil {
			continue // the frame is about to unwind on the next pass
		}
		nextLine := lineOf(cur.Current())
		if nextLine == it.CurrentLine {
			continue // still inside the same source line
		}
		it.CurrentLine = nextLine
		return false, nil
	}
}

// execOneStatement drains any pending return sentinel, then dispatches
// exactly one AST statement of the frame now on top.
func (it *Interpreter) execOneStatement() (stepResult, error) {
	for !it.Done() {
		rf, ok := it.MainStack[len(it.MainStack)-1].(*ReturnFrame)
		if !ok {
			break
		}
		it.MainStack = it.MainStack[:len(it.MainStack)-1]
		if it.Done() {
			return stepDone, nil
		}
		caller, ok := it.MainStack[len(it.MainStack)-1].(*FunctionFrame)
		if !ok {
			return stepDone, errf(0, "internal: expected a function frame beneath a return sentinel")
		}
		caller.PendingResults = append(caller.PendingResults, rf.Value)
		if cur := caller.CurrentScope(); cur != nil {
			it.CurrentLine = lineOf(cur.Current())
		}
	}
	if it.Done() {
		return stepDone, nil
	}

	frame, ok := it.MainStack[len(it.MainStack)-1].(*FunctionFrame)
	if !ok {
		return stepDone, errf(0, "internal: expected a function frame on top of stack")
	}

	cur := frame.CurrentScope()
	if cur == nil || cur.IsDone() {
		// Either the scope stack emptied, or the top scope (possibly an
		// empty function body) is already done: drain it instead of
		// dispatching, which would index past an empty Steps list.
		it.drainScopes(frame)
		if it.Done() {
			return stepDone, nil
		}
		return stepAdvanced, nil
	}

	advanced, err := it.dispatch(frame, cur, cur.Current())
	if err != nil {
		return stepAdvanced, err
	}
	if !advanced {
		return stepSuspended, nil
	}

	it.drainScopes(frame)
	return stepAdvanced, nil
}

// drainScopes pops every IF/FOR scope that just finished, releasing its
// locals and invalidating copy-propagation across the scope boundary (spec
// §4.2/§4.5), and advances the enclosing scope past the construct that just
// completed. When the function's own scope empties, the frame itself is
// popped and an implicit return delivered to the caller.
func (it *Interpreter) drainScopes(frame *FunctionFrame) {
	for {
		cur := frame.CurrentScope()
		if cur == nil || !cur.IsDone() {
			return
		}
		it.CurrentLine = cur.LineEnd
		if cur.Kind != scope.Func {
			for _, name := range cur.Locals {
				frame.releaseVariable(name)
			}
			frame.Opt.InvalidateAssignedAtScopeExit(cur.AssignedVars, it.CurrentLine)
		}
		frame.PopScope()
		next := frame.CurrentScope()
		if next == nil {
			it.MainStack = it.MainStack[:len(it.MainStack)-1]
			if !it.Done() {
				it.MainStack = append(it.MainStack, &ReturnFrame{})
			}
			return
		}
		next.Advance()
	}
}

// dispatch executes exactly one statement of cur (spec §4.4's per-kind
// rules). It returns advanced=false without error when an expression
// suspended on a function call; the same statement is re-dispatched on a
// future step once the callee resolves.
func (it *Interpreter) dispatch(frame *FunctionFrame, cur *scope.Scope, stmt ast.Stmt) (bool, error) {
	switch s := stmt.(type) {
	case *ast.Declare:
		for _, d := range s.Vars {
			size := 1
			if d.IsArray {
				complete, v, err := it.eval(frame, d.SizeExpr, d.Line)
				if err != nil {
					return false, err
				}
				if !complete {
					return false, errf(d.Line, "array size of %s cannot be resolved synchronously", d.Name)
				}
				size = int(values.AsFloat(v))
			}
			frame.declareVariable(d.Name, s.Type, d.IsArray, size, d.Line, nil)
			cur.AddLocal(d.Name)
		}
		cur.Advance()
		return true, nil

	case *ast.Assign:
		return it.dispatchAssign(frame, cur, s)

	case *ast.Increment:
		return it.dispatchIncrement(frame, cur, s)

	case *ast.For:
		frame.PushScope(scope.NewFor(s))
		return true, nil

	case *ast.If:
		frame.PushScope(scope.NewIf(s))
		return true, nil

	case *ast.Condition:
		complete, rv, err := it.eval(frame, s.Expr, s.Line)
		if err != nil || !complete {
			return complete, err
		}
		b, ok := frame.Store.Get(s.Var)
		if !ok {
			return false, errf(s.Line, "Variable %s not found", s.Var)
		}
		lv, err := b.ReadScalar()
		if err != nil {
			return false, errf(s.Line, "%s", err)
		}
		holds, err := values.Compare(s.Cmp, lv, rv)
		if err != nil {
			return false, errf(s.Line, "%s", err)
		}
		if !holds {
			cur.SetDone()
		}
		cur.Advance()
		return true, nil

	case *ast.FunctCall:
		if s.Callee == "printf" {
			return it.dispatchPrintf(frame, cur, s)
		}
		complete, _, err := it.evalCall(frame, s, s.Line)
		if err != nil || !complete {
			return complete, err
		}
		cur.Advance()
		return true, nil

	case *ast.Return:
		var v values.Value
		if s.Value != nil {
			complete, rv, err := it.eval(frame, s.Value, s.Line)
			if err != nil || !complete {
				return complete, err
			}
			v = rv
		}
		it.MainStack = it.MainStack[:len(it.MainStack)-1]
		if !it.Done() {
			it.MainStack = append(it.MainStack, &ReturnFrame{Value: v})
		}
		return true, nil

	default:
		return false, errf(0, "unexpected statement node %T", stmt)
	}
}

func (it *Interpreter) dispatchAssign(frame *FunctionFrame, cur *scope.Scope, s *ast.Assign) (bool, error) {
	name := s.Target.Name
	key := name
	idx := -1
	if s.Target.IsArray {
		complete, idxVal, err := it.eval(frame, s.Target.Index, s.Line)
		if err != nil {
			return false, err
		}
		if !complete {
			return false, errf(s.Line, "array index of %s cannot be resolved synchronously", name)
		}
		idx = int(values.AsFloat(idxVal))
		key = arrayElemKey(name, idx)
	}

	complete, v, err := it.eval(frame, s.Expr, s.Line)
	if err != nil || !complete {
		return complete, err
	}

	b, ok := frame.Store.Get(name)
	if !ok {
		return false, errf(s.Line, "Variable %s not found", name)
	}
	if s.Target.IsArray {
		err = b.AssignElement(idx, v, s.Line)
	} else {
		err = b.AssignScalar(v, s.Line)
	}
	if err != nil {
		return false, errf(s.Line, "%s", err)
	}

	frame.Opt.OnAssign(key, s.Expr, s.Line)
	if !cur.HasLocal(name) {
		cur.AddAssigned(key)
	}
	cur.Advance()
	return true, nil
}

func (it *Interpreter) dispatchIncrement(frame *FunctionFrame, cur *scope.Scope, s *ast.Increment) (bool, error) {
	name := s.Target.Name
	b, ok := frame.Store.Get(name)
	if !ok {
		return false, errf(s.Line, "Variable %s not found", name)
	}

	key := name
	idx := -1
	var current values.Value
	var err error
	if s.Target.IsArray {
		complete, idxVal, ierr := it.eval(frame, s.Target.Index, s.Line)
		if ierr != nil {
			return false, ierr
		}
		if !complete {
			return false, errf(s.Line, "array index of %s cannot be resolved synchronously", name)
		}
		idx = int(values.AsFloat(idxVal))
		key = arrayElemKey(name, idx)
		current, err = b.ReadElement(idx)
	} else {
		current, err = b.ReadScalar()
	}
	if err != nil {
		return false, errf(s.Line, "%s", err)
	}

	next := values.Add(current, values.IntValue(1))
	if s.Target.IsArray {
		err = b.AssignElement(idx, next, s.Line)
	} else {
		err = b.AssignScalar(next, s.Line)
	}
	if err != nil {
		return false, errf(s.Line, "%s", err)
	}

	frame.Opt.OnIncrement(key, s.Line)

	if cur.JustLooped() {
		for _, name := range cur.Locals {
			frame.releaseVariable(name)
		}
		cur.Locals = nil
	}
	cur.Advance()
	return true, nil
}

func (it *Interpreter) dispatchPrintf(frame *FunctionFrame, cur *scope.Scope, call *ast.FunctCall) (bool, error) {
	if len(call.Args) == 0 {
		return false, errf(call.Line, "printf requires a format string")
	}
	format, ok := call.Args[0].(*ast.StringLit)
	if !ok {
		return false, errf(call.Line, "printf's first argument must be a string literal")
	}

	args := make([]values.Value, 0, len(call.Args)-1)
	for _, a := range call.Args[1:] {
		complete, v, err := it.eval(frame, a, call.Line)
		if err != nil {
			return false, err
		}
		if !complete {
			return false, nil
		}
		args = append(args, v)
	}

	if !it.InOptimization && it.Out != nil {
		fmt.Fprint(it.Out, formatPrintf(format.Value, args))
	}
	cur.Advance()
	return true, nil
}

// formatPrintf substitutes %d/%f verbs in order (spec §6.2's C-style
// subset); any other verb is emitted literally.
func formatPrintf(format string, args []values.Value) string {
	var b strings.Builder
	argi := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			b.WriteByte(c)
			continue
		}
		verb := format[i+1]
		switch verb {
		case 'd':
			if argi < len(args) {
				fmt.Fprintf(&b, "%d", int64(values.AsFloat(args[argi])))
				argi++
			}
			i++
		case 'f':
			if argi < len(args) {
				fmt.Fprintf(&b, "%f", values.AsFloat(args[argi]))
				argi++
			}
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func lineOf(stmt ast.Stmt) int {
	switch s := stmt.(type) {
	case *ast.Declare:
		return s.Line
	case *ast.Assign:
		return s.Line
	case *ast.Increment:
		return s.Line
	case *ast.FunctCall:
		return s.Line
	case *ast.Return:
		return s.Line
	case *ast.Condition:
		return s.Line
	case *ast.For:
		return s.LineStart
	case *ast.If:
		return s.LineStart
	default:
		return 0
	}
}
