package interp

import (
	"cstep/internal/ast"
	"cstep/internal/optimize"
	"cstep/internal/values"
)

// eval implements C3: recursive evaluation over an expression AST with
// suspension on function calls (spec §4.3). complete=false means a nested
// function call needed to be pushed onto the main stack; the caller must
// stop and let the stepper resume on a future call once the callee returns.
func (it *Interpreter) eval(frame *FunctionFrame, expr ast.Expr, line int) (bool, values.Value, error) {
	switch e := expr.(type) {
	case *ast.Number:
		if e.IsFloat {
			return true, values.FloatValue(e.FloatVal), nil
		}
		return true, values.IntValue(e.IntVal), nil

	case *ast.Id:
		b, ok := frame.Store.Get(e.Name)
		if !ok {
			return false, nil, errf(line, "Variable %s not found", e.Name)
		}
		it.Recorder.OnRead(frame.Opt, e.Name, line)
		v, err := b.ReadScalar()
		if err != nil {
			return false, nil, errf(line, "%s", err)
		}
		return true, v, nil

	case *ast.ArrayRef:
		it.Recorder.AccessCSI(frame.Opt, e.String(), optimize.FreeVars(e), line, it.typeOf(frame))
		complete, idxVal, err := it.eval(frame, e.Index, line)
		if err != nil {
			return false, nil, err
		}
		if !complete {
			return false, nil, errf(line, "array index of %s cannot be resolved synchronously", e.Name)
		}
		idx := int(values.AsFloat(idxVal))
		b, ok := frame.Store.Get(e.Name)
		if !ok {
			return false, nil, errf(line, "Variable %s not found", e.Name)
		}
		key := arrayElemKey(e.Name, idx)
		it.Recorder.OnRead(frame.Opt, key, line)
		v, err := b.ReadElement(idx)
		if err != nil {
			return false, nil, errf(line, "%s", err)
		}
		return true, v, nil

	case *ast.Casting:
		it.Recorder.AccessCSI(frame.Opt, e.String(), optimize.FreeVars(e), line, it.typeOf(frame))
		complete, inner, err := it.eval(frame, e.Expr, line)
		if err != nil || !complete {
			return complete, nil, err
		}
		v, err := values.Coerce(e.Type, inner)
		if err != nil {
			return false, nil, errf(line, "Invalid casting %s", e.Type)
		}
		return true, v, nil

	case *ast.BinOp:
		it.Recorder.AccessCSI(frame.Opt, e.String(), optimize.FreeVars(e), line, it.typeOf(frame))
		completeL, lv, err := it.eval(frame, e.LHS, line)
		if err != nil || !completeL {
			return completeL, nil, err
		}
		completeR, rv, err := it.eval(frame, e.RHS, line)
		if err != nil || !completeR {
			return completeR, nil, err
		}
		switch e.Op {
		case "+":
			return true, values.Add(lv, rv), nil
		case "-":
			return true, values.Sub(lv, rv), nil
		case "*":
			return true, values.Mul(lv, rv), nil
		case "/":
			v, err := values.Div(lv, rv)
			if err != nil {
				return false, nil, errf(line, "%s", err)
			}
			return true, v, nil
		default:
			return false, nil, errf(line, "Invalid operator %s", e.Op)
		}

	case *ast.FunctCall:
		return it.evalCall(frame, e, line)

	default:
		return false, nil, errf(line, "unexpected expression node %T", expr)
	}
}

// typeOf returns a closure the recorder uses to pick a CSE temporary's
// declared type from one of the expression's free variables.
func (it *Interpreter) typeOf(frame *FunctionFrame) func(string) (string, bool) {
	return func(name string) (string, bool) {
		b, ok := frame.Store.Get(name)
		if !ok {
			return "", false
		}
		return b.Type, true
	}
}

// evalCall resolves a function-call node, shared by both expression context
// (here) and a bare functcall statement (stepper.go). If the call already
// resolved on an earlier suspension, the queued result is consumed and no
// suspension happens (spec §4.3 bullet 4: "the next invocation of eval on
// this expression sees a number node and completes").
func (it *Interpreter) evalCall(frame *FunctionFrame, call *ast.FunctCall, line int) (bool, values.Value, error) {
	if len(frame.PendingResults) > 0 {
		v := frame.PendingResults[0]
		frame.PendingResults = frame.PendingResults[1:]
		return true, v, nil
	}

	args := make([]values.Value, 0, len(call.Args))
	for _, argExpr := range call.Args {
		complete, v, err := it.eval(frame, argExpr, line)
		if err != nil {
			return false, nil, err
		}
		if !complete {
			// Ordering is strictly left-to-right (spec §5): if this
			// argument suspends, the whole call suspends without
			// touching later arguments.
			return false, nil, nil
		}
		args = append(args, v)
	}

	callee, err := it.callFunction(call.Callee, args, line)
	if err != nil {
		return false, nil, err
	}
	it.MainStack = append(it.MainStack, callee)
	it.CurrentLine = callee.Def.LineStart
	return false, nil, nil
}
