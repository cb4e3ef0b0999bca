package interp

import (
	"fmt"

	"cstep/internal/ast"
	"cstep/internal/optimize"
	"cstep/internal/scope"
	"cstep/internal/values"
)

// Frame is one entry of the interpreter's main call stack: either a live
// function activation or a sentinel carrying a callee's return value back
// to its caller (spec §3 "Call stack").
type Frame interface{ frameNode() }

// FunctionFrame is one function activation: its own variable store,
// optimization bookkeeping, and scope stack.
type FunctionFrame struct {
	Def   *ast.Function
	Store *values.Store
	Opt   *optimize.FuncOpt
	Scopes []*scope.Scope

	// PendingResults queues resolved call values in encounter order,
	// consumed by the next FunctCall node the re-walked expression
	// reaches. Grounded on former_interpreter.py's Scope.dest FIFO; the
	// queue itself is spec §9's explicit continuation (no AST mutation).
	PendingResults []values.Value
}

func (*FunctionFrame) frameNode() {}

// ReturnFrame carries a returning callee's value to the caller.
type ReturnFrame struct {
	Value values.Value
}

func (*ReturnFrame) frameNode() {}

func newFunctionFrame(def *ast.Function) *FunctionFrame {
	return &FunctionFrame{
		Def:   def,
		Store: values.NewStore(),
		Opt:   optimize.NewFuncOpt(),
	}
}

func (f *FunctionFrame) CurrentScope() *scope.Scope {
	if len(f.Scopes) == 0 {
		return nil
	}
	return f.Scopes[len(f.Scopes)-1]
}

func (f *FunctionFrame) PushScope(s *scope.Scope) { f.Scopes = append(f.Scopes, s) }

func (f *FunctionFrame) PopScope() { f.Scopes = f.Scopes[:len(f.Scopes)-1] }

// declareVariable declares name in the store and arms its optimization
// bookkeeping. Arrays get one flattened CPI per element ("a[0]", "a[1]", …)
// since CP rewriting targets one concrete array element at a time (spec §3).
func (f *FunctionFrame) declareVariable(name, typ string, isArray bool, size, line int, initial values.Value) {
	f.Store.Declare(name, typ, isArray, size, line, initial)
	if isArray {
		for i := 0; i < size; i++ {
			f.Opt.DeclareCPI(arrayElemKey(name, i), line)
		}
	} else {
		f.Opt.DeclareCPI(name, line)
	}
	f.Opt.OnDeclareCSI(name)
}

// releaseVariable pops name's binding and tears down its optimization
// bookkeeping, mirroring declareVariable.
func (f *FunctionFrame) releaseVariable(name string) {
	if b, ok := f.Store.Get(name); ok && b.IsArray {
		for i := range b.Elements {
			f.Opt.ReleaseCPI(arrayElemKey(name, i))
		}
	} else {
		f.Opt.ReleaseCPI(name)
	}
	f.Opt.OnReleaseCSI(name)
	f.Store.Release(name)
}

func arrayElemKey(name string, index int) string {
	return fmt.Sprintf("%s[%d]", name, index)
}
