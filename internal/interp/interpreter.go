package interp

import (
	"io"

	"cstep/internal/ast"
	"cstep/internal/optimize"
	"cstep/internal/scope"
	"cstep/internal/values"
)

// Interpreter is the single mutable context spec §9 asks for in place of
// the source's module globals (CURRENT_LINE, MAIN_STACK, FUNCTION_DICT,
// CP_DICT/CS_DICT, IS_IN_OPTIMIZATION).
type Interpreter struct {
	Functions      map[string]*ast.Function
	MainStack      []Frame
	CurrentLine    int
	InOptimization bool
	Recorder       *optimize.Recorder
	Out            io.Writer
}

// NewInterpreter builds the function table and validates the
// void-parameter-misuse rule up front (spec §7) rather than at each call.
func NewInterpreter(funcs []*ast.Function, out io.Writer) (*Interpreter, error) {
	table := make(map[string]*ast.Function, len(funcs))
	for _, fn := range funcs {
		if err := validateParams(fn); err != nil {
			return nil, err
		}
		table[fn.Name] = fn
	}
	return &Interpreter{
		Functions: table,
		Recorder:  optimize.NewRecorder(),
		Out:       out,
	}, nil
}

func validateParams(def *ast.Function) error {
	for i, p := range def.Params {
		if p.Type == "void" && (len(def.Params) != 1 || i != 0) {
			return errf(def.LineStart, "void must be the first and only parameter of %s", def.Name)
		}
	}
	return nil
}

// Reset clears all mutable run state (call stack, current line) but keeps
// the function table, ready for a fresh pass over the same or rewritten
// source (spec §9: "reset is explicit between passes").
func (it *Interpreter) Reset() {
	it.MainStack = nil
	it.CurrentLine = 0
	it.Recorder = optimize.NewRecorder()
}

// Start pushes the entry function's frame, ready for StepOneLine.
func (it *Interpreter) Start(entry string, args []values.Value) error {
	frame, err := it.callFunction(entry, args, 0)
	if err != nil {
		return err
	}
	it.MainStack = append(it.MainStack, frame)
	it.CurrentLine = frame.Def.LineStart
	return nil
}

// Done reports whether the main stack has emptied (program completed).
func (it *Interpreter) Done() bool { return len(it.MainStack) == 0 }

func (it *Interpreter) callFunction(name string, args []values.Value, line int) (*FunctionFrame, error) {
	def, ok := it.Functions[name]
	if !ok {
		return nil, errf(line, "%s function doesn't exist", name)
	}
	expected := len(def.Params)
	if expected == 1 && def.Params[0].Type == "void" {
		expected = 0
	}
	if expected != len(args) {
		return nil, errf(line, "Function %s, expected %d arguments, but %d given", name, expected, len(args))
	}

	frame := newFunctionFrame(def)
	for i, p := range def.Params {
		if p.Type == "void" {
			continue
		}
		frame.declareVariable(p.Name, p.Type, p.IsArray, 0, def.LineStart, args[i])
	}
	frame.PushScope(scope.NewFunc(def.Stmts, def.LineStart, def.LineEnd))
	return frame, nil
}

// CurrentFunctionFrame returns the innermost live function activation, or
// nil once the program has finished.
func (it *Interpreter) CurrentFunctionFrame() *FunctionFrame {
	for i := len(it.MainStack) - 1; i >= 0; i-- {
		if f, ok := it.MainStack[i].(*FunctionFrame); ok {
			return f
		}
	}
	return nil
}
