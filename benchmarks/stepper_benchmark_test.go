// Package benchmarks compares the stepper's per-line overhead against a
// native Go re-implementation of the same computation, adapted from
// vm_benchmark_test.go / go_native_benchmark_test.go's VM-vs-native-Go
// comparison — here the "VM" side is internal/interp's line-at-a-time
// stepper instead of a bytecode machine.
package benchmarks

import (
	"io"
	"testing"

	"cstep/internal/interp"
	"cstep/internal/lexer"
	"cstep/internal/parser"
)

const sumLoopSource = `int main(){int total;int i;total=0;for(i=0;i<1000;i++){total=total+i;}}`

func newSumLoopInterpreter(b *testing.B) *interp.Interpreter {
	b.Helper()
	l := lexer.New(sumLoopSource)
	p := parser.New(l)
	funcs := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		b.Fatalf("parse errors: %v", errs)
	}
	it, err := interp.NewInterpreter(funcs, io.Discard)
	if err != nil {
		b.Fatalf("NewInterpreter: %s", err)
	}
	return it
}

// BenchmarkStepperSumLoop runs the spec §8 scenario-3 sum loop to
// completion one StepOneLine call at a time, the same granularity the
// interactive driver uses.
func BenchmarkStepperSumLoop(b *testing.B) {
	for i := 0; i < b.N; i++ {
		it := newSumLoopInterpreter(b)
		if err := it.Start("main", nil); err != nil {
			b.Fatal(err)
		}
		for {
			done, err := it.StepOneLine()
			if err != nil {
				b.Fatal(err)
			}
			if done {
				break
			}
		}
	}
}

// BenchmarkGoNativeSumLoop is the same computation written directly in Go,
// the baseline the stepper's overhead is measured against.
func BenchmarkGoNativeSumLoop(b *testing.B) {
	var total int
	for n := 0; n < b.N; n++ {
		total = 0
		for i := 0; i < 1000; i++ {
			total = total + i
		}
	}
	_ = total
}
