package scope

import (
	"testing"

	"cstep/internal/ast"
)

func TestFuncScopeIsDoneAtEnd(t *testing.T) {
	s := NewFunc([]ast.Stmt{&ast.Assign{}}, 1, 2)
	if s.IsDone() {
		t.Fatalf("fresh func scope should not be done")
	}
	s.Advance()
	if !s.IsDone() {
		t.Fatalf("func scope should be done after advancing past its only statement")
	}
}

func TestForScopeTransitionTableWithBody(t *testing.T) {
	// steps: [assign, increment, condition, body0]
	s := NewFor(&ast.For{
		Assign:    &ast.Assign{},
		Increment: &ast.Increment{},
		Condition: &ast.Condition{},
		Stmts:     []ast.Stmt{&ast.Assign{}},
	})
	if s.Idx != 0 {
		t.Fatalf("expected initial idx 0, got %d", s.Idx)
	}
	s.Advance() // assign ran -> skip increment, go to condition
	if s.Idx != 2 {
		t.Fatalf("expected idx 2 after assign, got %d", s.Idx)
	}
	s.Advance() // condition ran -> body
	if s.Idx != 3 {
		t.Fatalf("expected idx 3 after condition, got %d", s.Idx)
	}
	s.Advance() // last body stmt ran -> increment
	if s.Idx != 1 || !s.JustLooped() {
		t.Fatalf("expected idx 1 (increment, just looped) after body, got %d", s.Idx)
	}
	s.Advance() // increment ran -> re-check condition
	if s.Idx != 2 {
		t.Fatalf("expected idx 2 after increment, got %d", s.Idx)
	}
}

func TestForScopeEmptyBodyGoesStraightToIncrement(t *testing.T) {
	// steps: [assign, increment, condition] -- no body statements
	s := NewFor(&ast.For{
		Assign:    &ast.Assign{},
		Increment: &ast.Increment{},
		Condition: &ast.Condition{},
	})
	s.Advance() // assign -> condition
	if s.Idx != 2 {
		t.Fatalf("expected idx 2, got %d", s.Idx)
	}
	s.Advance() // condition with empty body -> increment
	if s.Idx != 1 {
		t.Fatalf("expected idx 1 (increment), got %d", s.Idx)
	}
}

func TestForScopeSetDoneMarksNotDoneUntilCalled(t *testing.T) {
	s := NewFor(&ast.For{Assign: &ast.Assign{}, Increment: &ast.Increment{}, Condition: &ast.Condition{}})
	if s.IsDone() {
		t.Fatalf("for scope should start alive")
	}
	s.SetDone()
	if !s.IsDone() {
		t.Fatalf("expected for scope done after SetDone")
	}
}

func TestAddAssignedDeduplicates(t *testing.T) {
	s := NewFunc(nil, 1, 1)
	s.AddAssigned("x")
	s.AddAssigned("x")
	if len(s.AssignedVars) != 1 {
		t.Fatalf("expected AddAssigned to de-duplicate, got %v", s.AssignedVars)
	}
}

func TestHasLocal(t *testing.T) {
	s := NewFunc(nil, 1, 1)
	s.AddLocal("y")
	if !s.HasLocal("y") {
		t.Fatalf("expected y to be a local")
	}
	if s.HasLocal("z") {
		t.Fatalf("did not expect z to be a local")
	}
}
