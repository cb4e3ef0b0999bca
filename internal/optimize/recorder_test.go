package optimize

import (
	"testing"

	"cstep/internal/ast"
)

func TestOnAssignRecordsDirectCopy(t *testing.T) {
	f := NewFuncOpt()
	f.DeclareCPI("a", 1)
	f.DeclareCPI("b", 1)
	r := NewRecorder()

	f.OnAssign("a", &ast.Number{IntVal: 5}, 1)
	f.OnAssign("b", &ast.Id{Name: "a"}, 2)
	r.OnRead(f, "b", 2)

	key := CPKey{Line: 2, Target: "b"}
	if rhs, ok := r.CPTable[key]; !ok || rhs != "a" {
		t.Fatalf("expected CP record b<-a, got %v ok=%v", rhs, ok)
	}
}

func TestOnAssignInvalidatesAliasOfReassignedVar(t *testing.T) {
	f := NewFuncOpt()
	f.DeclareCPI("a", 1)
	f.DeclareCPI("b", 1)
	r := NewRecorder()

	f.OnAssign("b", &ast.Id{Name: "a"}, 1)
	f.OnAssign("a", &ast.Number{IntVal: 9}, 2) // a reassigned: b's CPI (rhs=a) must clear
	r.OnRead(f, "b", 3)

	key := CPKey{Line: 3, Target: "b"}
	if _, ok := r.CPTable[key]; ok {
		t.Fatalf("expected no CP record for b after its copy source was reassigned")
	}
}

func TestAccessCSIPublishesOnSecondEncounter(t *testing.T) {
	f := NewFuncOpt()
	r := NewRecorder()
	typeOf := func(string) (string, bool) { return "int", true }

	r.AccessCSI(f, "a+b", []string{"a", "b"}, 1, typeOf)
	if _, ok := r.CSTable["a+b"]; ok {
		t.Fatalf("expected no publish on first encounter")
	}

	r.AccessCSI(f, "a+b", []string{"a", "b"}, 2, typeOf)
	entries, ok := r.CSTable["a+b"]
	if !ok || len(entries) != 1 {
		t.Fatalf("expected one published entry after second encounter, got %v", entries)
	}
	if !entries[0].Lines[1] || !entries[0].Lines[2] {
		t.Fatalf("expected lines {1,2} recorded, got %v", entries[0].Lines)
	}
}

func TestOnDeclareCSIShadowsAndReleaseRestores(t *testing.T) {
	f := NewFuncOpt()
	r := NewRecorder()
	typeOf := func(string) (string, bool) { return "int", true }

	r.AccessCSI(f, "a+b", []string{"a", "b"}, 1, typeOf)
	r.AccessCSI(f, "a+b", []string{"a", "b"}, 2, typeOf)

	f.OnDeclareCSI("a") // shadows a+b's CSI with an invalidated sentinel
	r.AccessCSI(f, "a+b", []string{"a", "b"}, 3, typeOf)
	if len(f.csis["a+b"]) != 2 {
		t.Fatalf("expected a shadow CSI pushed for a+b, got %d entries", len(f.csis["a+b"]))
	}

	f.OnReleaseCSI("a")
	if len(f.csis["a+b"]) != 1 {
		t.Fatalf("expected the shadow CSI released, got %d entries", len(f.csis["a+b"]))
	}
}

func TestFreeVarsCollectsArrayAndNestedNames(t *testing.T) {
	expr := &ast.BinOp{
		Op:  "+",
		LHS: &ast.ArrayRef{Name: "arr", Index: &ast.Id{Name: "i"}},
		RHS: &ast.Id{Name: "k"},
	}
	got := FreeVars(expr)
	want := []string{"arr", "i", "k"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
