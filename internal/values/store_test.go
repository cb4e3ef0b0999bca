package values

import "testing"

func TestDeclareAndAssignScalarRecordsHistory(t *testing.T) {
	s := NewStore()
	b := s.Declare("a", "int", false, 0, 1, nil)
	if err := b.AssignScalar(IntValue(5), 2); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(b.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(b.History))
	}
	if b.History[1].Line != 2 || b.History[1].Scalar != IntValue(5) {
		t.Fatalf("unexpected history entry: %+v", b.History[1])
	}
}

func TestArrayElementSnapshotsWholeArray(t *testing.T) {
	s := NewStore()
	b := s.Declare("arr", "int", true, 3, 1, nil)
	if err := b.AssignElement(1, IntValue(7), 2); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	snap := b.History[len(b.History)-1].Elements
	if len(snap) != 3 || snap[1] != IntValue(7) {
		t.Fatalf("expected snapshot [?, 7, ?], got %v", snap)
	}
	if v, err := b.ReadElement(0); err == nil {
		t.Fatalf("expected unassigned-read error, got %v", v)
	}
}

func TestReleasePopsShadowingBinding(t *testing.T) {
	s := NewStore()
	s.Declare("a", "int", false, 0, 1, IntValue(1))
	s.Declare("a", "int", false, 0, 2, IntValue(2))
	s.Release("a")
	b, ok := s.Get("a")
	if !ok {
		t.Fatalf("expected outer binding to still exist")
	}
	v, _ := b.ReadScalar()
	if v != IntValue(1) {
		t.Fatalf("expected outer binding's value 1, got %v", v)
	}
}

func TestGetUnboundNameReturnsFalse(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("nope"); ok {
		t.Fatalf("expected unbound name to report false")
	}
}

func TestAssignScalarOnArrayIsAnError(t *testing.T) {
	s := NewStore()
	b := s.Declare("arr", "int", true, 2, 1, nil)
	if err := b.AssignScalar(IntValue(1), 2); err == nil {
		t.Fatalf("expected error assigning scalar to an array binding")
	}
}
