package values

import "fmt"

// HistoryEntry is one (lineno, value) snapshot. For array bindings Elements
// holds a deep copy of the whole array at that point; for scalar bindings
// only Scalar is set.
type HistoryEntry struct {
	Line     int
	Scalar   Value
	Elements []Value
}

// Binding is one declaration of a name: its declared type, whether it is
// an array, its current value, and its append-only history (spec §3/§8).
type Binding struct {
	Name     string
	Type     string
	IsArray  bool
	Scalar   Value
	Elements []Value
	History  []HistoryEntry
}

func snapshotElements(elems []Value) []Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return cp
}

// AssignScalar coerces and records a new scalar value.
func (b *Binding) AssignScalar(v Value, line int) error {
	if b.IsArray {
		return fmt.Errorf("%s is an array, cannot assign scalar", b.Name)
	}
	coerced, err := Coerce(b.Type, v)
	if err != nil {
		return err
	}
	b.Scalar = coerced
	b.History = append(b.History, HistoryEntry{Line: line, Scalar: coerced})
	return nil
}

// AssignElement coerces and records a new element value, snapshotting the
// whole array into history (spec §3: "the snapshot captures the whole
// array state").
func (b *Binding) AssignElement(index int, v Value, line int) error {
	if !b.IsArray {
		return fmt.Errorf("%s is not an array", b.Name)
	}
	if index < 0 || index >= len(b.Elements) {
		return fmt.Errorf("array index %d out of range for %s[%d]", index, b.Name, len(b.Elements))
	}
	coerced, err := Coerce(b.Type, v)
	if err != nil {
		return err
	}
	b.Elements[index] = coerced
	b.History = append(b.History, HistoryEntry{Line: line, Elements: snapshotElements(b.Elements)})
	return nil
}

// ReadScalar returns the current scalar value.
func (b *Binding) ReadScalar() (Value, error) {
	if b.IsArray {
		return nil, fmt.Errorf("%s is an array", b.Name)
	}
	return b.Scalar, nil
}

// ReadElement returns an element, failing if it was never assigned
// (spec §7 Unassigned-read).
func (b *Binding) ReadElement(index int) (Value, error) {
	if !b.IsArray {
		return nil, fmt.Errorf("%s is not an array", b.Name)
	}
	if index < 0 || index >= len(b.Elements) {
		return nil, fmt.Errorf("array index %d out of range for %s[%d]", index, b.Name, len(b.Elements))
	}
	v := b.Elements[index]
	if v == nil {
		return nil, fmt.Errorf("Unassigned-read of %s[%d]", b.Name, index)
	}
	return v, nil
}

// Store holds, per variable name, a stack of bindings so that a nested
// scope's declaration shadows an outer one (spec §3: "a stack of
// bindings").
type Store struct {
	bindings map[string][]*Binding
}

func NewStore() *Store {
	return &Store{bindings: make(map[string][]*Binding)}
}

// Declare pushes a fresh binding atop name's stack. For a scalar, value
// may be supplied (e.g. a function parameter); for an array, size
// elements are initialized unassigned (nil).
func (s *Store) Declare(name, typ string, isArray bool, size int, line int, initial Value) *Binding {
	b := &Binding{Name: name, Type: BaseType(typ), IsArray: isArray}
	if isArray {
		b.Elements = make([]Value, size)
		b.History = append(b.History, HistoryEntry{Line: line, Elements: snapshotElements(b.Elements)})
	} else {
		if initial != nil {
			coerced, _ := Coerce(b.Type, initial)
			b.Scalar = coerced
		}
		b.History = append(b.History, HistoryEntry{Line: line, Scalar: b.Scalar})
	}
	s.bindings[name] = append(s.bindings[name], b)
	return b
}

// Get returns the top (innermost) binding for name, or false if unbound.
func (s *Store) Get(name string) (*Binding, bool) {
	stack := s.bindings[name]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Release pops the top binding for name (spec §4.1).
func (s *Store) Release(name string) {
	stack := s.bindings[name]
	if len(stack) == 0 {
		return
	}
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(s.bindings, name)
	} else {
		s.bindings[name] = stack
	}
}
