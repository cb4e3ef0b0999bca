// Package values implements C1: the typed scalar/array value model, the
// per-variable binding stacks that model nested-scope shadowing, and the
// assignment-history invariant spec §3/§8 require. Grounded on the
// Kind()/Inspect() Object interface in flowa's pkg/eval/eval.go, replaced
// here by the spec's own int/float/array coercion rules instead of
// Flowa's dynamic object kinds.
package values

import (
	"fmt"
	"strings"
)

// Value is either an IntValue or a FloatValue. A nil Value inside an
// array's Elements slot means "unassigned" (spec §7 Unassigned-read).
type Value interface {
	isValue()
	String() string
}

type IntValue int64

func (IntValue) isValue()        {}
func (v IntValue) String() string { return fmt.Sprintf("%d", int64(v)) }

type FloatValue float64

func (FloatValue) isValue()        {}
func (v FloatValue) String() string { return fmt.Sprintf("%g", float64(v)) }

// BaseType strips a leading '*' pointer marker (spec §3: "parsed but
// otherwise ignored").
func BaseType(declared string) string {
	return strings.TrimPrefix(declared, "*")
}

// Coerce truncates a float into an int when the declared type is "int",
// and widens an int into a float when the declared type is "float".
func Coerce(declared string, v Value) (Value, error) {
	switch BaseType(declared) {
	case "int":
		switch x := v.(type) {
		case IntValue:
			return x, nil
		case FloatValue:
			return IntValue(int64(x)), nil
		}
	case "float":
		switch x := v.(type) {
		case IntValue:
			return FloatValue(float64(x)), nil
		case FloatValue:
			return x, nil
		}
	default:
		return nil, fmt.Errorf("invalid declared type %q", declared)
	}
	return nil, fmt.Errorf("cannot coerce %v to %s", v, declared)
}

func AsFloat(v Value) float64 {
	switch x := v.(type) {
	case IntValue:
		return float64(x)
	case FloatValue:
		return float64(x)
	}
	return 0
}

// Add, Sub, Mul follow host numeric promotion: int op int stays int,
// any float operand promotes the result to float.
func Add(a, b Value) Value { return arith(a, b, func(x, y float64) float64 { return x + y }) }
func Sub(a, b Value) Value { return arith(a, b, func(x, y float64) float64 { return x - y }) }
func Mul(a, b Value) Value { return arith(a, b, func(x, y float64) float64 { return x * y }) }

func arith(a, b Value, op func(x, y float64) float64) Value {
	_, aInt := a.(IntValue)
	_, bInt := b.(IntValue)
	result := op(AsFloat(a), AsFloat(b))
	if aInt && bInt {
		return IntValue(int64(result))
	}
	return FloatValue(result)
}

// Div is true division (spec §4.1): always produces a float, regardless
// of operand types; truncation back to int happens only on assignment.
func Div(a, b Value) (Value, error) {
	if AsFloat(b) == 0 {
		return nil, fmt.Errorf("Division by zero")
	}
	return FloatValue(AsFloat(a) / AsFloat(b)), nil
}

// Compare implements the condition handler's two supported comparators
// (spec §9): cmp is lexed/parsed for all six relational operators, but only
// "<" and ">" are evaluated here. Any other comparator reaches Compare only
// at runtime and raises invalid-comparator rather than silently succeeding.
func Compare(cmp string, a, b Value) (bool, error) {
	x, y := AsFloat(a), AsFloat(b)
	switch cmp {
	case "<":
		return x < y, nil
	case ">":
		return x > y, nil
	default:
		return false, fmt.Errorf("invalid-comparator %q", cmp)
	}
}
