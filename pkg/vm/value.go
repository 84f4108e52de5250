// Package vm provides the plot script interpreter and scheduler.
// It implements a frame-synchronous execution model with support for:
// - Tree-walking evaluation over the parsed AST
// - Suspension and resumption across host frame ticks
// - Scope management (global environment and per-call locals)
// - Built-in function registry with a capability contract
// - Bounded per-tick work budgets
package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a Value. The set is closed; every operator and builtin checks
// tags explicitly rather than coercing.
type Kind uint8

// Value kinds
const (
	KindVoid Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindArray

	// KindAny is usable only in builtin argument constraints.
	KindAny Kind = 0xFF
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindAny:
		return "any"
	}
	return "unknown"
}

// Value is a dynamically typed plot script value. The zero Value is Void.
//
// Arrays are copy-on-assign: assigning an array to a variable, passing it
// to a function or builtin, or returning it always deep-copies, so no two
// bindings ever alias the same storage.
type Value struct {
	kind Kind
	n    int64
	f    float64
	s    string
	b    bool
	arr  []Value
}

// Void is the unit value.
var Void = Value{kind: KindVoid}

// IntValue creates an Integer value.
func IntValue(n int64) Value { return Value{kind: KindInt, n: n} }

// FloatValue creates a Float value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue creates a String value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// BoolValue creates a Bool value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ArrayValue creates an Array value owning the given elements.
func ArrayValue(elems []Value) Value { return Value{kind: KindArray, arr: elems} }

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsVoid reports whether the value is Void.
func (v Value) IsVoid() bool { return v.kind == KindVoid }

// Int returns the Integer payload. Valid only when Kind is KindInt.
func (v Value) Int() int64 { return v.n }

// Float returns the Float payload. Valid only when Kind is KindFloat.
func (v Value) Float() float64 { return v.f }

// Str returns the String payload. Valid only when Kind is KindString.
func (v Value) Str() string { return v.s }

// Bool returns the Bool payload. Valid only when Kind is KindBool.
func (v Value) Bool() bool { return v.b }

// Array returns the Array payload. Valid only when Kind is KindArray.
// Callers must not retain the slice across an assignment; use Clone.
func (v Value) Array() []Value { return v.arr }

// Len returns the element count of an Array value.
func (v Value) Len() int { return len(v.arr) }

// AsFloat widens Integer or Float to float64.
// The second return is false for any other kind.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.n), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Clone deep-copies the value. Scalar kinds copy trivially; arrays copy
// their storage recursively. This is what enforces copy-on-assign.
func (v Value) Clone() Value {
	if v.kind != KindArray {
		return v
	}
	elems := make([]Value, len(v.arr))
	for i, e := range v.arr {
		elems[i] = e.Clone()
	}
	return Value{kind: KindArray, arr: elems}
}

// Equal reports structural equality. Mixed Integer/Float comparisons
// promote the Integer, matching the arithmetic promotion rule; all other
// cross-kind comparisons are false.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		if vf, ok := v.AsFloat(); ok {
			if of, ok := o.AsFloat(); ok {
				return vf == of
			}
		}
		return false
	}
	switch v.kind {
	case KindVoid:
		return true
	case KindInt:
		return v.n == o.n
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value with the fixed stringification rule used by
// string concatenation and diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindVoid:
		return ""
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	}
	return fmt.Sprintf("<%s>", v.kind)
}
