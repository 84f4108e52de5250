package vm

import (
	"testing"
)

// TestValueKinds tests constructors and accessors.
func TestValueKinds(t *testing.T) {
	t.Run("zero value is void", func(t *testing.T) {
		var v Value
		if v.Kind() != KindVoid {
			t.Errorf("expected void, got %s", v.Kind())
		}
		if !v.IsVoid() {
			t.Error("expected IsVoid")
		}
	})

	t.Run("int round trip", func(t *testing.T) {
		v := IntValue(-42)
		if v.Kind() != KindInt || v.Int() != -42 {
			t.Errorf("expected int -42, got %s %d", v.Kind(), v.Int())
		}
	})

	t.Run("float round trip", func(t *testing.T) {
		v := FloatValue(2.5)
		if v.Kind() != KindFloat || v.Float() != 2.5 {
			t.Errorf("expected float 2.5, got %s %g", v.Kind(), v.Float())
		}
	})

	t.Run("string round trip", func(t *testing.T) {
		v := StringValue("こんにちは")
		if v.Kind() != KindString || v.Str() != "こんにちは" {
			t.Errorf("unexpected string value: %s %q", v.Kind(), v.Str())
		}
	})

	t.Run("bool round trip", func(t *testing.T) {
		if !BoolValue(true).Bool() || BoolValue(false).Bool() {
			t.Error("bool payload mismatch")
		}
	})
}

// TestValueAsFloat tests numeric widening.
func TestValueAsFloat(t *testing.T) {
	if f, ok := IntValue(3).AsFloat(); !ok || f != 3.0 {
		t.Errorf("expected 3.0, got %g %v", f, ok)
	}
	if f, ok := FloatValue(1.5).AsFloat(); !ok || f != 1.5 {
		t.Errorf("expected 1.5, got %g %v", f, ok)
	}
	if _, ok := StringValue("3").AsFloat(); ok {
		t.Error("string must not widen to float")
	}
}

// TestValueClone tests that cloning an array severs all sharing.
func TestValueClone(t *testing.T) {
	t.Run("array clone is deep", func(t *testing.T) {
		inner := ArrayValue([]Value{IntValue(1)})
		arr := ArrayValue([]Value{inner, IntValue(2)})
		clone := arr.Clone()

		// mutate the original's nested storage
		arr.Array()[0].arr[0] = IntValue(99)
		arr.Array()[1] = IntValue(98)

		if clone.Array()[0].Array()[0].Int() != 1 {
			t.Error("nested element shared after clone")
		}
		if clone.Array()[1].Int() != 2 {
			t.Error("element shared after clone")
		}
	})

	t.Run("scalar clone is identity", func(t *testing.T) {
		v := StringValue("a")
		if !v.Clone().Equal(v) {
			t.Error("scalar clone changed value")
		}
	})
}

// TestValueEqual tests structural equality and numeric promotion.
func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal ints", IntValue(5), IntValue(5), true},
		{"unequal ints", IntValue(5), IntValue(6), false},
		{"int equals float", IntValue(5), FloatValue(5.0), true},
		{"float equals int", FloatValue(2.0), IntValue(2), true},
		{"int not float", IntValue(5), FloatValue(5.5), false},
		{"string vs int", StringValue("5"), IntValue(5), false},
		{"equal strings", StringValue("a"), StringValue("a"), true},
		{"void equals void", Void, Void, true},
		{"equal bools", BoolValue(true), BoolValue(true), true},
		{"equal arrays", ArrayValue([]Value{IntValue(1), StringValue("x")}), ArrayValue([]Value{IntValue(1), StringValue("x")}), true},
		{"different length arrays", ArrayValue([]Value{IntValue(1)}), ArrayValue(nil), false},
		{"nested arrays", ArrayValue([]Value{ArrayValue([]Value{IntValue(1)})}), ArrayValue([]Value{ArrayValue([]Value{IntValue(2)})}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestValueString tests the stringification rule.
func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"void", Void, ""},
		{"int", IntValue(-7), "-7"},
		{"float", FloatValue(1.5), "1.5"},
		{"string", StringValue("abc"), "abc"},
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"array", ArrayValue([]Value{IntValue(1), StringValue("a")}), "[1, a]"},
		{"empty array", ArrayValue(nil), "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
