package vm

// Numeric builtins. All follow the arithmetic promotion rule: two
// Integers stay Integer, anything mixed goes Float.

func registerMathBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:     "Abs",
		MinArity: 1,
		MaxArity: 1,
		Invoke: func(inv *Invocation) Outcome {
			switch v := inv.Args[0]; v.Kind() {
			case KindInt:
				if v.Int() < 0 {
					return Complete(IntValue(-v.Int()))
				}
				return Complete(v)
			case KindFloat:
				if v.Float() < 0 {
					return Complete(FloatValue(-v.Float()))
				}
				return Complete(v)
			default:
				return Failf(ErrTypeMismatch, "Abs requires a number, got %s", v.Kind())
			}
		},
	})

	r.Register(&Builtin{
		Name:     "Min",
		MinArity: 2,
		MaxArity: 2,
		Invoke:   func(inv *Invocation) Outcome { return pickNumeric("Min", inv.Args[0], inv.Args[1], true) },
	})

	r.Register(&Builtin{
		Name:     "Max",
		MinArity: 2,
		MaxArity: 2,
		Invoke:   func(inv *Invocation) Outcome { return pickNumeric("Max", inv.Args[0], inv.Args[1], false) },
	})
}

func pickNumeric(name string, a, b Value, min bool) Outcome {
	if a.Kind() == KindInt && b.Kind() == KindInt {
		if (a.Int() < b.Int()) == min {
			return Complete(a)
		}
		return Complete(b)
	}
	af, aok := a.AsFloat()
	bf, bok := b.AsFloat()
	if !aok || !bok {
		return Failf(ErrTypeMismatch, "%s requires numbers, got %s and %s", name, a.Kind(), b.Kind())
	}
	if (af < bf) == min {
		return Complete(FloatValue(af))
	}
	return Complete(FloatValue(bf))
}
