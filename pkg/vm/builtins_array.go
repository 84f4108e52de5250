package vm

// Array builtins. Arrays are copy-on-assign, so Push and Slice return
// new arrays; scripts write `a = Push(a, v)`.

func registerArrayBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:     "Len",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindArray},
		Invoke: func(inv *Invocation) Outcome {
			return Complete(IntValue(int64(inv.Args[0].Len())))
		},
	})

	r.Register(&Builtin{
		Name:     "Push",
		MinArity: 2,
		MaxArity: 2,
		Args:     []Kind{KindArray, KindAny},
		Invoke: func(inv *Invocation) Outcome {
			arr := inv.Args[0].Clone().Array()
			return Complete(ArrayValue(append(arr, inv.Args[1].Clone())))
		},
	})

	r.Register(&Builtin{
		Name:     "Slice",
		MinArity: 3,
		MaxArity: 3,
		Args:     []Kind{KindArray, KindInt, KindInt},
		Invoke: func(inv *Invocation) Outcome {
			arr := inv.Args[0].Array()
			start, end := inv.Args[1].Int(), inv.Args[2].Int()
			if start < 0 || end > int64(len(arr)) || start > end {
				return Failf(ErrIndexOutOfRange, "Slice bounds [%d:%d] out of range for length %d", start, end, len(arr))
			}
			out := make([]Value, 0, end-start)
			for _, v := range arr[start:end] {
				out = append(out, v.Clone())
			}
			return Complete(ArrayValue(out))
		},
	})
}
