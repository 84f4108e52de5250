package vm

// Core builtins: frame waits, sibling invocation and the seeded random
// source.

func registerCoreBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:       "Wait",
		MinArity:   1,
		MaxArity:   1,
		Args:       []Kind{KindInt},
		CanSuspend: true,
		Invoke: func(inv *Invocation) Outcome {
			n := inv.Args[0].Int()
			if n <= 0 {
				return Done()
			}
			return Suspend(WaitFrames(n))
		},
	})

	r.Register(&Builtin{
		Name:     "CallScript",
		MinArity: 1,
		MaxArity: -1,
		Args:     []Kind{KindString},
		Invoke: func(inv *Invocation) Outcome {
			id, err := inv.Engine.Invoke(inv.Args[0].Str(), inv.Args[1:]...)
			if err != nil {
				return Failf(ErrUnknownFunction, "CallScript: %v", err)
			}
			return Complete(StringValue(id))
		},
	})

	r.Register(&Builtin{
		Name:     "Random",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindInt},
		Invoke: func(inv *Invocation) Outcome {
			return Complete(IntValue(inv.Engine.Random(inv.Args[0].Int())))
		},
	})
}
