package vm

// Party state builtins. Synchronous queries against the host's
// inventory and gold.

func registerStateBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:     "HasItem",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindInt},
		Invoke: func(inv *Invocation) Outcome {
			p := inv.Engine.Hosts().Party
			if p == nil {
				return Failf(ErrHostFailure, "HasItem: no party state wired")
			}
			has, err := p.HasItem(inv.Args[0].Int())
			if err != nil {
				return Failf(ErrHostFailure, "HasItem: %v", err)
			}
			return Complete(BoolValue(has))
		},
	})

	r.Register(&Builtin{
		Name:     "AddItem",
		MinArity: 2,
		MaxArity: 2,
		Args:     []Kind{KindInt, KindInt},
		Invoke: func(inv *Invocation) Outcome {
			p := inv.Engine.Hosts().Party
			if p == nil {
				return Failf(ErrHostFailure, "AddItem: no party state wired")
			}
			if err := p.AddItem(inv.Args[0].Int(), inv.Args[1].Int()); err != nil {
				return Failf(ErrHostFailure, "AddItem: %v", err)
			}
			return Done()
		},
	})

	r.Register(&Builtin{
		Name:     "PartyGold",
		MinArity: 0,
		MaxArity: 0,
		Invoke: func(inv *Invocation) Outcome {
			p := inv.Engine.Hosts().Party
			if p == nil {
				return Failf(ErrHostFailure, "PartyGold: no party state wired")
			}
			gold, err := p.Gold()
			if err != nil {
				return Failf(ErrHostFailure, "PartyGold: %v", err)
			}
			return Complete(IntValue(gold))
		},
	})
}
