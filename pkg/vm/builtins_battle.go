package vm

// Battle and menu builtins. Both park the instance and resume with the
// host's result as an Integer.

func registerBattleBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:       "StartBattle",
		MinArity:   1,
		MaxArity:   1,
		Args:       []Kind{KindInt},
		CanSuspend: true,
		Invoke: func(inv *Invocation) Outcome {
			b := inv.Engine.Hosts().Battle
			if b == nil {
				return Failf(ErrHostFailure, "StartBattle: no battle system wired")
			}
			troop := inv.Args[0].Int()
			if err := b.StartBattle(troop); err != nil {
				return Failf(ErrHostFailure, "StartBattle: %v", err)
			}
			return Suspend(WakeCondition{Kind: WakeBattleDone, Target: troop})
		},
	})

	r.Register(&Builtin{
		Name:       "OpenMenu",
		MinArity:   1,
		MaxArity:   1,
		Args:       []Kind{KindInt},
		CanSuspend: true,
		Invoke: func(inv *Invocation) Outcome {
			m := inv.Engine.Hosts().Menu
			if m == nil {
				return Failf(ErrHostFailure, "OpenMenu: no menu system wired")
			}
			kind := inv.Args[0].Int()
			if err := m.OpenMenu(kind); err != nil {
				return Failf(ErrHostFailure, "OpenMenu: %v", err)
			}
			return Suspend(WakeCondition{Kind: WakeMenuClosed, Target: kind})
		},
	})
}
