package vm

// Character movement builtins. MoveChara parks until the movement
// system reports the character arrived; Warp and Face are immediate.

func registerMoveBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:       "MoveChara",
		MinArity:   3,
		MaxArity:   3,
		Args:       []Kind{KindInt, KindInt, KindInt},
		CanSuspend: true,
		Invoke: func(inv *Invocation) Outcome {
			m := inv.Engine.Hosts().Movement
			if m == nil {
				return Failf(ErrHostFailure, "MoveChara: no movement system wired")
			}
			id := inv.Args[0].Int()
			if err := m.StartMove(id, inv.Args[1].Int(), inv.Args[2].Int()); err != nil {
				return Failf(ErrHostFailure, "MoveChara: %v", err)
			}
			return Suspend(WakeCondition{Kind: WakeMoveDone, Target: id})
		},
	})

	r.Register(&Builtin{
		Name:     "Warp",
		MinArity: 3,
		MaxArity: 3,
		Args:     []Kind{KindInt, KindInt, KindInt},
		Invoke: func(inv *Invocation) Outcome {
			m := inv.Engine.Hosts().Movement
			if m == nil {
				return Failf(ErrHostFailure, "Warp: no movement system wired")
			}
			if err := m.Warp(inv.Args[0].Int(), inv.Args[1].Int(), inv.Args[2].Int()); err != nil {
				return Failf(ErrHostFailure, "Warp: %v", err)
			}
			return Done()
		},
	})

	r.Register(&Builtin{
		Name:     "Face",
		MinArity: 2,
		MaxArity: 2,
		Args:     []Kind{KindInt, KindInt},
		Invoke: func(inv *Invocation) Outcome {
			m := inv.Engine.Hosts().Movement
			if m == nil {
				return Failf(ErrHostFailure, "Face: no movement system wired")
			}
			if err := m.Face(inv.Args[0].Int(), inv.Args[1].Int()); err != nil {
				return Failf(ErrHostFailure, "Face: %v", err)
			}
			return Done()
		},
	})
}
