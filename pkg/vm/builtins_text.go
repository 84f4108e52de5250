package vm

// Dialog builtins. Message and Choice park the instance until the host
// reports the window closed; Notice is fire-and-forget.

func registerTextBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:       "Message",
		MinArity:   1,
		MaxArity:   1,
		Args:       []Kind{KindString},
		CanSuspend: true,
		Invoke: func(inv *Invocation) Outcome {
			d := inv.Engine.Hosts().Dialog
			if d == nil {
				return Failf(ErrHostFailure, "Message: no dialog system wired")
			}
			if err := d.ShowMessage(inv.Instance.ID(), inv.Args[0].Str()); err != nil {
				return Failf(ErrHostFailure, "Message: %v", err)
			}
			return Suspend(WakeCondition{Kind: WakeMessageClosed, Tag: inv.Instance.ID()})
		},
	})

	r.Register(&Builtin{
		Name:     "Notice",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindString},
		Invoke: func(inv *Invocation) Outcome {
			d := inv.Engine.Hosts().Dialog
			if d == nil {
				return Failf(ErrHostFailure, "Notice: no dialog system wired")
			}
			if err := d.ShowNotice(inv.Args[0].Str()); err != nil {
				return Failf(ErrHostFailure, "Notice: %v", err)
			}
			return Done()
		},
	})

	r.Register(&Builtin{
		Name:       "Choice",
		MinArity:   2,
		MaxArity:   -1,
		Args:       []Kind{KindString},
		CanSuspend: true,
		Invoke: func(inv *Invocation) Outcome {
			d := inv.Engine.Hosts().Dialog
			if d == nil {
				return Failf(ErrHostFailure, "Choice: no dialog system wired")
			}
			options := make([]string, 0, len(inv.Args)-1)
			for i, a := range inv.Args[1:] {
				if a.Kind() != KindString {
					return Failf(ErrTypeMismatch, "Choice option %d must be string, got %s", i+1, a.Kind())
				}
				options = append(options, a.Str())
			}
			if err := d.ShowChoice(inv.Instance.ID(), inv.Args[0].Str(), options); err != nil {
				return Failf(ErrHostFailure, "Choice: %v", err)
			}
			return Suspend(WakeCondition{Kind: WakeChoiceMade, Tag: inv.Instance.ID()})
		},
	})
}
