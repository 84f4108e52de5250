package vm

// Audio trigger builtins. All synchronous; playback itself belongs to
// the audio system.

func registerAudioBuiltins(r *Registry) {
	audio := func(inv *Invocation) (AudioSystem, Outcome) {
		a := inv.Engine.Hosts().Audio
		if a == nil {
			return nil, Failf(ErrHostFailure, "no audio system wired")
		}
		return a, Outcome{}
	}

	r.Register(&Builtin{
		Name:     "PlayBGM",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindString},
		Invoke: func(inv *Invocation) Outcome {
			a, fail := audio(inv)
			if a == nil {
				return fail
			}
			if err := a.PlayBGM(inv.Args[0].Str()); err != nil {
				return Failf(ErrHostFailure, "PlayBGM: %v", err)
			}
			return Done()
		},
	})

	r.Register(&Builtin{
		Name:     "PlaySE",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindString},
		Invoke: func(inv *Invocation) Outcome {
			a, fail := audio(inv)
			if a == nil {
				return fail
			}
			if err := a.PlaySE(inv.Args[0].Str()); err != nil {
				return Failf(ErrHostFailure, "PlaySE: %v", err)
			}
			return Done()
		},
	})

	r.Register(&Builtin{
		Name:     "StopBGM",
		MinArity: 0,
		MaxArity: 0,
		Invoke: func(inv *Invocation) Outcome {
			a, fail := audio(inv)
			if a == nil {
				return fail
			}
			if err := a.StopBGM(); err != nil {
				return Failf(ErrHostFailure, "StopBGM: %v", err)
			}
			return Done()
		},
	})
}
