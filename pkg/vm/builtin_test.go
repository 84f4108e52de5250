package vm

import (
	"testing"
)

// TestBuiltinCheckArgs tests the descriptor argument contract.
func TestBuiltinCheckArgs(t *testing.T) {
	b := &Builtin{
		Name:     "Test",
		MinArity: 1,
		MaxArity: 3,
		Args:     []Kind{KindInt, KindFloat, KindAny},
	}

	t.Run("accepts arity range", func(t *testing.T) {
		if err := b.checkArgs([]Value{IntValue(1)}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := b.checkArgs([]Value{IntValue(1), FloatValue(2), StringValue("x")}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects too few", func(t *testing.T) {
		err := b.checkArgs(nil)
		if err == nil || err.Code != ErrArityMismatch {
			t.Errorf("expected ArityMismatch, got %v", err)
		}
	})

	t.Run("rejects too many", func(t *testing.T) {
		args := []Value{IntValue(1), FloatValue(2), Void, Void}
		err := b.checkArgs(args)
		if err == nil || err.Code != ErrArityMismatch {
			t.Errorf("expected ArityMismatch, got %v", err)
		}
	})

	t.Run("promotes int in float position", func(t *testing.T) {
		args := []Value{IntValue(1), IntValue(2)}
		if err := b.checkArgs(args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if args[1].Kind() != KindFloat || args[1].Float() != 2.0 {
			t.Errorf("expected promoted float 2.0, got %s %s", args[1].Kind(), args[1])
		}
	})

	t.Run("rejects kind mismatch", func(t *testing.T) {
		err := b.checkArgs([]Value{StringValue("x")})
		if err == nil || err.Code != ErrTypeMismatch {
			t.Errorf("expected TypeMismatch, got %v", err)
		}
	})

	t.Run("any accepts everything", func(t *testing.T) {
		for _, v := range []Value{Void, IntValue(1), StringValue("s"), ArrayValue(nil)} {
			if err := b.checkArgs([]Value{IntValue(1), FloatValue(1), v}); err != nil {
				t.Errorf("KindAny rejected %s: %v", v.Kind(), err)
			}
		}
	})

	t.Run("variadic max", func(t *testing.T) {
		v := &Builtin{Name: "V", MinArity: 1, MaxArity: -1}
		args := make([]Value, 20)
		if err := v.checkArgs(args); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestRegistry tests registration and lookup.
func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&Builtin{Name: "B"})
	r.Register(&Builtin{Name: "A"})

	if _, ok := r.Lookup("A"); !ok {
		t.Error("expected A registered")
	}
	if _, ok := r.Lookup("a"); ok {
		t.Error("lookup must be case sensitive")
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("expected sorted [A B], got %v", names)
	}

	// re-registration replaces
	r.Register(&Builtin{Name: "A", MinArity: 2})
	b, _ := r.Lookup("A")
	if b.MinArity != 2 {
		t.Error("expected replacement to win")
	}
}

// TestDefaultRegistrySurface tests that the standard table carries the
// whole builtin surface.
func TestDefaultRegistrySurface(t *testing.T) {
	r := DefaultRegistry()
	expected := []string{
		"Wait", "CallScript", "Random",
		"Message", "Notice", "Choice",
		"MoveChara", "Warp", "Face",
		"PlayBGM", "PlaySE", "StopBGM",
		"StartBattle", "OpenMenu",
		"HasItem", "AddItem", "PartyGold",
		"Abs", "Min", "Max",
		"Len", "Push", "Slice",
		"StrLen", "SubStr", "StrFind", "ToString", "ToInt",
	}
	for _, name := range expected {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("missing builtin %s", name)
		}
	}
}

// TestUndeclaredSuspendIsRejected tests that a builtin suspending
// without CanSuspend faults the instance.
func TestUndeclaredSuspendIsRejected(t *testing.T) {
	r := DefaultRegistry()
	r.Register(&Builtin{
		Name: "Sneaky",
		Invoke: func(inv *Invocation) Outcome {
			return Suspend(WaitFrames(1))
		},
	})

	e := newTestEngine(t, WithRegistry(r))
	id := mustInvoke(t, e, "sneaky", `Sneaky()`)
	inst := tickUntilDone(t, e, id, 5)
	if inst.Status() != StatusFaulted {
		t.Fatalf("expected Faulted, got %s", inst.Status())
	}
	if inst.Err().Code != ErrHostFailure {
		t.Errorf("expected HostFailure, got %s", inst.Err().Code)
	}
}

// TestScriptFunctionShadowsBuiltin tests dispatch priority.
func TestScriptFunctionShadowsBuiltin(t *testing.T) {
	e := newTestEngine(t)
	id := mustInvoke(t, e, "shadow", `
Random(n) {
	return 42
}

global r = Random(1000)
`)
	inst := tickUntilDone(t, e, id, 10)
	if inst.Status() != StatusCompleted {
		t.Fatalf("expected Completed, got %s (%v)", inst.Status(), inst.Err())
	}
	r, _ := e.Global("r")
	if r.Int() != 42 {
		t.Errorf("expected script function to shadow the builtin, got %s", r)
	}
}
