package vm

import (
	"fmt"
	"sort"
)

// OutcomeKind tags a builtin invocation result.
type OutcomeKind uint8

// Builtin outcome kinds
const (
	OutcomeComplete OutcomeKind = iota
	OutcomeSuspend
	OutcomeFail
)

// Outcome is the result of invoking a builtin. A builtin either completes
// with a value, suspends the instance on a wake condition, or fails the
// instance with a runtime error.
type Outcome struct {
	kind   OutcomeKind
	result Value
	wake   WakeCondition
	err    *RuntimeError
}

// Complete builds a completion outcome carrying the builtin's result.
func Complete(v Value) Outcome { return Outcome{kind: OutcomeComplete, result: v} }

// Done builds a completion outcome with no result.
func Done() Outcome { return Outcome{kind: OutcomeComplete, result: Void} }

// Suspend builds a suspension outcome. The instance parks on the wake
// condition and the builtin's result is supplied at wake time.
func Suspend(w WakeCondition) Outcome { return Outcome{kind: OutcomeSuspend, wake: w} }

// Fail builds a failure outcome. The instance faults.
func Fail(err *RuntimeError) Outcome { return Outcome{kind: OutcomeFail, err: err} }

// Failf builds a failure outcome from a format string.
func Failf(code ErrorCode, format string, args ...any) Outcome {
	return Fail(newError(code, format, args...))
}

// Invocation carries everything a builtin needs: the invoking engine,
// the instance, and the already-evaluated arguments.
type Invocation struct {
	Engine   *Engine
	Instance *Instance
	Args     []Value
}

// Arg returns argument i, or Void when fewer arguments were passed.
// Valid for builtins with optional trailing arguments.
func (inv *Invocation) Arg(i int) Value {
	if i < len(inv.Args) {
		return inv.Args[i]
	}
	return Void
}

// BuiltinFunc is the host-side implementation of a builtin.
type BuiltinFunc func(inv *Invocation) Outcome

// Builtin describes one registered builtin function.
type Builtin struct {
	Name string

	// MinArity and MaxArity bound the argument count. MaxArity of -1
	// means variadic.
	MinArity int
	MaxArity int

	// Args constrains argument kinds positionally. Shorter than MaxArity
	// is fine; unchecked positions accept anything, as does KindAny.
	// An Integer passed where KindFloat is expected is promoted.
	Args []Kind

	// CanSuspend declares whether Invoke may return Suspend. The engine
	// rejects a Suspend outcome from a builtin that did not declare it.
	CanSuspend bool

	Invoke BuiltinFunc
}

// checkArgs validates count and kinds, promoting Integers in Float
// positions in place. Returns nil when the call is well formed.
func (b *Builtin) checkArgs(args []Value) *RuntimeError {
	if len(args) < b.MinArity || (b.MaxArity >= 0 && len(args) > b.MaxArity) {
		want := fmt.Sprintf("%d", b.MinArity)
		if b.MaxArity < 0 {
			want = fmt.Sprintf("at least %d", b.MinArity)
		} else if b.MaxArity != b.MinArity {
			want = fmt.Sprintf("%d..%d", b.MinArity, b.MaxArity)
		}
		return newError(ErrArityMismatch, "%s expects %s arguments, got %d", b.Name, want, len(args))
	}
	for i, want := range b.Args {
		if i >= len(args) || want == KindAny {
			continue
		}
		got := args[i].Kind()
		if got == want {
			continue
		}
		if want == KindFloat && got == KindInt {
			args[i] = FloatValue(float64(args[i].Int()))
			continue
		}
		return newError(ErrTypeMismatch, "%s argument %d must be %s, got %s", b.Name, i+1, want, got)
	}
	return nil
}

// Registry holds the builtin table an engine dispatches against.
// Registration happens at setup time; lookup during execution is
// read-only, so no locking is needed.
type Registry struct {
	table map[string]*Builtin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[string]*Builtin)}
}

// Register adds a builtin, replacing any prior entry with the same name.
func (r *Registry) Register(b *Builtin) {
	r.table[b.Name] = b
}

// Lookup finds a builtin by name.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	b, ok := r.table[name]
	return b, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
