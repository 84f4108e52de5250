package vm

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hazama/plotscript/pkg/script"
)

// Engine defaults
const (
	DefaultMaxStackDepth = 64

	// DefaultStepBudget of 0 means unbounded work per instance per tick.
	DefaultStepBudget = 0
)

// ErrNoSuchInstance is returned for operations on an unknown instance id.
var ErrNoSuchInstance = errors.New("no such instance")

// ErrNoSuchScript is returned when invoking a script that is not loaded.
var ErrNoSuchScript = errors.New("script not loaded")

// Engine owns the loaded scripts, the live instances, the shared global
// environment and the builtin registry, and advances everything one host
// frame at a time.
//
// The engine is single-threaded by contract: the host calls Tick, Step,
// Invoke, Cancel and NotifyWake from its own update loop, never
// concurrently. All script work happens inside those calls.
type Engine struct {
	log      *slog.Logger
	registry *Registry
	hosts    Hosts
	scripts  *script.Cache
	globals  *Scope
	rng      *rand.Rand

	maxDepth int
	budget   int

	frame      int64
	instances  []*Instance
	byID       map[string]*Instance
	waiting    map[WakeCondition][]*Instance
	frameWaits []*Instance
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithHosts wires the collaborator implementations.
func WithHosts(h Hosts) Option {
	return func(e *Engine) { e.hosts = h }
}

// WithRegistry replaces the default builtin registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithMaxStackDepth bounds script call recursion.
func WithMaxStackDepth(n int) Option {
	return func(e *Engine) { e.maxDepth = n }
}

// WithStepBudget bounds the statements one instance may execute per
// tick. 0 or less means unbounded.
func WithStepBudget(n int) Option {
	return func(e *Engine) { e.budget = n }
}

// WithRandomSeed seeds the Random builtin for reproducible runs.
func WithRandomSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithScriptCache shares a pre-populated script cache.
func WithScriptCache(c *script.Cache) Option {
	return func(e *Engine) { e.scripts = c }
}

// New creates an engine. Without options it logs through slog.Default,
// has no collaborators, and uses the default builtin registry.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:      slog.Default(),
		scripts:  script.NewCache(),
		globals:  NewScope(nil),
		maxDepth: DefaultMaxStackDepth,
		budget:   DefaultStepBudget,
		byID:     make(map[string]*Instance),
		waiting:  make(map[WakeCondition][]*Instance),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = DefaultRegistry()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Hosts returns the wired collaborators. Builtins reach them through the
// invocation's engine.
func (e *Engine) Hosts() Hosts { return e.hosts }

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.log }

// Random draws from the engine's seeded source, [0, n).
func (e *Engine) Random(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return e.rng.Int63n(n)
}

// Frame returns the current frame counter.
func (e *Engine) Frame() int64 { return e.frame }

// LoadScript parses source and caches it under name. Lex and parse
// errors are returned as-is.
func (e *Engine) LoadScript(name, source string) error {
	return e.scripts.Load(name, source)
}

// Scripts returns the engine's script cache.
func (e *Engine) Scripts() *script.Cache { return e.scripts }

// Global reads a variable from the shared global environment.
func (e *Engine) Global(name string) (Value, bool) {
	return e.globals.Get(name)
}

// SetGlobal writes a variable into the shared global environment.
func (e *Engine) SetGlobal(name string, v Value) {
	e.globals.Set(name, v)
}

// Invoke starts a new instance of a loaded script. The instance runs the
// script's top-level statements, then its entry function with args
// bound, starting on the next Tick (or Step).
func (e *Engine) Invoke(name string, args ...Value) (string, error) {
	s, ok := e.scripts.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoSuchScript, name)
	}
	cloned := make([]Value, len(args))
	for i, a := range args {
		cloned[i] = a.Clone()
	}
	inst := newInstance(s, cloned, e.globals)
	e.instances = append(e.instances, inst)
	e.byID[inst.id] = inst
	e.log.Debug("script invoked", "script", name, "instance", inst.id)
	return inst.id, nil
}

// Instance looks up an instance by id, including finished ones that have
// not been cleared by Reset.
func (e *Engine) Instance(id string) (*Instance, bool) {
	inst, ok := e.byID[id]
	return inst, ok
}

// Live returns the ids of all unfinished instances in invocation order.
func (e *Engine) Live() []string {
	ids := make([]string, 0, len(e.instances))
	for _, inst := range e.instances {
		ids = append(ids, inst.id)
	}
	return ids
}

// Tick advances one host frame: the frame counter increments, instances
// whose frame wait has elapsed wake, and every running instance is
// stepped in invocation order under the configured budget. Instances
// spawned during the tick first run on the next one.
func (e *Engine) Tick() {
	e.frame++

	if len(e.frameWaits) > 0 {
		keep := e.frameWaits[:0]
		for _, inst := range e.frameWaits {
			switch {
			case inst.status != StatusSuspended:
				// cancelled while parked; drop
			case inst.wakeAt <= e.frame:
				e.wakeInstance(inst, Void)
			default:
				keep = append(keep, inst)
			}
		}
		e.frameWaits = keep
	}

	snapshot := make([]*Instance, len(e.instances))
	copy(snapshot, e.instances)
	for _, inst := range snapshot {
		if inst.status == StatusRunning {
			e.stepInstance(inst, e.budget)
		}
	}
	e.reap()
}

// Step advances a single instance under an explicit budget. Suspended
// instances are left alone; frame waits elapse only through Tick.
func (e *Engine) Step(id string, budget int) (Status, error) {
	inst, ok := e.byID[id]
	if !ok {
		return StatusFaulted, fmt.Errorf("%w: %s", ErrNoSuchInstance, id)
	}
	if inst.status == StatusRunning {
		e.stepInstance(inst, budget)
		e.reap()
	}
	if inst.status == StatusFaulted {
		return StatusFaulted, inst.err
	}
	return inst.status, nil
}

// NotifyWake resumes every instance suspended on an equal condition,
// binding result at the suspended call site. Returns the number of
// instances woken. Frame-wait conditions are engine-internal and never
// match.
func (e *Engine) NotifyWake(cond WakeCondition, result Value) int {
	parked := e.waiting[cond]
	if len(parked) == 0 {
		return 0
	}
	delete(e.waiting, cond)
	woken := 0
	for _, inst := range parked {
		if inst.status != StatusSuspended {
			continue
		}
		e.wakeInstance(inst, result)
		woken++
	}
	return woken
}

// Cancel aborts an instance. All frames drop immediately, any registered
// wake condition is unregistered, and a later NotifyWake for it is a
// no-op. Returns false when the id is unknown or already finished.
func (e *Engine) Cancel(id string) bool {
	inst, ok := e.byID[id]
	if !ok || inst.status == StatusCompleted || inst.status == StatusFaulted || inst.status == StatusCancelled {
		return false
	}
	e.dropWait(inst)
	inst.cancel()
	e.log.Debug("instance cancelled", "script", inst.script.Name, "instance", inst.id)
	e.reap()
	return true
}

// CancelAll aborts every unfinished instance.
func (e *Engine) CancelAll() {
	for _, inst := range e.instances {
		if inst.status == StatusRunning || inst.status == StatusSuspended {
			e.dropWait(inst)
			inst.cancel()
		}
	}
	e.reap()
}

// Reset aborts all instances and clears the global environment and the
// instance table. Loaded scripts stay cached. This is the new-game and
// load-game boundary.
func (e *Engine) Reset() {
	e.CancelAll()
	e.globals = NewScope(nil)
	e.instances = nil
	e.byID = make(map[string]*Instance)
	e.waiting = make(map[WakeCondition][]*Instance)
	e.frameWaits = nil
	e.frame = 0
}

// stepInstance runs one instance until it suspends, finishes, faults or
// exhausts the budget. One statement or loop-condition evaluation costs
// one budget unit; block bookkeeping is free.
func (e *Engine) stepInstance(inst *Instance, budget int) {
	spent := 0
	for inst.status == StatusRunning {
		frame := inst.topFrame()
		if frame == nil {
			return
		}
		b := frame.top()
		if b.idx >= len(b.stmts) {
			if len(frame.blocks) == 1 {
				e.finishFrame(inst, Void)
			} else {
				// a loop body pops back onto its while statement; any
				// other block resumes after its parent statement
				frame.popBlock()
			}
			continue
		}

		if budget > 0 && spent >= budget {
			return
		}
		spent++

		sig := execCurrent(e, inst)
		if sig == nil {
			continue
		}
		switch {
		case sig.err != nil:
			inst.fault(sig.err)
			e.log.Error("instance faulted",
				"script", inst.script.Name,
				"instance", inst.id,
				"error", inst.err)
		case sig.wake != nil:
			e.park(inst, *sig.wake)
		case sig.call:
			// callee frame pushed; keep stepping
		}
	}
}

// finishFrame pops the top frame, delivering ret to the caller's replay
// list. When the last frame pops, the entry function runs next if the
// script defines one; otherwise the instance completes.
func (e *Engine) finishFrame(inst *Instance, ret Value) {
	inst.frames = inst.frames[:len(inst.frames)-1]
	if len(inst.frames) > 0 {
		inst.topFrame().pushResult(ret.Clone())
		return
	}

	if !inst.entered {
		inst.entered = true
		if fn, ok := inst.script.Entry(); ok {
			scope := NewScope(inst.globals)
			for i, p := range fn.Parameters {
				if i < len(inst.args) {
					scope.SetLocal(p, inst.args[i])
				} else {
					scope.SetLocal(p, Void)
				}
			}
			inst.frames = append(inst.frames, newCallFrame(fn.Name, scope, fn.Body.Statements))
			return
		}
	}

	inst.result = ret
	inst.status = StatusCompleted
	e.log.Debug("instance completed", "script", inst.script.Name, "instance", inst.id)
}

// park suspends an instance on a wake condition. Frame waits are retired
// by Tick itself; everything else waits for NotifyWake.
func (e *Engine) park(inst *Instance, w WakeCondition) {
	inst.status = StatusSuspended
	inst.wake = w
	if w.Kind == WakeFrames {
		inst.wakeAt = e.frame + w.Frames
		e.frameWaits = append(e.frameWaits, inst)
		return
	}
	e.waiting[w] = append(e.waiting[w], inst)
}

// wakeInstance resumes a suspended instance, appending the wake result
// to the suspended call's frame so it binds at the call site.
func (e *Engine) wakeInstance(inst *Instance, result Value) {
	inst.status = StatusRunning
	inst.wake = WakeCondition{}
	inst.wakeAt = 0
	if f := inst.topFrame(); f != nil {
		f.pushResult(result.Clone())
	}
}

// dropWait unregisters a suspended instance's wake condition.
func (e *Engine) dropWait(inst *Instance) {
	if inst.status != StatusSuspended || inst.wake.Kind == WakeFrames {
		return
	}
	parked := e.waiting[inst.wake]
	for i, other := range parked {
		if other == inst {
			parked = append(parked[:i], parked[i+1:]...)
			break
		}
	}
	if len(parked) == 0 {
		delete(e.waiting, inst.wake)
	} else {
		e.waiting[inst.wake] = parked
	}
}

// reap removes finished instances from the run list. They stay in the
// id table for status queries until Reset.
func (e *Engine) reap() {
	live := e.instances[:0]
	for _, inst := range e.instances {
		if inst.status == StatusRunning || inst.status == StatusSuspended {
			live = append(live, inst)
		}
	}
	e.instances = live
}
