package vm

import (
	"github.com/google/uuid"
	"github.com/hazama/plotscript/pkg/script"
)

// Status is a script instance's lifecycle state.
type Status uint8

// Instance statuses
const (
	StatusRunning Status = iota
	StatusSuspended
	StatusCompleted
	StatusFaulted
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusSuspended:
		return "Suspended"
	case StatusCompleted:
		return "Completed"
	case StatusFaulted:
		return "Faulted"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// Instance is one live invocation of a script. Instances are created by
// Engine.Invoke (or by a script calling CallScript), advanced by the
// engine's tick loop, and reaped once they finish.
//
// An instance first runs the script's top-level statements, then its
// entry function if one is defined, with the invocation arguments bound
// to the entry parameters.
type Instance struct {
	id     string
	script *script.Script
	args   []Value

	frames  []*CallFrame
	globals *Scope

	status Status
	wake   WakeCondition
	wakeAt int64
	err    *RuntimeError
	result Value

	entered bool // entry function already pushed
}

func newInstance(s *script.Script, args []Value, globals *Scope) *Instance {
	inst := &Instance{
		id:      uuid.NewString(),
		script:  s,
		args:    args,
		globals: globals,
		status:  StatusRunning,
	}
	// top-level statements write the shared global environment directly
	inst.frames = append(inst.frames, newCallFrame(s.Name, globals, s.Program.Statements))
	return inst
}

// ID returns the instance's unique id.
func (i *Instance) ID() string { return i.id }

// ScriptName returns the name of the script the instance runs.
func (i *Instance) ScriptName() string { return i.script.Name }

// Status returns the lifecycle state.
func (i *Instance) Status() Status { return i.status }

// Err returns the fault, non-nil only when Status is Faulted.
func (i *Instance) Err() *RuntimeError { return i.err }

// Result returns the value the instance completed with.
func (i *Instance) Result() Value { return i.result }

// Wake returns the condition a Suspended instance is parked on.
func (i *Instance) Wake() WakeCondition { return i.wake }

// Depth returns the current call stack depth.
func (i *Instance) Depth() int { return len(i.frames) }

// topFrame returns the active call frame, nil when the stack is empty.
func (i *Instance) topFrame() *CallFrame {
	if len(i.frames) == 0 {
		return nil
	}
	return i.frames[len(i.frames)-1]
}

// trace captures the script call chain, innermost first.
func (i *Instance) trace() []TraceEntry {
	entries := make([]TraceEntry, 0, len(i.frames))
	for n := len(i.frames) - 1; n >= 0; n-- {
		f := i.frames[n]
		entries = append(entries, TraceEntry{Function: f.fn, Line: f.line})
	}
	return entries
}

// fault moves the instance to Faulted, filling in position and trace.
func (i *Instance) fault(err *RuntimeError) {
	err.Script = i.script.Name
	if f := i.topFrame(); f != nil && err.Line == 0 {
		err.Line, err.Column = f.line, f.column
	}
	err.Trace = i.trace()
	i.err = err
	i.status = StatusFaulted
	i.frames = nil
}

// cancel aborts the instance, dropping all frames.
func (i *Instance) cancel() {
	i.status = StatusCancelled
	i.frames = nil
}
