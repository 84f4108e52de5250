package vm

import "fmt"

// WakeKind discriminates what a suspended instance is waiting for.
type WakeKind uint8

// Wake condition kinds
const (
	// WakeFrames waits a fixed number of host frames. Retired internally
	// by Engine.Tick; never delivered through NotifyWake.
	WakeFrames WakeKind = iota

	// WakeMessageClosed waits for the host to dismiss a message window.
	WakeMessageClosed

	// WakeChoiceMade waits for the host to resolve a choice prompt.
	// The wake payload is the selected option index.
	WakeChoiceMade

	// WakeMoveDone waits for a character movement to finish.
	WakeMoveDone

	// WakeBattleDone waits for a battle to resolve.
	// The wake payload is the battle outcome.
	WakeBattleDone

	// WakeMenuClosed waits for a host menu to close.
	// The wake payload is the menu result.
	WakeMenuClosed

	// WakeSignal waits for an arbitrary host signal matched by Tag.
	WakeSignal
)

// String returns the kind's symbolic name.
func (k WakeKind) String() string {
	switch k {
	case WakeFrames:
		return "Frames"
	case WakeMessageClosed:
		return "MessageClosed"
	case WakeChoiceMade:
		return "ChoiceMade"
	case WakeMoveDone:
		return "MoveDone"
	case WakeBattleDone:
		return "BattleDone"
	case WakeMenuClosed:
		return "MenuClosed"
	case WakeSignal:
		return "Signal"
	}
	return "Unknown"
}

// WakeCondition describes what must happen for a suspended instance to
// resume. It is comparable: the host wakes instances by constructing an
// equal condition and passing it to Engine.NotifyWake.
type WakeCondition struct {
	Kind WakeKind

	// Frames is the wait length for WakeFrames conditions.
	Frames int64

	// Target identifies the entity the condition concerns, e.g. the
	// character id for WakeMoveDone.
	Target int64

	// Tag carries a host-chosen discriminator for WakeSignal and for
	// conditions that need more than a numeric target.
	Tag string
}

// String renders the condition for logs.
func (w WakeCondition) String() string {
	switch w.Kind {
	case WakeFrames:
		return fmt.Sprintf("Frames(%d)", w.Frames)
	case WakeSignal:
		return fmt.Sprintf("Signal(%q)", w.Tag)
	}
	if w.Tag != "" {
		return fmt.Sprintf("%s(%d,%q)", w.Kind, w.Target, w.Tag)
	}
	return fmt.Sprintf("%s(%d)", w.Kind, w.Target)
}

// WaitFrames builds a frame-count wait condition.
func WaitFrames(n int64) WakeCondition {
	return WakeCondition{Kind: WakeFrames, Frames: n}
}
