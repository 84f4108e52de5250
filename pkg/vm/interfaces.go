package vm

// Collaborator interfaces the engine drives but never implements.
// Suspending builtins hand a request to a collaborator and park the
// instance on a WakeCondition; the collaborator (or the host glue around
// it) later calls Engine.NotifyWake with an equal condition to resume.
//
// A collaborator method returning an error faults the invoking instance
// with an ErrHostFailure runtime error.

// DialogSystem presents text to the player.
type DialogSystem interface {
	// ShowMessage opens a message window. The instance resumes on
	// WakeMessageClosed for the same instance id.
	ShowMessage(instanceID string, text string) error

	// ShowNotice displays fire-and-forget text. No suspension.
	ShowNotice(text string) error

	// ShowChoice opens a choice prompt. The instance resumes on
	// WakeChoiceMade with the selected option index as payload.
	ShowChoice(instanceID string, prompt string, options []string) error
}

// MovementSystem moves characters on the host's map.
type MovementSystem interface {
	// StartMove begins moving a character to (x, y). The instance
	// resumes on WakeMoveDone for the character id.
	StartMove(charaID, x, y int64) error

	// Warp teleports a character immediately.
	Warp(charaID, x, y int64) error

	// Face turns a character to a direction immediately.
	Face(charaID, dir int64) error
}

// AudioSystem triggers music and sound effects.
type AudioSystem interface {
	PlayBGM(name string) error
	PlaySE(name string) error
	StopBGM() error
}

// BattleSystem runs battles.
type BattleSystem interface {
	// StartBattle begins a battle against a troop. The instance resumes
	// on WakeBattleDone for the troop id with the outcome as payload.
	StartBattle(troopID int64) error
}

// MenuSystem opens host menus.
type MenuSystem interface {
	// OpenMenu opens a menu of the given kind. The instance resumes on
	// WakeMenuClosed for the kind with the selection as payload.
	OpenMenu(kind int64) error
}

// PartyState exposes party inventory and gold. Queries are synchronous.
type PartyState interface {
	HasItem(itemID int64) (bool, error)
	AddItem(itemID, count int64) error
	Gold() (int64, error)
}

// Hosts bundles the collaborators an engine is wired to. Nil fields are
// legal; a builtin whose collaborator is missing faults with
// ErrHostFailure, so pure-computation scripts run with a zero Hosts.
type Hosts struct {
	Dialog   DialogSystem
	Movement MovementSystem
	Audio    AudioSystem
	Battle   BattleSystem
	Menu     MenuSystem
	Party    PartyState
}
