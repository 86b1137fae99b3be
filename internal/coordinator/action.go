package coordinator

import "git.home.luguber.info/inful/catalogmirror/internal/version"

// Action is what a poll decided to do.
type Action string

const (
	ActionNoOp            Action = "noop"
	ActionSilentReload    Action = "silent_reload"
	ActionAwaitingRestart Action = "awaiting_restart"
	// ActionSkipped means a relocation held the operation gate.
	ActionSkipped Action = "skipped"
)

// State is the poll state machine position.
type State string

const (
	StateIdle            State = "idle"
	StateChecking        State = "checking"
	StateNoOp            State = "noop"
	StateSilentReload    State = "silent_reload"
	StateAwaitingRestart State = "awaiting_restart"
)

// Decide maps a probe outcome to an action. A staged program build takes
// precedence over new data.
func Decide(s version.State) Action {
	switch {
	case !s.DataChanged:
		return ActionNoOp
	case s.ProgramUpdate != nil:
		return ActionAwaitingRestart
	default:
		return ActionSilentReload
	}
}

func stateFor(a Action) State {
	switch a {
	case ActionNoOp:
		return StateNoOp
	case ActionSilentReload:
		return StateSilentReload
	case ActionAwaitingRestart:
		return StateAwaitingRestart
	default:
		return StateIdle
	}
}
