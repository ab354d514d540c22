package sequencer

import "github.com/Iron-Ham/pcbuild/internal/errors"

// Op names the navigation call that produced a transition.
type Op int

const (
	OpEnter Op = iota
	OpAdvance
	OpRetreat
	OpJump
	OpReset
)

// String returns the lowercase op name.
func (o Op) String() string {
	switch o {
	case OpEnter:
		return "enter"
	case OpAdvance:
		return "advance"
	case OpRetreat:
		return "retreat"
	case OpJump:
		return "jump"
	case OpReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Transition describes one observable navigation outcome.
//
// A successful move is reported once, before the destination action runs. A
// clamped Advance or Retreat is reported with Clamped set. A failed action is
// reported as a second transition with From == To and Err set. A rejected
// JumpTo (or a navigation loop) is reported with the cursor unchanged and Err set.
type Transition struct {
	Op      Op
	From    int
	To      int
	StepID  string
	Clamped bool
	Depth   int
	Err     error
}

// Moved reports whether the cursor changed or a step was (re-)entered.
func (t Transition) Moved() bool {
	return !t.Clamped && t.Err == nil
}

// ActionFailed reports whether this transition carries a step action failure.
func (t Transition) ActionFailed() bool {
	return t.Err != nil && errors.Is(t.Err, errors.ErrActionFailed)
}

// Rejected reports whether navigation was refused before reaching a step.
func (t Transition) Rejected() bool {
	return t.Err != nil && !t.ActionFailed()
}
