// Package sequencer implements the ordered step model behind a guided
// walkthrough: a fixed list of steps, a cursor, and bounds-checked
// navigation that fires the destination step's action on entry.
//
// A Sequencer is not safe for concurrent use. All navigation must come from
// one goroutine (the UI event loop). Actions run synchronously and may call
// back into the Navigator they are handed, for example to Reset from a
// completion step.
package sequencer

import (
	"fmt"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/logging"
)

// DefaultMaxDepth bounds how deeply actions may re-enter navigation.
const DefaultMaxDepth = 8

// Action is the side effect bound to a step. It runs once each time its step
// becomes current.
type Action func(nav Navigator) error

// StepDef is the construction-time description of a step.
type StepDef struct {
	ID     string
	Title  string
	Action Action
}

// Step is an immutable step record. Its index is its position in the sequence.
type Step struct {
	index  int
	id     string
	title  string
	action Action
}

// Index returns the 0-based position of the step.
func (s Step) Index() int { return s.index }

// ID returns the step identifier (may be empty).
func (s Step) ID() string { return s.id }

// Title returns the human-readable title (may be empty).
func (s Step) Title() string { return s.title }

// String implements fmt.Stringer.
func (s Step) String() string {
	if s.id == "" {
		return fmt.Sprintf("step %d", s.index)
	}
	return fmt.Sprintf("step %d (%s)", s.index, s.id)
}

// Navigator is the navigation surface handed to actions and hosts.
type Navigator interface {
	Current() Step
	Advance() (Step, error)
	Retreat() (Step, error)
	JumpTo(index int) (Step, error)
	Reset() (Step, error)
	Len() int
	Floor() int
}

// Sequencer owns the step list and cursor.
type Sequencer struct {
	steps    []Step
	cursor   int
	floor    int
	maxDepth int
	depth    int
	observer func(Transition)
	logger   *logging.Logger
}

var _ Navigator = (*Sequencer)(nil)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithFloor sets the lowest cursor value Retreat can reach.
func WithFloor(floor int) Option {
	return func(s *Sequencer) { s.floor = floor }
}

// WithObserver registers a callback that receives every Transition.
func WithObserver(fn func(Transition)) Option {
	return func(s *Sequencer) { s.observer = fn }
}

// WithLogger sets the logger used for navigation diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithMaxDepth bounds nested navigation from inside actions.
func WithMaxDepth(n int) Option {
	return func(s *Sequencer) { s.maxDepth = n }
}

// New builds a Sequencer over defs. The cursor starts at 0 and no action is
// fired until the host calls Enter, Reset or a navigation method.
func New(defs []StepDef, opts ...Option) (*Sequencer, error) {
	if len(defs) == 0 {
		return nil, errors.NewSequenceError("cannot build sequencer", errors.ErrEmptySequence).WithLength(0)
	}

	s := &Sequencer{
		steps:    make([]Step, len(defs)),
		maxDepth: DefaultMaxDepth,
		logger:   logging.NopLogger(),
	}
	for i, d := range defs {
		s.steps[i] = Step{index: i, id: d.ID, title: d.Title, action: d.Action}
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.floor < 0 || s.floor >= len(s.steps) {
		return nil, errors.NewSequenceError("cannot build sequencer", errors.ErrInvalidFloor).
			WithIndex(s.floor).
			WithLength(len(s.steps))
	}
	if s.maxDepth < 1 {
		s.maxDepth = 1
	}
	return s, nil
}

// Len returns the number of steps.
func (s *Sequencer) Len() int { return len(s.steps) }

// Floor returns the retreat floor.
func (s *Sequencer) Floor() int { return s.floor }

// Cursor returns the current position.
func (s *Sequencer) Cursor() int { return s.cursor }

// Steps returns a copy of the step list.
func (s *Sequencer) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Current returns the step at the cursor. It never fires an action.
func (s *Sequencer) Current() Step {
	return s.steps[s.cursor]
}

// AtEnd reports whether the cursor is on the final step.
func (s *Sequencer) AtEnd() bool {
	return s.cursor == len(s.steps)-1
}

// Enter fires the current step's action without moving the cursor. Hosts use
// it once when the walkthrough first becomes visible.
func (s *Sequencer) Enter() (Step, error) {
	return s.move(OpEnter, s.cursor)
}

// Advance moves to the next step and fires it. On the final step it is a
// silent no-op; wrapping back to the start is the final step's own business.
func (s *Sequencer) Advance() (Step, error) {
	if s.cursor >= len(s.steps)-1 {
		return s.clamp(OpAdvance)
	}
	return s.move(OpAdvance, s.cursor+1)
}

// Retreat moves to the previous step and fires it. At or below the floor it is
// a silent no-op.
func (s *Sequencer) Retreat() (Step, error) {
	if s.cursor <= s.floor {
		return s.clamp(OpRetreat)
	}
	return s.move(OpRetreat, s.cursor-1)
}

// JumpTo moves to index and fires it. An index outside [0, Len()) returns an
// OutOfRange error and leaves the cursor untouched.
func (s *Sequencer) JumpTo(index int) (Step, error) {
	if index < 0 || index >= len(s.steps) {
		err := errors.NewSequenceError("jump target out of range", errors.ErrOutOfRange).
			WithIndex(index).
			WithLength(len(s.steps))
		s.notify(Transition{Op: OpJump, From: s.cursor, To: s.cursor, StepID: s.steps[s.cursor].id, Depth: s.depth, Err: err})
		return s.Current(), err
	}
	return s.move(OpJump, index)
}

// Reset returns to step 0 and fires it once.
func (s *Sequencer) Reset() (Step, error) {
	return s.move(OpReset, 0)
}

func (s *Sequencer) clamp(op Op) (Step, error) {
	cur := s.Current()
	s.logger.Debug("navigation clamped", "op", op.String(), "cursor", s.cursor)
	s.notify(Transition{Op: op, From: s.cursor, To: s.cursor, StepID: cur.id, Clamped: true, Depth: s.depth})
	return cur, nil
}

// move sets the cursor and then runs the destination action. Observers see
// the entry before the action runs, so nested navigation is reported in the
// order it happens. The cursor is never rolled back when the action fails.
func (s *Sequencer) move(op Op, to int) (Step, error) {
	if s.depth >= s.maxDepth {
		err := errors.NewSequenceError("action re-entered navigation too deeply", errors.ErrNavigationLoop).
			WithIndex(to).
			WithLength(len(s.steps))
		s.notify(Transition{Op: op, From: s.cursor, To: s.cursor, StepID: s.steps[s.cursor].id, Depth: s.depth, Err: err})
		return s.Current(), err
	}

	from := s.cursor
	s.cursor = to
	step := s.steps[to]
	s.notify(Transition{Op: op, From: from, To: to, StepID: step.id, Depth: s.depth})

	s.depth++
	nested, err := s.run(step)
	s.depth--

	if err != nil && !nested {
		s.notify(Transition{Op: op, From: to, To: to, StepID: step.id, Depth: s.depth, Err: err})
	}
	return s.Current(), err
}

// run invokes the step's action. An ActionError coming out of nested
// navigation has already been reported, so it is passed through as nested.
func (s *Sequencer) run(step Step) (nested bool, err error) {
	if step.action == nil {
		return false, nil
	}
	if err = step.action(s); err == nil {
		return false, nil
	}

	var actionErr *errors.ActionError
	if errors.As(err, &actionErr) {
		return true, err
	}

	s.logger.WithStep(step.index, step.id).Warn("step action failed", "error", err.Error())
	return false, errors.NewActionError(step.index, step.id, err)
}

func (s *Sequencer) notify(t Transition) {
	if s.observer != nil {
		s.observer(t)
	}
}
