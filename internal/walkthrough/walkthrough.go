// Package walkthrough wires a guide to the step sequencer, the scene stage
// and a presentation State. The TUI and the plain console each drive one
// Walkthrough from their event loop.
package walkthrough

import (
	"fmt"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/event"
	"github.com/Iron-Ham/pcbuild/internal/guide"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/present"
	"github.com/Iron-Ham/pcbuild/internal/scene"
	"github.com/Iron-Ham/pcbuild/internal/sequencer"
)

// Command is a user request a host forwards to the walkthrough.
type Command string

const (
	CmdNext     Command = "next"
	CmdPrevious Command = "previous"
	CmdMenu     Command = "menu"
	CmdStart    Command = "start"
	CmdParts    Command = "parts"
	CmdClose    Command = "close"
	CmdJump     Command = "jump"
)

// Mode describes which surface has the user's attention.
type Mode string

const (
	ModeMenu     Mode = "menu"
	ModeParts    Mode = "parts"
	ModeAssembly Mode = "assembly"
)

// Options configures a Walkthrough. Zero values get working defaults.
type Options struct {
	Library *scene.Library
	Bus     *event.Bus
	Logger  *logging.Logger
	// Floor overrides the guide's retreat floor. Nil keeps the guide's.
	Floor *int
}

// Walkthrough owns one guide run. It is not safe for concurrent use.
type Walkthrough struct {
	guide       *guide.Guide
	fingerprint string
	seq         *sequencer.Sequencer

	state   *present.State
	stage   *scene.Stage
	library *scene.Library
	bus     *event.Bus
	logger  *logging.Logger
	floor   *int
}

// New compiles g and prepares a walkthrough positioned on step 0. No step
// action runs until Start.
func New(g *guide.Guide, opts Options) (*Walkthrough, error) {
	if g == nil {
		return nil, errors.NewGuideError("starting walkthrough: guide is nil", errors.ErrInvalidInput)
	}
	w := &Walkthrough{
		state:   present.NewState(),
		stage:   scene.NewStage(),
		library: opts.Library,
		bus:     opts.Bus,
		logger:  opts.Logger,
		floor:   opts.Floor,
	}
	if w.library == nil {
		w.library = scene.NewDefaultLibrary("")
	}
	if w.bus == nil {
		w.bus = event.NewBus()
	}
	if w.logger == nil {
		w.logger = logging.NopLogger()
	}

	w.stage.OnAppend(func(h *scene.Handle) {
		w.bus.Publish(event.NewSceneLoadedEvent(h.Name(), h.Collidable()))
	})
	w.stage.OnNotification(func(n scene.Notification) {
		w.bus.Publish(event.NewSceneNotificationEvent(n.Scene, n.Trigger, n.Message, n.Count))
	})

	seq, fp, err := w.build(g)
	if err != nil {
		return nil, err
	}
	w.guide, w.seq, w.fingerprint = g, seq, fp
	return w, nil
}

func (w *Walkthrough) build(g *guide.Guide) (*sequencer.Sequencer, string, error) {
	logger := w.logger.WithGuide(g.Name)
	defs, err := guide.Compile(g, guide.Env{
		Presenter: w.state,
		Library:   w.library,
		Stage:     w.stage,
		Logger:    logger,
	})
	if err != nil {
		return nil, "", err
	}

	floor := g.Floor
	if w.floor != nil {
		floor = *w.floor
	}
	seq, err := sequencer.New(defs,
		sequencer.WithFloor(floor),
		sequencer.WithObserver(w.observe),
		sequencer.WithLogger(logger),
	)
	if err != nil {
		return nil, "", fmt.Errorf("building sequencer for %s: %w", g.Name, err)
	}

	fp, err := guide.Fingerprint(g)
	if err != nil {
		return nil, "", err
	}
	return seq, fp, nil
}

func (w *Walkthrough) observe(t sequencer.Transition) {
	w.bus.Publish(event.FromTransition(t))
}

// Start shows the first screen. A positive at resumes on that step instead of
// entering step 0; an index past the end falls back to step 0.
func (w *Walkthrough) Start(at int) (sequencer.Step, error) {
	if at > 0 && at < w.seq.Len() {
		return w.seq.JumpTo(at)
	}
	if at != 0 {
		w.logger.Warn("resume step out of range, starting over", "step", at, "steps", w.seq.Len())
	}
	return w.seq.Enter()
}

// Do performs c. arg is the target index for CmdJump and ignored otherwise.
// A command whose control is disabled returns ErrControlDisabled and changes
// nothing.
func (w *Walkthrough) Do(c Command, arg int) (sequencer.Step, error) {
	switch c {
	case CmdNext:
		if !w.state.Enabled(present.ControlNext) {
			return w.seq.Current(), disabled(c)
		}
		return w.seq.Advance()

	case CmdPrevious:
		if !w.state.Enabled(present.ControlPrevious) {
			return w.seq.Current(), disabled(c)
		}
		return w.seq.Retreat()

	case CmdMenu:
		if !w.state.Enabled(present.ControlMenu) {
			return w.seq.Current(), disabled(c)
		}
		w.state.SetOverlayVisible(present.OverlayMenu, true)
		return w.seq.Current(), nil

	case CmdStart:
		if w.Mode() != ModeMenu {
			return w.seq.Current(), disabled(c)
		}
		w.state.SetOverlayVisible(present.OverlayMenu, false)
		return w.seq.JumpTo(w.seq.Floor())

	case CmdParts:
		if w.Mode() != ModeMenu {
			return w.seq.Current(), disabled(c)
		}
		w.state.SetOverlayVisible(present.OverlayParts, true)
		return w.seq.Current(), nil

	case CmdClose:
		switch {
		case w.state.Visible(present.OverlayParts):
			w.state.SetOverlayVisible(present.OverlayParts, false)
		case w.state.Visible(present.OverlayMenu) && w.seq.Cursor() != 0:
			// Step 0 is the menu itself; there is nothing underneath it.
			w.state.SetOverlayVisible(present.OverlayMenu, false)
		}
		return w.seq.Current(), nil

	case CmdJump:
		return w.seq.JumpTo(arg)
	}
	return w.seq.Current(), errors.NewValidationError("unknown command").
		WithField("command").
		WithValue(string(c))
}

func disabled(c Command) error {
	return errors.Wrapf(errors.ErrControlDisabled, "%s", c)
}

// Reload swaps in a new revision of the guide and re-enters the current
// step. The step is matched by ID; when the new revision no longer has it
// the cursor falls back to min(cursor, N-1). A guide that fails to compile
// leaves the running one in place; the failure is returned and published.
func (w *Walkthrough) Reload(g *guide.Guide) error {
	seq, fp, err := w.build(g)
	if err != nil {
		w.logger.Warn("guide reload rejected", "guide", g.Name, "error", err.Error())
		w.bus.Publish(event.NewGuideReloadedEvent(g.Name, "", 0, err.Error()))
		return err
	}

	target := reloadTarget(g, w.seq.Current().ID(), w.seq.Cursor(), seq.Len())
	w.guide, w.seq, w.fingerprint = g, seq, fp
	w.logger.Info("guide reloaded", "guide", g.Name, "steps", seq.Len(), "cursor", target)

	_, err = w.seq.JumpTo(target)
	w.bus.Publish(event.NewGuideReloadedEvent(g.Name, fp, seq.Len(), ""))
	return err
}

func reloadTarget(g *guide.Guide, id string, cursor, n int) int {
	if i := g.StepIndex(id); i >= 0 {
		return i
	}
	return min(cursor, n-1)
}

// Mode reports which surface is on top.
func (w *Walkthrough) Mode() Mode {
	switch {
	case w.state.Visible(present.OverlayParts):
		return ModeParts
	case w.state.Visible(present.OverlayMenu):
		return ModeMenu
	}
	return ModeAssembly
}

// Progress is the fraction of the guide completed, in [0, 1].
func (w *Walkthrough) Progress() float64 {
	if w.seq.Len() < 2 {
		return 1
	}
	return float64(w.seq.Cursor()) / float64(w.seq.Len()-1)
}

// Guide returns the running guide.
func (w *Walkthrough) Guide() *guide.Guide { return w.guide }

// Fingerprint returns the running guide's content hash.
func (w *Walkthrough) Fingerprint() string { return w.fingerprint }

// Sequencer returns the running sequencer. It changes on Reload.
func (w *Walkthrough) Sequencer() *sequencer.Sequencer { return w.seq }

// State returns the presentation state step actions write to.
func (w *Walkthrough) State() *present.State { return w.state }

// Stage returns the anchored scenes.
func (w *Walkthrough) Stage() *scene.Stage { return w.stage }

// Bus returns the event bus transitions are published on.
func (w *Walkthrough) Bus() *event.Bus { return w.bus }

// LastStep is the index whose entry completes a session.
func (w *Walkthrough) LastStep() int { return w.seq.Len() - 1 }
