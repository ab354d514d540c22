package present

import (
	"fmt"
	"strings"
)

// CallKind names a Presenter method.
type CallKind string

const (
	CallShowMessage   CallKind = "show_message"
	CallSetControl    CallKind = "set_control"
	CallSetOverlay    CallKind = "set_overlay"
	CallShowMilestone CallKind = "show_milestone"
	CallHideMilestone CallKind = "hide_milestone"
)

// Call is one recorded Presenter invocation.
type Call struct {
	Kind      CallKind
	Text      string
	AutoHide  bool
	Control   Control
	Overlay   Overlay
	On        bool
	Milestone Milestone
}

// String renders the call the way `guide check` prints it.
func (c Call) String() string {
	switch c.Kind {
	case CallShowMessage:
		if c.AutoHide {
			return fmt.Sprintf("message %q (auto-hide)", c.Text)
		}
		return fmt.Sprintf("message %q", c.Text)
	case CallSetControl:
		return fmt.Sprintf("control %s %s", c.Control, onOff(c.On, "enabled", "disabled"))
	case CallSetOverlay:
		return fmt.Sprintf("overlay %s %s", c.Overlay, onOff(c.On, "shown", "hidden"))
	case CallShowMilestone:
		return fmt.Sprintf("milestone %q: %s", c.Milestone.StepLabel, c.Milestone.Instruction)
	case CallHideMilestone:
		return "milestone hidden"
	default:
		return string(c.Kind)
	}
}

func onOff(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}

// Recorder is a Presenter that keeps every call in order and also maintains
// the resulting State.
type Recorder struct {
	calls []Call
	state *State
}

var _ Presenter = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{state: NewState()}
}

func (r *Recorder) record(c Call) {
	r.calls = append(r.calls, c)
}

// ShowMessage implements Presenter.
func (r *Recorder) ShowMessage(text string, autoHide bool) {
	r.record(Call{Kind: CallShowMessage, Text: text, AutoHide: autoHide})
	r.state.ShowMessage(text, autoHide)
}

// SetControlEnabled implements Presenter.
func (r *Recorder) SetControlEnabled(c Control, enabled bool) {
	r.record(Call{Kind: CallSetControl, Control: c, On: enabled})
	r.state.SetControlEnabled(c, enabled)
}

// SetOverlayVisible implements Presenter.
func (r *Recorder) SetOverlayVisible(o Overlay, visible bool) {
	r.record(Call{Kind: CallSetOverlay, Overlay: o, On: visible})
	r.state.SetOverlayVisible(o, visible)
}

// ShowMilestone implements Presenter.
func (r *Recorder) ShowMilestone(m Milestone) {
	r.record(Call{Kind: CallShowMilestone, Milestone: m})
	r.state.ShowMilestone(m)
}

// HideMilestone implements Presenter.
func (r *Recorder) HideMilestone() {
	r.record(Call{Kind: CallHideMilestone})
	r.state.HideMilestone()
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Since returns the calls recorded after the first n.
func (r *Recorder) Since(n int) []Call {
	if n >= len(r.calls) {
		return nil
	}
	out := make([]Call, len(r.calls)-n)
	copy(out, r.calls[n:])
	return out
}

// Len returns how many calls have been recorded.
func (r *Recorder) Len() int { return len(r.calls) }

// Messages returns the text of every ShowMessage call in order.
func (r *Recorder) Messages() []string {
	var out []string
	for _, c := range r.calls {
		if c.Kind == CallShowMessage {
			out = append(out, c.Text)
		}
	}
	return out
}

// LastMessage returns the most recent message text, or "".
func (r *Recorder) LastMessage() string {
	msgs := r.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

// State returns the state produced by the recorded calls.
func (r *Recorder) State() *State { return r.state }

// Reset forgets recorded calls and restores the initial state.
func (r *Recorder) Reset() {
	r.calls = nil
	r.state = NewState()
}

// String lists the calls one per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, c := range r.calls {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}
