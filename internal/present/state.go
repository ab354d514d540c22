package present

// State is a snapshot of everything a host renders. Both the TUI and the
// console keep one State and apply presenter calls to it.
type State struct {
	Message       string
	MessageHidden bool
	AutoHide      bool
	// MessageSeq increases on every ShowMessage so a host can tell whether
	// a pending auto-hide still refers to the message on screen.
	MessageSeq uint64

	Controls map[Control]bool
	Overlays map[Overlay]bool

	Milestone        Milestone
	MilestoneVisible bool
}

var _ Presenter = (*State)(nil)

// NewState returns the initial screen: no message, every control disabled,
// no overlays. Guides enable what they need from their first step.
func NewState() *State {
	s := &State{
		MessageHidden: true,
		Controls:      make(map[Control]bool, len(Controls())),
		Overlays:      make(map[Overlay]bool, len(Overlays())),
	}
	for _, c := range Controls() {
		s.Controls[c] = false
	}
	for _, o := range Overlays() {
		s.Overlays[o] = false
	}
	return s
}

// ShowMessage implements Presenter.
func (s *State) ShowMessage(text string, autoHide bool) {
	s.Message = text
	s.MessageHidden = false
	s.AutoHide = autoHide
	s.MessageSeq++
}

// HideMessage hides the message if seq still identifies it. It reports
// whether anything changed.
func (s *State) HideMessage(seq uint64) bool {
	if seq != s.MessageSeq || s.MessageHidden {
		return false
	}
	s.MessageHidden = true
	return true
}

// SetControlEnabled implements Presenter.
func (s *State) SetControlEnabled(c Control, enabled bool) {
	s.Controls[c] = enabled
}

// SetOverlayVisible implements Presenter.
func (s *State) SetOverlayVisible(o Overlay, visible bool) {
	s.Overlays[o] = visible
}

// ShowMilestone implements Presenter.
func (s *State) ShowMilestone(m Milestone) {
	s.Milestone = m
	s.MilestoneVisible = true
}

// HideMilestone implements Presenter.
func (s *State) HideMilestone() {
	s.MilestoneVisible = false
}

// Enabled reports whether control c is enabled.
func (s *State) Enabled(c Control) bool { return s.Controls[c] }

// Visible reports whether overlay o is shown.
func (s *State) Visible(o Overlay) bool { return s.Overlays[o] }

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.Controls = make(map[Control]bool, len(s.Controls))
	for k, v := range s.Controls {
		c.Controls[k] = v
	}
	c.Overlays = make(map[Overlay]bool, len(s.Overlays))
	for k, v := range s.Overlays {
		c.Overlays[k] = v
	}
	return &c
}
