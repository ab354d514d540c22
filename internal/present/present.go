// Package present defines the presentation surface that step actions drive.
//
// A Presenter is whatever shows the walkthrough to the user: the Bubble Tea
// TUI, the plain console, or a Recorder in tests and dry runs. Step actions
// only ever talk to this interface, never to a concrete UI.
package present

import (
	"fmt"
	"sort"
	"strings"
)

// Control identifies a navigation control the user can press.
type Control string

const (
	ControlPrevious Control = "previous"
	ControlNext     Control = "next"
	ControlMenu     Control = "menu"
)

// Overlay identifies a panel that can be shown over the walkthrough.
type Overlay string

const (
	// OverlayMenu is the start popup (Start building PC / Identify PC parts).
	OverlayMenu Overlay = "menu"
	// OverlayParts is the part identification reference.
	OverlayParts Overlay = "parts"
)

// Controls returns every known control in display order.
func Controls() []Control {
	return []Control{ControlPrevious, ControlNext, ControlMenu}
}

// Overlays returns every known overlay.
func Overlays() []Overlay {
	return []Overlay{OverlayMenu, OverlayParts}
}

// ParseControl resolves a control name. Matching is case-insensitive.
func ParseControl(name string) (Control, error) {
	c := Control(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Controls() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown control %q (valid: %s)", name, joinNames(Controls()))
}

// ParseOverlay resolves an overlay name. Matching is case-insensitive.
func ParseOverlay(name string) (Overlay, error) {
	o := Overlay(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Overlays() {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown overlay %q (valid: %s)", name, joinNames(Overlays()))
}

func joinNames[T ~string](names []T) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// Milestone is the step panel: a short label ("Step 2"), the instruction and
// optional detail text, and the scene it refers to.
type Milestone struct {
	StepLabel   string
	Instruction string
	Detail      string
	Scene       string
}

// Presenter is the presentation collaborator invoked from step actions.
type Presenter interface {
	// ShowMessage replaces the status message. When autoHide is set the
	// host hides it again after its configured display duration.
	ShowMessage(text string, autoHide bool)
	SetControlEnabled(c Control, enabled bool)
	SetOverlayVisible(o Overlay, visible bool)
	ShowMilestone(m Milestone)
	HideMilestone()
}
