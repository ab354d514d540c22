// Package guide turns walkthrough definitions into sequencer steps.
//
// A guide is a YAML document listing steps, each with an ordered list of
// actions (show a message, load a scene, post a scene notification, show the
// milestone panel, toggle controls or overlays, reset to the start). Guides
// are data: adding or reordering a step never touches Go code.
package guide

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/present"
)

// Guide is a parsed walkthrough definition.
type Guide struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Floor is the lowest step Retreat can reach. Guides whose step 0 is a
	// menu set it to 1 so "previous" never lands back on the menu.
	Floor int    `yaml:"floor" json:"floor"`
	Parts []Part `yaml:"parts,omitempty" json:"parts,omitempty"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Part is an entry of the part identification reference.
type Part struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Step is one walkthrough step.
type Step struct {
	ID      string   `yaml:"id" json:"id"`
	Title   string   `yaml:"title,omitempty" json:"title,omitempty"`
	Actions []Action `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// Action is a tagged union: exactly one field is set.
type Action struct {
	Message   *MessageAction   `yaml:"message,omitempty" json:"message,omitempty"`
	Scene     *SceneAction     `yaml:"scene,omitempty" json:"scene,omitempty"`
	Notify    *NotifyAction    `yaml:"notify,omitempty" json:"notify,omitempty"`
	Milestone *MilestoneAction `yaml:"milestone,omitempty" json:"milestone,omitempty"`
	Controls  *ControlsAction  `yaml:"controls,omitempty" json:"controls,omitempty"`
	Overlay   *OverlayAction   `yaml:"overlay,omitempty" json:"overlay,omitempty"`
	Reset     *ResetAction     `yaml:"reset,omitempty" json:"reset,omitempty"`
}

// MessageAction shows a status message.
type MessageAction struct {
	Text     string `yaml:"text" json:"text"`
	AutoHide bool   `yaml:"auto_hide,omitempty" json:"auto_hide,omitempty"`
}

// Collision modes for SceneAction.
const (
	CollisionsNone      = "none"
	CollisionsTop       = "top"
	CollisionsRecursive = "recursive"
)

// SceneAction replaces (or adds to) the anchored scenes.
type SceneAction struct {
	Name string `yaml:"name" json:"name"`
	// Collisions is one of none, top or recursive. Empty means none.
	Collisions   string `yaml:"collisions,omitempty" json:"collisions,omitempty"`
	KeepExisting bool   `yaml:"keep_existing,omitempty" json:"keep_existing,omitempty"`
}

// NotifyAction posts a trigger on the most recently loaded scene.
type NotifyAction struct {
	Trigger string `yaml:"trigger" json:"trigger"`
}

// MilestoneAction shows or hides the milestone panel.
type MilestoneAction struct {
	Hide        bool   `yaml:"hide,omitempty" json:"hide,omitempty"`
	StepLabel   string `yaml:"step_label,omitempty" json:"step_label,omitempty"`
	Instruction string `yaml:"instruction,omitempty" json:"instruction,omitempty"`
	Detail      string `yaml:"detail,omitempty" json:"detail,omitempty"`
	Scene       string `yaml:"scene,omitempty" json:"scene,omitempty"`
}

// ControlsAction enables and disables navigation controls.
type ControlsAction struct {
	Enable  []string `yaml:"enable,omitempty" json:"enable,omitempty"`
	Disable []string `yaml:"disable,omitempty" json:"disable,omitempty"`
}

// OverlayAction shows or hides an overlay.
type OverlayAction struct {
	Name    string `yaml:"name" json:"name"`
	Visible bool   `yaml:"visible" json:"visible"`
}

// ResetAction returns the walkthrough to step 0.
type ResetAction struct{}

// Kind names the set field, or "" when none or several are set.
func (a Action) Kind() string {
	kinds := a.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

func (a Action) kinds() []string {
	var k []string
	if a.Message != nil {
		k = append(k, "message")
	}
	if a.Scene != nil {
		k = append(k, "scene")
	}
	if a.Notify != nil {
		k = append(k, "notify")
	}
	if a.Milestone != nil {
		k = append(k, "milestone")
	}
	if a.Controls != nil {
		k = append(k, "controls")
	}
	if a.Overlay != nil {
		k = append(k, "overlay")
	}
	if a.Reset != nil {
		k = append(k, "reset")
	}
	return k
}

// Parse decodes and validates a guide.
func Parse(data []byte) (*Guide, error) {
	var g Guide
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.NewGuideError("parsing guide", errors.Join(errors.ErrGuideInvalid, err))
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Load reads and parses a guide file.
func Load(path string) (*Guide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("guide file", path).WithCause(errors.ErrGuideNotFound)
		}
		return nil, errors.NewGuideError("reading "+path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the structural rules of a guide.
func (g *Guide) Validate() error {
	invalid := func(stepID, format string, args ...any) error {
		return errors.NewGuideError(fmt.Sprintf(format, args...), errors.ErrGuideInvalid).
			WithGuide(g.Name).
			WithStep(stepID)
	}

	if strings.TrimSpace(g.Name) == "" {
		return invalid("", "name is required")
	}
	if len(g.Steps) == 0 {
		return invalid("", "at least one step is required")
	}
	if g.Floor < 0 || g.Floor >= len(g.Steps) {
		return invalid("", "floor %d outside [0, %d)", g.Floor, len(g.Steps))
	}

	ids := make(map[string]int, len(g.Steps))
	sceneSeen := false
	for i, step := range g.Steps {
		if strings.TrimSpace(step.ID) == "" {
			return invalid("", "steps[%d]: id is required", i)
		}
		if prev, dup := ids[step.ID]; dup {
			return invalid(step.ID, "duplicate step id (also steps[%d])", prev)
		}
		ids[step.ID] = i

		for j, a := range step.Actions {
			where := fmt.Sprintf("actions[%d]", j)
			kinds := a.kinds()
			switch len(kinds) {
			case 0:
				return invalid(step.ID, "%s: no action kind set", where)
			case 1:
			default:
				return invalid(step.ID, "%s: several kinds set (%s)", where, strings.Join(kinds, ", "))
			}

			switch {
			case a.Message != nil:
				if strings.TrimSpace(a.Message.Text) == "" {
					return invalid(step.ID, "%s: message text is required", where)
				}
			case a.Scene != nil:
				if strings.TrimSpace(a.Scene.Name) == "" {
					return invalid(step.ID, "%s: scene name is required", where)
				}
				switch a.Scene.Collisions {
				case "", CollisionsNone, CollisionsTop, CollisionsRecursive:
				default:
					return invalid(step.ID, "%s: collisions must be none, top or recursive, got %q", where, a.Scene.Collisions)
				}
				sceneSeen = true
			case a.Notify != nil:
				if strings.TrimSpace(a.Notify.Trigger) == "" {
					return invalid(step.ID, "%s: notify trigger is required", where)
				}
				if !sceneSeen {
					return invalid(step.ID, "%s: notify %q has no scene loaded before it", where, a.Notify.Trigger)
				}
			case a.Milestone != nil:
				if !a.Milestone.Hide && strings.TrimSpace(a.Milestone.Instruction) == "" {
					return invalid(step.ID, "%s: milestone instruction is required", where)
				}
			case a.Controls != nil:
				for _, name := range append(append([]string{}, a.Controls.Enable...), a.Controls.Disable...) {
					if _, err := present.ParseControl(name); err != nil {
						return invalid(step.ID, "%s: %v", where, err)
					}
				}
			case a.Overlay != nil:
				if _, err := present.ParseOverlay(a.Overlay.Name); err != nil {
					return invalid(step.ID, "%s: %v", where, err)
				}
			}
		}
	}
	return nil
}

// Scenes lists the scene names the guide loads, in first-use order.
func (g *Guide) Scenes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range g.Steps {
		for _, a := range s.Actions {
			if a.Scene != nil && !seen[a.Scene.Name] {
				seen[a.Scene.Name] = true
				out = append(out, a.Scene.Name)
			}
		}
	}
	return out
}

// StepIndex returns the position of the step with id, or -1.
func (g *Guide) StepIndex(id string) int {
	for i, s := range g.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
