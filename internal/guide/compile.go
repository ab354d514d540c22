package guide

import (
	"fmt"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/present"
	"github.com/Iron-Ham/pcbuild/internal/scene"
	"github.com/Iron-Ham/pcbuild/internal/sequencer"
)

// Env holds the collaborators compiled actions act on.
type Env struct {
	Presenter present.Presenter
	Library   *scene.Library
	Stage     *scene.Stage
	Logger    *logging.Logger
}

// runtime is the per-compilation state shared by a guide's actions.
type runtime struct {
	guide  *Guide
	env    Env
	logger *logging.Logger
	// current is the most recently loaded scene; notify resolves against it.
	current *scene.Handle
}

// Compile turns g into sequencer step definitions bound to env. Each step's
// actions run in order; the first failing action stops the step.
func Compile(g *Guide, env Env) ([]sequencer.StepDef, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if env.Presenter == nil {
		return nil, errors.NewGuideError("compiling guide: presenter is required", errors.ErrInvalidInput).WithGuide(g.Name)
	}
	if len(g.Scenes()) > 0 && (env.Library == nil || env.Stage == nil) {
		return nil, errors.NewGuideError("compiling guide: scene library and stage are required", errors.ErrInvalidInput).WithGuide(g.Name)
	}

	logger := env.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	rt := &runtime{guide: g, env: env, logger: logger.WithGuide(g.Name)}

	defs := make([]sequencer.StepDef, len(g.Steps))
	for i, step := range g.Steps {
		ops := make([]func(sequencer.Navigator) error, len(step.Actions))
		for j, a := range step.Actions {
			ops[j] = rt.bind(step.ID, a)
		}
		defs[i] = sequencer.StepDef{
			ID:    step.ID,
			Title: step.Title,
			Action: func(nav sequencer.Navigator) error {
				for _, op := range ops {
					if err := op(nav); err != nil {
						return err
					}
				}
				return nil
			},
		}
	}
	return defs, nil
}

func (rt *runtime) bind(stepID string, a Action) func(sequencer.Navigator) error {
	p := rt.env.Presenter
	switch {
	case a.Message != nil:
		m := *a.Message
		return func(sequencer.Navigator) error {
			p.ShowMessage(m.Text, m.AutoHide)
			return nil
		}

	case a.Scene != nil:
		s := *a.Scene
		return func(sequencer.Navigator) error {
			return rt.loadScene(s)
		}

	case a.Notify != nil:
		trigger := a.Notify.Trigger
		return func(sequencer.Navigator) error {
			return rt.notify(stepID, trigger)
		}

	case a.Milestone != nil:
		m := *a.Milestone
		return func(sequencer.Navigator) error {
			if m.Hide {
				p.HideMilestone()
				return nil
			}
			p.ShowMilestone(present.Milestone{
				StepLabel:   m.StepLabel,
				Instruction: m.Instruction,
				Detail:      m.Detail,
				Scene:       m.Scene,
			})
			return nil
		}

	case a.Controls != nil:
		enable := mustControls(a.Controls.Enable)
		disable := mustControls(a.Controls.Disable)
		return func(sequencer.Navigator) error {
			for _, c := range enable {
				p.SetControlEnabled(c, true)
			}
			for _, c := range disable {
				p.SetControlEnabled(c, false)
			}
			return nil
		}

	case a.Overlay != nil:
		o, _ := present.ParseOverlay(a.Overlay.Name)
		visible := a.Overlay.Visible
		return func(sequencer.Navigator) error {
			p.SetOverlayVisible(o, visible)
			return nil
		}

	case a.Reset != nil:
		return func(nav sequencer.Navigator) error {
			_, err := nav.Reset()
			return err
		}
	}

	// Validate rejects actions without a kind.
	return func(sequencer.Navigator) error {
		return errors.NewGuideError("action has no kind", errors.ErrGuideInvalid).WithGuide(rt.guide.Name).WithStep(stepID)
	}
}

func (rt *runtime) loadScene(s SceneAction) error {
	h, err := rt.env.Library.LoadScene(s.Name)
	if err != nil {
		return err
	}
	if !s.KeepExisting {
		rt.env.Stage.RemoveAll()
	}

	var shapes int
	switch s.Collisions {
	case CollisionsTop:
		shapes = h.GenerateCollisionShapes(false)
	case CollisionsRecursive:
		shapes = h.GenerateCollisionShapes(true)
	}
	rt.env.Stage.Append(h)
	rt.current = h
	rt.logger.Debug("scene anchored", "scene", s.Name, "collision_shapes", shapes)
	return nil
}

func (rt *runtime) notify(stepID, trigger string) error {
	if rt.current == nil {
		return errors.NewGuideError(fmt.Sprintf("notify %s: no scene loaded", trigger), errors.ErrTriggerNotFound).
			WithGuide(rt.guide.Name).
			WithStep(stepID)
	}
	t, err := rt.current.Notification(trigger)
	if err != nil {
		return err
	}
	t.Post()
	return nil
}

// mustControls converts names already checked by Validate.
func mustControls(names []string) []present.Control {
	out := make([]present.Control, 0, len(names))
	for _, n := range names {
		if c, err := present.ParseControl(n); err == nil {
			out = append(out, c)
		}
	}
	return out
}
