package progress

import (
	"github.com/Iron-Ham/pcbuild/internal/event"
	"github.com/Iron-Ham/pcbuild/internal/logging"
)

// Tracker records navigation events for one session. Write failures are
// logged and never interrupt the walkthrough.
type Tracker struct {
	store     *Store
	bus       *event.Bus
	logger    *logging.Logger
	session   Session
	lastStep  int
	completed bool
	subs      []string
}

// NewTracker subscribes a tracker for session to bus. lastStep is the index
// of the guide's final step; entering it marks the session complete.
func NewTracker(store *Store, bus *event.Bus, session Session, lastStep int, logger *logging.Logger) *Tracker {
	if logger == nil {
		logger = logging.NopLogger()
	}
	t := &Tracker{
		store:     store,
		bus:       bus,
		logger:    logger.WithSession(session.ID),
		session:   session,
		lastStep:  lastStep,
		completed: session.Completed,
	}
	t.subs = bus.SubscribeMany(t.handle,
		event.TypeStepEntered,
		event.TypeGuideReset,
		event.TypeStepClamped,
		event.TypeStepFailed,
	)
	return t
}

// Session returns the tracked session.
func (t *Tracker) Session() Session { return t.session }

// SetLastStep updates the completion index after a guide reload.
func (t *Tracker) SetLastStep(i int) { t.lastStep = i }

// Close unsubscribes from the bus.
func (t *Tracker) Close() {
	for _, id := range t.subs {
		t.bus.Unsubscribe(id)
	}
	t.subs = nil
}

func (t *Tracker) handle(e event.Event) {
	var v Visit
	switch ev := e.(type) {
	case event.StepEnteredEvent:
		v = Visit{Op: ev.Op, StepIndex: ev.To, StepID: ev.StepID}
	case event.GuideResetEvent:
		v = Visit{Op: "reset", StepIndex: 0, StepID: ev.StepID}
	case event.StepClampedEvent:
		v = Visit{Op: ev.Op, StepIndex: ev.Cursor, StepID: ev.StepID, Clamped: true}
	case event.StepFailedEvent:
		v = Visit{Op: ev.Op, StepIndex: ev.Cursor, StepID: ev.StepID, Error: ev.Error}
	default:
		return
	}

	if _, err := t.store.RecordVisit(t.session.ID, v); err != nil {
		t.logger.Warn("failed to record visit", "step", v.StepIndex, "error", err.Error())
		return
	}
	t.session.Cursor = v.StepIndex
	t.session.Visits++

	if v.StepIndex == t.lastStep && v.Error == "" && !v.Clamped && !t.completed {
		if err := t.store.Complete(t.session.ID); err != nil {
			t.logger.Warn("failed to mark session complete", "error", err.Error())
			return
		}
		t.completed = true
		t.session.Completed = true
		t.logger.Info("session completed", "guide", t.session.Guide)
		t.bus.Publish(event.NewSessionCompletedEvent(t.session.ID, t.session.Guide))
	}
}
