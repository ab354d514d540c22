package progress

import (
	"testing"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/event"
	"github.com/Iron-Ham/pcbuild/internal/sequencer"
)

func trackedSequencer(t *testing.T, store *Store, defs []sequencer.StepDef) (*sequencer.Sequencer, *Tracker, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	sess, err := store.Start("test-guide", "f")
	if err != nil {
		t.Fatal(err)
	}
	tracker := NewTracker(store, bus, sess, len(defs)-1, nil)
	t.Cleanup(tracker.Close)

	seq, err := sequencer.New(defs,
		sequencer.WithFloor(1),
		sequencer.WithObserver(func(tr sequencer.Transition) { bus.Publish(event.FromTransition(tr)) }))
	if err != nil {
		t.Fatal(err)
	}
	return seq, tracker, bus
}

func TestTrackerRecordsWalkthrough(t *testing.T) {
	store := openTestStore(t)
	defs := []sequencer.StepDef{
		{ID: "menu"},
		{ID: "ram"},
		{ID: "done", Action: func(nav sequencer.Navigator) error {
			_, err := nav.Reset()
			return err
		}},
	}
	seq, tracker, bus := trackedSequencer(t, store, defs)

	completed := 0
	bus.Subscribe(event.TypeSessionCompleted, func(event.Event) { completed++ })

	seq.Enter()
	seq.Advance()
	seq.Retreat() // clamped at floor 1
	seq.Advance() // done -> reset

	id := tracker.Session().ID
	history, err := store.Visits(id)
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		op      string
		index   int
		clamped bool
	}{
		{"enter", 0, false},
		{"advance", 1, false},
		{"retreat", 1, true},
		{"advance", 2, false},
		{"reset", 0, false},
	}
	if len(history) != len(want) {
		t.Fatalf("visits = %d, want %d: %+v", len(history), len(want), history)
	}
	for i, w := range want {
		v := history[i]
		if v.Op != w.op || v.StepIndex != w.index || v.Clamped != w.clamped {
			t.Errorf("visit %d = %+v, want %+v", i, v, w)
		}
	}

	sess, _ := store.Get(id)
	if !sess.Completed {
		t.Error("session should be completed after reaching the last step")
	}
	if sess.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after the completion reset", sess.Cursor)
	}
	if completed != 1 {
		t.Errorf("session.completed events = %d, want 1", completed)
	}
	if tracker.Session().Visits != 5 {
		t.Errorf("tracked visits = %d, want 5", tracker.Session().Visits)
	}

	// Completing again does not publish a second event.
	seq.JumpTo(2)
	if completed != 1 {
		t.Errorf("session.completed events = %d after revisit, want 1", completed)
	}
}

func TestTrackerRecordsFailures(t *testing.T) {
	store := openTestStore(t)
	defs := []sequencer.StepDef{
		{ID: "menu"},
		{ID: "broken", Action: func(sequencer.Navigator) error { return errors.New("scene missing") }},
		{ID: "done"},
	}
	seq, tracker, _ := trackedSequencer(t, store, defs)

	seq.Advance()
	seq.JumpTo(9)

	history, _ := store.Visits(tracker.Session().ID)
	if len(history) != 3 {
		t.Fatalf("visits = %d, want 3: %+v", len(history), history)
	}
	if history[1].Error == "" || history[1].StepIndex != 1 {
		t.Errorf("action failure not recorded: %+v", history[1])
	}
	if history[2].Op != "jump" || history[2].Error == "" || history[2].StepIndex != 1 {
		t.Errorf("rejected jump not recorded: %+v", history[2])
	}
}

func TestTrackerClose(t *testing.T) {
	store := openTestStore(t)
	bus := event.NewBus()
	sess, _ := store.Start("g", "f")
	tracker := NewTracker(store, bus, sess, 3, nil)

	if bus.SubscriptionCount() != 4 {
		t.Errorf("subscriptions = %d, want 4", bus.SubscriptionCount())
	}
	tracker.Close()
	if bus.SubscriptionCount() != 0 {
		t.Errorf("subscriptions after Close = %d, want 0", bus.SubscriptionCount())
	}

	bus.Publish(event.NewStepEnteredEvent("advance", 0, 1, "a", 0))
	history, _ := store.Visits(sess.ID)
	if len(history) != 0 {
		t.Errorf("closed tracker recorded %d visits", len(history))
	}
}
