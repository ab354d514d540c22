// Package event provides the pub-sub bus that decouples the walkthrough host
// from the components that observe it.
//
// The host turns every sequencer transition into an event with
// [FromTransition] and publishes scene activity from the stage hooks. The
// progress tracker and the debug log subscriber listen without the host
// knowing about either.
//
// # Main Types
//
//   - [Event]: EventType() and Timestamp()
//   - [Bus]: synchronous dispatcher, safe for concurrent use
//   - [Handler]: func(Event)
//
// # Event Types
//
// Navigation:
//   - step.entered ([StepEnteredEvent])
//   - step.clamped ([StepClampedEvent])
//   - step.failed ([StepFailedEvent])
//   - guide.reset ([GuideResetEvent])
//
// Scenes:
//   - scene.loaded ([SceneLoadedEvent])
//   - scene.notification ([SceneNotificationEvent])
//
// Guide and session:
//   - guide.reloaded ([GuideReloadedEvent])
//   - session.started ([SessionStartedEvent])
//   - session.completed ([SessionCompletedEvent])
//
// Handlers run synchronously on the publishing goroutine. A panicking handler
// is recovered and logged; the remaining handlers still run.
//
// # Basic Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeStepEntered, func(e event.Event) {
//	    entered := e.(event.StepEnteredEvent)
//	    fmt.Println("now on", entered.StepID)
//	})
//
//	seq, _ := sequencer.New(defs, sequencer.WithObserver(func(t sequencer.Transition) {
//	    bus.Publish(event.FromTransition(t))
//	}))
package event
