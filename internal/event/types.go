package event

import (
	"time"

	"github.com/Iron-Ham/pcbuild/internal/sequencer"
)

// Event types.
const (
	TypeStepEntered       = "step.entered"
	TypeStepClamped       = "step.clamped"
	TypeStepFailed        = "step.failed"
	TypeGuideReset        = "guide.reset"
	TypeSceneLoaded       = "scene.loaded"
	TypeSceneNotification = "scene.notification"
	TypeGuideReloaded     = "guide.reloaded"
	TypeSessionStarted    = "session.started"
	TypeSessionCompleted  = "session.completed"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns "category.action", e.g. "step.entered".
	EventType() string
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Navigation Events
// -----------------------------------------------------------------------------

// StepEnteredEvent is emitted when a step becomes current and its action is
// about to run.
type StepEnteredEvent struct {
	baseEvent
	Op     string // enter, advance, retreat, jump
	From   int
	To     int
	StepID string
	Depth  int // > 0 when entered from inside another step's action
}

// NewStepEnteredEvent creates a StepEnteredEvent.
func NewStepEnteredEvent(op string, from, to int, stepID string, depth int) StepEnteredEvent {
	return StepEnteredEvent{
		baseEvent: newBaseEvent(TypeStepEntered),
		Op:        op,
		From:      from,
		To:        to,
		StepID:    stepID,
		Depth:     depth,
	}
}

// LogArgs returns structured logging attributes.
func (e StepEnteredEvent) LogArgs() []any {
	return []any{"op", e.Op, "from", e.From, "to", e.To, "step_id", e.StepID, "depth", e.Depth}
}

// GuideResetEvent is emitted when the walkthrough returns to step 0 through
// Reset, typically from the completion step.
type GuideResetEvent struct {
	baseEvent
	From   int
	StepID string
	Depth  int
}

// NewGuideResetEvent creates a GuideResetEvent.
func NewGuideResetEvent(from int, stepID string, depth int) GuideResetEvent {
	return GuideResetEvent{
		baseEvent: newBaseEvent(TypeGuideReset),
		From:      from,
		StepID:    stepID,
		Depth:     depth,
	}
}

// LogArgs returns structured logging attributes.
func (e GuideResetEvent) LogArgs() []any {
	return []any{"from", e.From, "step_id", e.StepID, "depth", e.Depth}
}

// StepClampedEvent is emitted when Advance or Retreat hits a boundary.
type StepClampedEvent struct {
	baseEvent
	Op     string
	Cursor int
	StepID string
}

// NewStepClampedEvent creates a StepClampedEvent.
func NewStepClampedEvent(op string, cursor int, stepID string) StepClampedEvent {
	return StepClampedEvent{
		baseEvent: newBaseEvent(TypeStepClamped),
		Op:        op,
		Cursor:    cursor,
		StepID:    stepID,
	}
}

// LogArgs returns structured logging attributes.
func (e StepClampedEvent) LogArgs() []any {
	return []any{"op", e.Op, "cursor", e.Cursor, "step_id", e.StepID}
}

// StepFailedEvent is emitted when a step action fails or navigation is
// refused (out-of-range jump, navigation loop).
type StepFailedEvent struct {
	baseEvent
	Op       string
	Cursor   int
	StepID   string
	Error    string
	Rejected bool // navigation refused; no action ran
}

// NewStepFailedEvent creates a StepFailedEvent.
func NewStepFailedEvent(op string, cursor int, stepID, errMsg string, rejected bool) StepFailedEvent {
	return StepFailedEvent{
		baseEvent: newBaseEvent(TypeStepFailed),
		Op:        op,
		Cursor:    cursor,
		StepID:    stepID,
		Error:     errMsg,
		Rejected:  rejected,
	}
}

// LogArgs returns structured logging attributes.
func (e StepFailedEvent) LogArgs() []any {
	return []any{"op", e.Op, "cursor", e.Cursor, "step_id", e.StepID, "error", e.Error, "rejected", e.Rejected}
}

// FromTransition maps a sequencer transition to the event it publishes.
func FromTransition(t sequencer.Transition) Event {
	switch {
	case t.Err != nil:
		return NewStepFailedEvent(t.Op.String(), t.To, t.StepID, t.Err.Error(), t.Rejected())
	case t.Clamped:
		return NewStepClampedEvent(t.Op.String(), t.To, t.StepID)
	case t.Op == sequencer.OpReset:
		return NewGuideResetEvent(t.From, t.StepID, t.Depth)
	default:
		return NewStepEnteredEvent(t.Op.String(), t.From, t.To, t.StepID, t.Depth)
	}
}

// -----------------------------------------------------------------------------
// Scene Events
// -----------------------------------------------------------------------------

// SceneLoadedEvent is emitted when a scene is anchored on the stage.
type SceneLoadedEvent struct {
	baseEvent
	Scene           string
	CollisionShapes int
}

// NewSceneLoadedEvent creates a SceneLoadedEvent.
func NewSceneLoadedEvent(scene string, collisionShapes int) SceneLoadedEvent {
	return SceneLoadedEvent{
		baseEvent:       newBaseEvent(TypeSceneLoaded),
		Scene:           scene,
		CollisionShapes: collisionShapes,
	}
}

// LogArgs returns structured logging attributes.
func (e SceneLoadedEvent) LogArgs() []any {
	return []any{"scene", e.Scene, "collision_shapes", e.CollisionShapes}
}

// SceneNotificationEvent is emitted when a scene trigger is posted.
type SceneNotificationEvent struct {
	baseEvent
	Scene   string
	Trigger string
	Message string
	Count   int
}

// NewSceneNotificationEvent creates a SceneNotificationEvent.
func NewSceneNotificationEvent(scene, trigger, message string, count int) SceneNotificationEvent {
	return SceneNotificationEvent{
		baseEvent: newBaseEvent(TypeSceneNotification),
		Scene:     scene,
		Trigger:   trigger,
		Message:   message,
		Count:     count,
	}
}

// LogArgs returns structured logging attributes.
func (e SceneNotificationEvent) LogArgs() []any {
	return []any{"scene", e.Scene, "trigger", e.Trigger, "count", e.Count}
}

// -----------------------------------------------------------------------------
// Guide and Session Events
// -----------------------------------------------------------------------------

// GuideReloadedEvent is emitted after a watched guide file changes.
type GuideReloadedEvent struct {
	baseEvent
	Guide       string
	Fingerprint string
	Steps       int
	Error       string // set when the new file was rejected
}

// NewGuideReloadedEvent creates a GuideReloadedEvent.
func NewGuideReloadedEvent(guide, fingerprint string, steps int, errMsg string) GuideReloadedEvent {
	return GuideReloadedEvent{
		baseEvent:   newBaseEvent(TypeGuideReloaded),
		Guide:       guide,
		Fingerprint: fingerprint,
		Steps:       steps,
		Error:       errMsg,
	}
}

// LogArgs returns structured logging attributes.
func (e GuideReloadedEvent) LogArgs() []any {
	return []any{"guide", e.Guide, "steps", e.Steps, "error", e.Error}
}

// SessionStartedEvent is emitted when a walkthrough session begins or resumes.
type SessionStartedEvent struct {
	baseEvent
	SessionID string
	Guide     string
	Resumed   bool
	Cursor    int
}

// NewSessionStartedEvent creates a SessionStartedEvent.
func NewSessionStartedEvent(sessionID, guide string, resumed bool, cursor int) SessionStartedEvent {
	return SessionStartedEvent{
		baseEvent: newBaseEvent(TypeSessionStarted),
		SessionID: sessionID,
		Guide:     guide,
		Resumed:   resumed,
		Cursor:    cursor,
	}
}

// LogArgs returns structured logging attributes.
func (e SessionStartedEvent) LogArgs() []any {
	return []any{"session_id", e.SessionID, "guide", e.Guide, "resumed", e.Resumed, "cursor", e.Cursor}
}

// SessionCompletedEvent is emitted when the final step of a guide is reached.
type SessionCompletedEvent struct {
	baseEvent
	SessionID string
	Guide     string
}

// NewSessionCompletedEvent creates a SessionCompletedEvent.
func NewSessionCompletedEvent(sessionID, guide string) SessionCompletedEvent {
	return SessionCompletedEvent{
		baseEvent: newBaseEvent(TypeSessionCompleted),
		SessionID: sessionID,
		Guide:     guide,
	}
}

// LogArgs returns structured logging attributes.
func (e SessionCompletedEvent) LogArgs() []any {
	return []any{"session_id", e.SessionID, "guide", e.Guide}
}
