package event

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/pcbuild/internal/logging"
)

// Wildcard is the event type that matches every published event.
const Wildcard = "*"

// Handler is a function that handles an event.
type Handler func(Event)

// subscription represents a registered event handler.
type subscription struct {
	id        string
	eventType string
	handler   Handler
}

// Bus is a simple synchronous pub-sub event bus.
// Walkthrough hosts publish navigation and scene events on it; the progress
// tracker and the log subscriber consume them.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // eventType -> subscriptions
	nextID        atomic.Uint64
	logger        atomic.Pointer[logging.Logger]
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	b := &Bus{
		subscriptions: make(map[string][]subscription),
	}
	b.logger.Store(logging.NopLogger())
	return b
}

// SetLogger sets the logger that receives recovered handler panics.
func (b *Bus) SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.NopLogger()
	}
	b.logger.Store(l)
}

// Subscribe registers a handler for a specific event type.
// Returns a subscription ID that can be used to unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := fmt.Sprintf("sub-%d", b.nextID.Add(1))
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
	})
	return id
}

// SubscribeAll registers a handler for all event types.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.Subscribe(Wildcard, handler)
}

// SubscribeMany registers one handler for several event types and returns
// the subscription IDs in the same order.
func (b *Bus) SubscribeMany(handler Handler, eventTypes ...string) []string {
	ids := make([]string, len(eventTypes))
	for i, t := range eventTypes {
		ids[i] = b.Subscribe(t, handler)
	}
	return ids
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				b.subscriptions[eventType] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish dispatches an event to all registered handlers.
// Specific handlers run first, then wildcard handlers, each group in
// registration order. A panicking handler is logged and skipped.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	eventType := event.EventType()
	specific := append([]subscription(nil), b.subscriptions[eventType]...)
	wildcard := append([]subscription(nil), b.subscriptions[Wildcard]...)
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, event)
	}
	for _, sub := range wildcard {
		b.safeCall(sub.handler, event)
	}
}

func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Load().Error("event handler panicked",
				"event_type", event.EventType(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	handler(event)
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string][]subscription)
}

// SubscriptionCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}

// LogTo subscribes a handler that writes every event to logger at debug
// level. It returns the subscription ID.
func (b *Bus) LogTo(logger *logging.Logger) string {
	return b.SubscribeAll(func(e Event) {
		args := []any{"event_type", e.EventType()}
		if a, ok := e.(interface{ LogArgs() []any }); ok {
			args = append(args, a.LogArgs()...)
		}
		logger.Debug("event", args...)
	})
}
