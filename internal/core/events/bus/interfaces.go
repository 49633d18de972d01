package bus

import "time"

// EventBus is an in-process pub/sub bus for tick-synchronous notifications.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type() string.
// - Synchronous, ordered delivery: Publish calls handlers in the caller goroutine
//   in subscription order, so a simulation tick observes its own events.
// - Error aggregation: handler errors are joined and returned from Publish.
// - Metrics: every delivery is counted; observers additionally see per-event timings.
//
// Subscribing and unsubscribing are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event synchronously to all active subscribers of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events sequentially and aggregates errors across them.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns a snapshot of accumulated metrics.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked per delivered event.
	EventHandler func(event Event) error
)

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return quickly.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, duration time.Duration)
}

// EventBusMetrics accumulates over every Publish.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
