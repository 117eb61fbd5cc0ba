// Package ports defines the interfaces between the library core and its
// collaborators: event delivery, durable storage, capability hosts, metadata
// extraction and search indexing. Adapters implement these interfaces.
package ports

import (
	"github.com/cadenzaapp/cadenza/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// It decouples event producers (services, the store) from consumers
// (UI layers, logging, the CLI).
//
// Thread-safety: Implementations must be thread-safe as events may be
// published and subscribed from multiple goroutines simultaneously.
type EventBus interface {
	// Publish delivers an event to all subscribers of that event type.
	// Handlers should process events quickly or dispatch to a background
	// goroutine if long processing is needed.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// The same handler can be registered multiple times, each getting a
	// distinct SubscriptionID.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// SubscribeAll registers a handler that receives every event regardless
	// of type. Useful for logging and diagnostics.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered handler.
	// Unknown or already-removed ids are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// Close shuts down the event bus and drops all subscriptions.
	Close() error
}
