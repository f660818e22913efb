package shared

import "context"

// EventHandler reacts to published events. An empty EventTypes result subscribes
// the handler to every event type.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the side of the bus the application services see.
// Publishing happens after the originating transaction commits; a handler
// failure never undoes a stock movement.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide bus wired in cmd/server
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
