package ports

import (
	"context"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/routeprocess"
)

// RouteEventPublisher delivers route status change events to subscribers.
// Events are published only after the producing transaction has committed.
type RouteEventPublisher interface {
	Publish(ctx context.Context, event routeprocess.ChangeEvent) error
}

// RouteEventStream exposes the consumer side of route change events.
// Subscribe returns a channel carrying the change events of one route and a
// cancel function releasing the subscription. The channel is closed on cancel
// or when the stream shuts down.
type RouteEventStream interface {
	Subscribe(routeID kernel.UUID) (<-chan routeprocess.ChangeEvent, func())
}
