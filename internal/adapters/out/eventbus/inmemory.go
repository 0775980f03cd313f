// Package eventbus provides the in-process delivery of route change events.
// Producers publish after their transaction commits; consumers receive over
// buffered channels scoped to one route.
package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/routeprocess"
)

// subscriberBuffer is the channel capacity given to each subscriber.
const subscriberBuffer = 16

// ErrBusIsClosed is returned when publishing to a closed bus.
var ErrBusIsClosed = errors.New("event bus is closed")

type subscription struct {
	routeID kernel.UUID
	events  chan routeprocess.ChangeEvent
}

// InMemoryRouteEventBus fans route change events out to per-route subscribers.
// Publish never blocks the producing request: a subscriber that has fallen
// behind its buffer loses the event, and the loss is logged. Route change
// events are notifications, not the system of record; the route aggregate
// itself always carries the current status.
type InMemoryRouteEventBus struct {
	mu            sync.RWMutex
	subscriptions map[int]*subscription
	nextID        int
	closed        bool
	logger        *slog.Logger
}

// NewInMemoryRouteEventBus creates an empty bus.
func NewInMemoryRouteEventBus(logger *slog.Logger) *InMemoryRouteEventBus {
	return &InMemoryRouteEventBus{
		subscriptions: make(map[int]*subscription),
		logger:        logger.With("component", "route_event_bus"),
	}
}

// Publish delivers the event to every subscriber of the event's route.
// Returns ErrBusIsClosed after Close.
func (b *InMemoryRouteEventBus) Publish(ctx context.Context, event routeprocess.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusIsClosed
	}

	for _, sub := range b.subscriptions {
		if !sub.routeID.IsEqual(event.RouteID) {
			continue
		}
		select {
		case sub.events <- event:
		default:
			b.logger.WarnContext(ctx, "Subscriber buffer full, route event dropped",
				"route_id", event.RouteID.String(),
				"new_status", event.NewStatus.String(),
			)
		}
	}

	return nil
}

// Subscribe registers a subscriber for one route's change events and returns
// its channel plus a cancel function. Cancelling closes the channel; on a
// closed bus the returned channel is already closed and cancel is a no-op.
func (b *InMemoryRouteEventBus) Subscribe(routeID kernel.UUID) (<-chan routeprocess.ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := make(chan routeprocess.ChangeEvent, subscriberBuffer)
	if b.closed {
		close(events)
		return events, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscriptions[id] = &subscription{routeID: routeID, events: events}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subscriptions[id]; ok {
			delete(b.subscriptions, id)
			close(sub.events)
		}
	}
	return events, cancel
}

// Close shuts the bus down and closes every subscriber channel.
// Subsequent publishes fail with ErrBusIsClosed.
func (b *InMemoryRouteEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for _, sub := range b.subscriptions {
		close(sub.events)
	}
	b.subscriptions = make(map[int]*subscription)
}
