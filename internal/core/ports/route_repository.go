package ports

import (
	"context"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/routeprocess"
)

// RouteRepository defines the persistence contract for route process
// aggregates and their stops.
type RouteRepository interface {
	// Add persists a new route process with its stops.
	Add(ctx context.Context, aggregate *routeprocess.RouteProcess) error

	// Update persists changes to an existing route process. The stored row's
	// version must match the aggregate's version; a mismatch yields a
	// concurrency conflict error.
	Update(ctx context.Context, aggregate *routeprocess.RouteProcess) error

	// Get retrieves a route process by its unique identifier, stops included.
	Get(ctx context.Context, id kernel.UUID) (*routeprocess.RouteProcess, error)

	// GetAllStartedBefore retrieves every in-progress route started before
	// the given time.
	GetAllStartedBefore(ctx context.Context, before time.Time) ([]*routeprocess.RouteProcess, error)
}
