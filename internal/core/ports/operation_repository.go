package ports

import (
	"context"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
)

// OperationRepository defines the persistence contract for the append-only
// log of management operations.
type OperationRepository interface {
	// Add persists a new operation fact. Operations are immutable once added.
	Add(ctx context.Context, aggregate *operation.ManagementOperation) error

	// Get retrieves an operation by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*operation.ManagementOperation, error)

	// GetByIdempotencyKey retrieves the operation recorded for a retry key.
	// Returns an object-not-found error when the key was never used.
	GetByIdempotencyKey(ctx context.Context, key kernel.UUID) (*operation.ManagementOperation, error)

	// GetHistory retrieves every operation executed against a lot, ordered by
	// execution time.
	GetHistory(ctx context.Context, wasteID kernel.UUID) ([]*operation.ManagementOperation, error)
}
