package ports

import (
	"context"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"
)

// WasteRepository defines the persistence contract for waste record
// aggregates.
type WasteRepository interface {
	// Add persists a new waste record.
	Add(ctx context.Context, aggregate *waste.WasteRecord) error

	// Update persists changes to an existing waste record. The stored row's
	// version must match the aggregate's version; a mismatch yields a
	// concurrency conflict error.
	Update(ctx context.Context, aggregate *waste.WasteRecord) error

	// Get retrieves a waste record by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*waste.WasteRecord, error)

	// GetAllListedForSale retrieves every record currently listed for sale.
	GetAllListedForSale(ctx context.Context) ([]*waste.WasteRecord, error)

	// GetDescendants retrieves the records derived from the given record.
	GetDescendants(ctx context.Context, sourceID kernel.UUID) ([]*waste.WasteRecord, error)
}
