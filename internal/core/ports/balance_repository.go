package ports

import (
	"context"

	"wastetrack/internal/core/domain/model/balance"
)

// BalanceRepository defines the persistence contract for ledger rows.
type BalanceRepository interface {
	// GetOrCreate retrieves the ledger row for an exact custody scope,
	// creating an empty row when none exists yet.
	GetOrCreate(ctx context.Context, key balance.Key) (*balance.Balance, error)

	// Update persists changes to a ledger row. The stored row's version must
	// match the aggregate's version; a mismatch yields a concurrency
	// conflict error.
	Update(ctx context.Context, aggregate *balance.Balance) error

	// Query retrieves every ledger row matching the filter. Nil filter
	// dimensions are wildcards.
	Query(ctx context.Context, filter balance.Filter) ([]*balance.Balance, error)
}
