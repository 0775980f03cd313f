// Package queries contains read-only operations over the custody store.
// Implements the Query side of the CQRS architecture with direct SQL for
// optimal read performance; no domain aggregates are rehydrated.
package queries

import (
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetHistoryQueryIsNotConstructed = errors.New(
	"GetHistoryQuery must be created via NewGetHistoryQuery constructor",
)

// GetHistoryQuery retrieves the full operation history of one waste lot,
// ordered by execution time.
//
// Example:
//
//	query, err := NewGetHistoryQuery(wasteID)
//	if err != nil {
//	    return fmt.Errorf("invalid history request: %w", err)
//	}
//
//	history, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get history: %w", err)
//	}
type GetHistoryQuery struct {
	wasteID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetHistoryQuery creates a query for one lot's operation history.
func NewGetHistoryQuery(wasteID kernel.UUID) (GetHistoryQuery, error) {
	if err := wasteID.Validate(); err != nil {
		return GetHistoryQuery{}, err
	}

	return GetHistoryQuery{wasteID: wasteID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetHistoryQueryIsNotConstructed if validation fails.
func (q GetHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetHistoryQueryIsNotConstructed)
}

// WasteID returns the lot whose history is requested.
func (q GetHistoryQuery) WasteID() kernel.UUID {
	return q.wasteID
}

// GetHistoryQueryResponse represents one recorded operation of the lot.
type GetHistoryQueryResponse struct {
	OperationID  kernel.UUID
	Code         string
	Type         operation.Type
	ExecutedAt   time.Time
	Quantity     decimal.Decimal
	Unit         waste.Unit
	ExecutedByID kernel.UUID
	Notes        string
}
