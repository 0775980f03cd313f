package queries

import (
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetBalanceQueryIsNotConstructed = errors.New(
	"GetBalanceQuery must be created via NewGetBalanceQuery constructor",
)

// GetBalanceQuery retrieves ledger rows by custody dimensions. Nil
// dimensions are wildcards; set dimensions must all match.
//
// Example:
//
//	query, err := NewGetBalanceQuery(&ownerID, nil, nil, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid balance request: %w", err)
//	}
//
//	rows, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get balance: %w", err)
//	}
type GetBalanceQuery struct {
	ownerID         *kernel.UUID
	facilityID      *kernel.UUID
	locationID      *kernel.UUID
	materialClassID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetBalanceQuery creates a balance query from optional custody
// dimensions. Every supplied dimension is validated.
func NewGetBalanceQuery(
	ownerID, facilityID, locationID, materialClassID *kernel.UUID,
) (GetBalanceQuery, error) {
	var err error
	for _, ref := range []*kernel.UUID{ownerID, facilityID, locationID, materialClassID} {
		if ref != nil {
			err = errors.Join(err, ref.Validate())
		}
	}
	if err != nil {
		return GetBalanceQuery{}, err
	}

	return GetBalanceQuery{
		ownerID:         ownerID,
		facilityID:      facilityID,
		locationID:      locationID,
		materialClassID: materialClassID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetBalanceQueryIsNotConstructed if validation fails.
func (q GetBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetBalanceQueryIsNotConstructed)
}

// OwnerID returns the owning party dimension, or nil.
func (q GetBalanceQuery) OwnerID() *kernel.UUID { return q.ownerID }

// FacilityID returns the facility dimension, or nil.
func (q GetBalanceQuery) FacilityID() *kernel.UUID { return q.facilityID }

// LocationID returns the location dimension, or nil.
func (q GetBalanceQuery) LocationID() *kernel.UUID { return q.locationID }

// MaterialClassID returns the material classification dimension, or nil.
func (q GetBalanceQuery) MaterialClassID() *kernel.UUID { return q.materialClassID }

// GetBalanceQueryResponse represents one ledger row.
type GetBalanceQueryResponse struct {
	OwnerID         kernel.UUID
	FacilityID      kernel.UUID
	LocationID      kernel.UUID
	MaterialClassID kernel.UUID
	Generated       decimal.Decimal
	InTransit       decimal.Decimal
	Stored          decimal.Decimal
	Disposed        decimal.Decimal
	Treated         decimal.Decimal
	LastUpdated     time.Time
}
