package queries

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetListedWasteQueryIsNotConstructed = errors.New(
	"GetListedWasteQuery must be created via NewGetListedWasteQuery constructor",
)

// GetListedWasteQuery retrieves every stored lot currently offered for sale.
// This is a parameterless query backing the marketplace listing.
type GetListedWasteQuery struct {
	guard guard.ConstructorGuard
}

// NewGetListedWasteQuery creates a query for the current sale listings.
func NewGetListedWasteQuery() GetListedWasteQuery {
	return GetListedWasteQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetListedWasteQueryIsNotConstructed if validation fails.
func (q GetListedWasteQuery) Validate() error {
	return q.guard.Validate(ErrGetListedWasteQueryIsNotConstructed)
}

// GetListedWasteQueryResponse represents one lot offered for sale.
type GetListedWasteQueryResponse struct {
	WasteID         kernel.UUID
	Code            string
	MaterialClassID kernel.UUID
	Quantity        decimal.Decimal
	Unit            waste.Unit
	ListPrice       decimal.Decimal
	OwnerID         kernel.UUID
	FacilityID      kernel.UUID
}
