package commands

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrListWasteForSaleCommandIsNotConstructed = errors.New(
		"ListWasteForSaleCommand must be created via NewListWasteForSaleCommand constructor",
	)
	ErrListPriceIsInvalid = errors.New("list price must be greater than 0")
)

// ListWasteForSaleCommand represents a request to offer a stored lot for
// sale at a price. Listing is a metadata update, not a custody operation:
// it is a precondition of Sell, not an audit fact of its own.
type ListWasteForSaleCommand struct { //nolint:recvcheck //using for validation
	wasteID kernel.UUID
	price   decimal.Decimal

	guard guard.ConstructorGuard
}

// NewListWasteForSaleCommand creates a command to list a lot for sale.
func NewListWasteForSaleCommand(wasteID kernel.UUID, price decimal.Decimal) (ListWasteForSaleCommand, error) {
	listCommand := ListWasteForSaleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		listCommand.setWasteID(wasteID),
		listCommand.setPrice(price),
	); err != nil {
		return ListWasteForSaleCommand{}, err
	}

	return listCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrListWasteForSaleCommandIsNotConstructed if validation fails.
func (c ListWasteForSaleCommand) Validate() error {
	return c.guard.Validate(ErrListWasteForSaleCommandIsNotConstructed)
}

// WasteID returns the lot to list.
func (c ListWasteForSaleCommand) WasteID() kernel.UUID {
	return c.wasteID
}

// Price returns the asking price.
func (c ListWasteForSaleCommand) Price() decimal.Decimal {
	return c.price
}

func (c *ListWasteForSaleCommand) setWasteID(wasteID kernel.UUID) error {
	if err := wasteID.Validate(); err != nil {
		return err
	}

	c.wasteID = wasteID
	return nil
}

func (c *ListWasteForSaleCommand) setPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrListPriceIsInvalid
	}

	c.price = price
	return nil
}
