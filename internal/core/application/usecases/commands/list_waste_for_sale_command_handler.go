package commands

import (
	"context"
)

// ListWasteForSaleCommandHandler handles the business logic for sale
// listings. Only stored lots can be listed.
type ListWasteForSaleCommandHandler struct {
	uowFactory WasteUoWFactory
}

// NewListWasteForSaleCommandHandler creates a handler for sale listings.
// Requires a WasteUoWFactory for transactional persistence.
func NewListWasteForSaleCommandHandler(uowFactory WasteUoWFactory) ListWasteForSaleCommandHandler {
	return ListWasteForSaleCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the sale listing command.
func (h *ListWasteForSaleCommandHandler) Handle(ctx context.Context, cmd ListWasteForSaleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	wasteRepo := uow.WasteRepository()
	record, err := wasteRepo.Get(ctx, cmd.WasteID())
	if err != nil {
		return err
	}

	if err = record.ListForSale(cmd.Price()); err != nil {
		return err
	}

	if err = wasteRepo.Update(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
