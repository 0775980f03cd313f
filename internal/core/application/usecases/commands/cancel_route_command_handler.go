package commands

import (
	"context"
	"log/slog"
	"time"

	"wastetrack/internal/core/ports"
)

// CancelRouteCommandHandler handles the business logic for route
// cancellation. Cancellation is immediate and non-retroactive: completed
// stops keep their effects. Event publishing is best-effort after commit.
type CancelRouteCommandHandler struct {
	uowFactory RouteUoWFactory
	publisher  ports.RouteEventPublisher
	logger     *slog.Logger
}

// NewCancelRouteCommandHandler creates a handler for route cancellation.
// Requires a RouteUoWFactory and a RouteEventPublisher.
func NewCancelRouteCommandHandler(
	uowFactory RouteUoWFactory, publisher ports.RouteEventPublisher, logger *slog.Logger,
) CancelRouteCommandHandler {
	return CancelRouteCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "cancel_route_handler"),
	}
}

// Handle processes the route cancellation command.
func (h *CancelRouteCommandHandler) Handle(ctx context.Context, cmd CancelRouteCommand) error {
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

	routeRepo := uow.RouteRepository()
	route, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}

	event, err := route.Cancel(cmd.Reason(), time.Now().UTC())
	if err != nil {
		return err
	}

	if err = routeRepo.Update(ctx, route); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.publisher.Publish(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "route change event not published",
			"route_id", cmd.RouteID().String(), "error", err)
	}

	return nil
}
