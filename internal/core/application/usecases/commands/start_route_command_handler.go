package commands

import (
	"context"
	"log/slog"
	"time"

	"wastetrack/internal/core/ports"
)

// StartRouteCommandHandler handles the business logic for starting a planned
// route. The resulting status change event is published only after the
// transaction has committed; publishing is best-effort and never fails the
// committed operation.
type StartRouteCommandHandler struct {
	uowFactory RouteUoWFactory
	publisher  ports.RouteEventPublisher
	logger     *slog.Logger
}

// NewStartRouteCommandHandler creates a handler for route starts.
// Requires a RouteUoWFactory and a RouteEventPublisher.
func NewStartRouteCommandHandler(
	uowFactory RouteUoWFactory, publisher ports.RouteEventPublisher, logger *slog.Logger,
) StartRouteCommandHandler {
	return StartRouteCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "start_route_handler"),
	}
}

// Handle processes the route start command.
func (h *StartRouteCommandHandler) Handle(ctx context.Context, cmd StartRouteCommand) error {
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

	event, err := route.Start(time.Now().UTC())
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
