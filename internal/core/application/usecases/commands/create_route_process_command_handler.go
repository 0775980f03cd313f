package commands

import (
	"context"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/routeprocess"
)

// CreateRouteProcessCommandHandler handles the business logic for route
// planning. Creates a route in Planned status with its ordered stops.
type CreateRouteProcessCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewCreateRouteProcessCommandHandler creates a handler for route planning.
// Requires a RouteUoWFactory for transactional persistence.
func NewCreateRouteProcessCommandHandler(uowFactory RouteUoWFactory) CreateRouteProcessCommandHandler {
	return CreateRouteProcessCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the route creation command.
func (h *CreateRouteProcessCommandHandler) Handle(ctx context.Context, cmd CreateRouteProcessCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	stops := make([]*routeprocess.RouteStop, 0, len(cmd.Stops()))
	for _, spec := range cmd.Stops() {
		stop, err := routeprocess.NewRouteStop(
			kernel.NewUUID(),
			cmd.RouteID(),
			spec.LocationID,
			spec.SequenceOrder,
			spec.OperationType,
			spec.ResponsiblePartyID,
			spec.Notes,
		)
		if err != nil {
			return err
		}
		stops = append(stops, stop)
	}

	route, err := routeprocess.NewRouteProcess(
		cmd.RouteID(),
		cmd.Code(),
		cmd.DriverID(),
		cmd.AssignedVehicleID(),
		stops,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RouteRepository().Add(ctx, route); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
