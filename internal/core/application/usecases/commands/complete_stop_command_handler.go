package commands

import (
	"context"
	"log/slog"
	"time"

	"wastetrack/internal/core/domain/model/routeprocess"
	"wastetrack/internal/core/ports"
	"wastetrack/internal/pkg/errs"
	"wastetrack/internal/pkg/keyedmutex"
)

// OperationDispatcher executes a management operation on behalf of a route
// stop. Satisfied by ExecuteOperationCommandHandler.
type OperationDispatcher interface {
	Handle(ctx context.Context, cmd ExecuteOperationCommand) (Result, error)
}

// CompleteStopCommandHandler handles the business logic for stop completion.
// Completions of the same route are serialized through a keyed mutex; stops
// tied to a management operation execute it first and abort on failure.
type CompleteStopCommandHandler struct {
	uowFactory RouteUoWFactory
	dispatcher OperationDispatcher
	publisher  ports.RouteEventPublisher
	logger     *slog.Logger
	locks      *keyedmutex.KeyedMutex
}

// NewCompleteStopCommandHandler creates a handler for stop completion.
// Requires a RouteUoWFactory, the operation dispatcher, and a
// RouteEventPublisher.
func NewCompleteStopCommandHandler(
	uowFactory RouteUoWFactory,
	dispatcher OperationDispatcher,
	publisher ports.RouteEventPublisher,
	logger *slog.Logger,
) CompleteStopCommandHandler {
	return CompleteStopCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger.With("component", "complete_stop_handler"),
		locks:      keyedmutex.NewKeyedMutex(),
	}
}

// Handle processes the stop completion command. Completing the final stop
// completes the route and publishes the change event after commit.
func (h *CompleteStopCommandHandler) Handle(ctx context.Context, cmd CompleteStopCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.locks.Lock(cmd.RouteID().String())
	defer h.locks.Unlock(cmd.RouteID().String())

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

	// The stop's operation runs in its own transaction, so its legality is
	// checked before anything is dispatched.
	if err = h.precheck(route, cmd); err != nil {
		return err
	}

	if cmd.OperationCommand() != nil {
		if _, err = h.dispatcher.Handle(ctx, *cmd.OperationCommand()); err != nil {
			return err
		}
	}

	event, err := route.CompleteStop(cmd.StopID(), time.Now().UTC())
	if err != nil {
		return err
	}

	if err = routeRepo.Update(ctx, route); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if event != nil {
		if err = h.publisher.Publish(ctx, *event); err != nil {
			h.logger.WarnContext(ctx, "route change event not published",
				"route_id", cmd.RouteID().String(), "error", err)
		}
	}
	return nil
}

func (h *CompleteStopCommandHandler) precheck(
	route *routeprocess.RouteProcess, cmd CompleteStopCommand,
) error {
	if route.Status() != routeprocess.StatusInProgress {
		return errs.NewInvalidTransitionError("completeStop", route.Status().String())
	}

	next := route.NextStop()
	if next == nil || !next.ID().IsEqual(cmd.StopID()) {
		return errs.NewValueIsInvalidError("stopID")
	}

	if next.OperationType() == nil {
		if cmd.OperationCommand() != nil {
			return errs.NewValueIsInvalidError("operationCommand")
		}
		return nil
	}

	if cmd.OperationCommand() == nil {
		return errs.NewValueIsRequiredError("operationCommand")
	}
	if cmd.OperationCommand().Params().Type() != *next.OperationType() {
		return errs.NewValueIsInvalidError("operationCommand")
	}
	return nil
}
