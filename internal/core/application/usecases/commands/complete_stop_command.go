package commands

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/guard"
)

var ErrCompleteStopCommandIsNotConstructed = errors.New(
	"CompleteStopCommand must be created via NewCompleteStopCommand constructor",
)

// CompleteStopCommand represents a request to complete one stop of an
// in-progress route. Stops tied to a management operation carry the full
// operation command to execute before the stop is marked done.
type CompleteStopCommand struct { //nolint:recvcheck //using for validation
	routeID          kernel.UUID
	stopID           kernel.UUID
	operationCommand *ExecuteOperationCommand

	guard guard.ConstructorGuard
}

// NewCompleteStopCommand creates a command to complete a route stop.
// The operation command is required only for stops that carry an operation
// type; the handler rejects mismatches.
func NewCompleteStopCommand(
	routeID kernel.UUID,
	stopID kernel.UUID,
	operationCommand *ExecuteOperationCommand,
) (CompleteStopCommand, error) {
	stopCommand := CompleteStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stopCommand.setRouteID(routeID),
		stopCommand.setStopID(stopID),
		stopCommand.setOperationCommand(operationCommand),
	); err != nil {
		return CompleteStopCommand{}, err
	}

	return stopCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCompleteStopCommandIsNotConstructed if validation fails.
func (c CompleteStopCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStopCommandIsNotConstructed)
}

// RouteID returns the route the stop belongs to.
func (c CompleteStopCommand) RouteID() kernel.UUID {
	return c.routeID
}

// StopID returns the stop to complete.
func (c CompleteStopCommand) StopID() kernel.UUID {
	return c.stopID
}

// OperationCommand returns the operation to execute with the stop, if any.
func (c CompleteStopCommand) OperationCommand() *ExecuteOperationCommand {
	return c.operationCommand
}

func (c *CompleteStopCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *CompleteStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}

func (c *CompleteStopCommand) setOperationCommand(operationCommand *ExecuteOperationCommand) error {
	if operationCommand != nil {
		if err := operationCommand.Validate(); err != nil {
			return err
		}
	}

	c.operationCommand = operationCommand
	return nil
}
