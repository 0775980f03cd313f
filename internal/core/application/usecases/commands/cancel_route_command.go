package commands

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/guard"
)

var (
	ErrCancelRouteCommandIsNotConstructed = errors.New(
		"CancelRouteCommand must be created via NewCancelRouteCommand constructor",
	)
	ErrCancelReasonIsRequired = errors.New("cancel reason is required")
)

// CancelRouteCommand represents a request to abandon a route that has not
// finished. Already completed stops keep their effects.
type CancelRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelRouteCommand creates a command to cancel a route with a reason.
func NewCancelRouteCommand(routeID kernel.UUID, reason string) (CancelRouteCommand, error) {
	routeCommand := CancelRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		routeCommand.setRouteID(routeID),
		routeCommand.setReason(reason),
	); err != nil {
		return CancelRouteCommand{}, err
	}

	return routeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelRouteCommandIsNotConstructed if validation fails.
func (c CancelRouteCommand) Validate() error {
	return c.guard.Validate(ErrCancelRouteCommandIsNotConstructed)
}

// RouteID returns the route to cancel.
func (c CancelRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// Reason returns why the route is being cancelled.
func (c CancelRouteCommand) Reason() string {
	return c.reason
}

func (c *CancelRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *CancelRouteCommand) setReason(reason string) error {
	if reason == "" {
		return ErrCancelReasonIsRequired
	}

	c.reason = reason
	return nil
}
