package commands

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/guard"
)

var ErrStartRouteCommandIsNotConstructed = errors.New(
	"StartRouteCommand must be created via NewStartRouteCommand constructor",
)

// StartRouteCommand represents a request to move a planned route into
// progress.
type StartRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartRouteCommand creates a command to start a planned route.
func NewStartRouteCommand(routeID kernel.UUID) (StartRouteCommand, error) {
	routeCommand := StartRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := routeCommand.setRouteID(routeID); err != nil {
		return StartRouteCommand{}, err
	}

	return routeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartRouteCommandIsNotConstructed if validation fails.
func (c StartRouteCommand) Validate() error {
	return c.guard.Validate(ErrStartRouteCommandIsNotConstructed)
}

// RouteID returns the route to start.
func (c StartRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c *StartRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}
