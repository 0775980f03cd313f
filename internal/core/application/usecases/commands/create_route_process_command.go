package commands

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/pkg/errs"
	"wastetrack/internal/pkg/guard"
)

var (
	ErrCreateRouteProcessCommandIsNotConstructed = errors.New(
		"CreateRouteProcessCommand must be created via NewCreateRouteProcessCommand constructor",
	)
	ErrRouteCodeIsRequired  = errors.New("route code is required")
	ErrRouteStopsAreMissing = errors.New("at least one stop is required")
)

// StopSpec describes one stop of a route to be created.
type StopSpec struct {
	LocationID         kernel.UUID
	SequenceOrder      int
	OperationType      *operation.Type
	ResponsiblePartyID kernel.UUID
	Notes              string
}

// Validate checks the spec's required fields.
func (s StopSpec) Validate() error {
	if s.SequenceOrder <= 0 {
		return errs.NewValueIsOutOfRangeError("sequenceOrder", s.SequenceOrder, 1, "+inf")
	}

	err := errors.Join(s.LocationID.Validate(), s.ResponsiblePartyID.Validate())
	if s.OperationType != nil {
		err = errors.Join(err, s.OperationType.Validate())
	}
	return err
}

// CreateRouteProcessCommand represents a request to plan a new collection
// route over an ordered set of stops.
type CreateRouteProcessCommand struct { //nolint:recvcheck //using for validation
	routeID           kernel.UUID
	code              string
	driverID          kernel.UUID
	assignedVehicleID *kernel.UUID
	stops             []StopSpec

	guard guard.ConstructorGuard
}

// NewCreateRouteProcessCommand creates a command to plan a route.
// Validates the route ID, the code, the driver, and every stop spec.
func NewCreateRouteProcessCommand(
	routeID kernel.UUID,
	code string,
	driverID kernel.UUID,
	assignedVehicleID *kernel.UUID,
	stops []StopSpec,
) (CreateRouteProcessCommand, error) {
	routeCommand := CreateRouteProcessCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		routeCommand.setRouteID(routeID),
		routeCommand.setCode(code),
		routeCommand.setDriverID(driverID),
		routeCommand.setAssignedVehicleID(assignedVehicleID),
		routeCommand.setStops(stops),
	); err != nil {
		return CreateRouteProcessCommand{}, err
	}

	return routeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateRouteProcessCommandIsNotConstructed if validation fails.
func (c CreateRouteProcessCommand) Validate() error {
	return c.guard.Validate(ErrCreateRouteProcessCommandIsNotConstructed)
}

// RouteID returns the unique identifier for the new route.
func (c CreateRouteProcessCommand) RouteID() kernel.UUID {
	return c.routeID
}

// Code returns the route's human-readable code.
func (c CreateRouteProcessCommand) Code() string {
	return c.code
}

// DriverID returns the driver responsible for the route.
func (c CreateRouteProcessCommand) DriverID() kernel.UUID {
	return c.driverID
}

// AssignedVehicleID returns the vehicle to assign, if any.
func (c CreateRouteProcessCommand) AssignedVehicleID() *kernel.UUID {
	return c.assignedVehicleID
}

// Stops returns the planned stop specs.
func (c CreateRouteProcessCommand) Stops() []StopSpec {
	return c.stops
}

func (c *CreateRouteProcessCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *CreateRouteProcessCommand) setCode(code string) error {
	if code == "" {
		return ErrRouteCodeIsRequired
	}

	c.code = code
	return nil
}

func (c *CreateRouteProcessCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *CreateRouteProcessCommand) setAssignedVehicleID(assignedVehicleID *kernel.UUID) error {
	if assignedVehicleID != nil {
		if err := assignedVehicleID.Validate(); err != nil {
			return err
		}
	}

	c.assignedVehicleID = assignedVehicleID
	return nil
}

func (c *CreateRouteProcessCommand) setStops(stops []StopSpec) error {
	if len(stops) == 0 {
		return ErrRouteStopsAreMissing
	}

	var err error
	for _, stop := range stops {
		err = errors.Join(err, stop.Validate())
	}
	if err != nil {
		return err
	}

	c.stops = stops
	return nil
}
