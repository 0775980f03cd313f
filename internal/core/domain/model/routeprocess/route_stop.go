package routeprocess

import (
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/pkg/errs"
)

// RouteStop is one visit on a route. Stops belong to exactly one route
// process and are completed strictly in sequence order.
type RouteStop struct {
	id                 kernel.UUID
	routeProcessID     kernel.UUID
	locationID         kernel.UUID
	sequenceOrder      int
	operationType      *operation.Type
	responsiblePartyID kernel.UUID
	isCompleted        bool
	completedAt        *time.Time
	notes              string
}

// NewRouteStop creates a pending stop. The operation type is optional: a stop
// without one is a pure visit and completing it touches no waste lot.
func NewRouteStop(
	id kernel.UUID,
	routeProcessID kernel.UUID,
	locationID kernel.UUID,
	sequenceOrder int,
	operationType *operation.Type,
	responsiblePartyID kernel.UUID,
	notes string,
) (*RouteStop, error) {
	if sequenceOrder <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("sequenceOrder", sequenceOrder, 1, "+inf")
	}

	err := errors.Join(
		id.Validate(),
		routeProcessID.Validate(),
		locationID.Validate(),
		responsiblePartyID.Validate(),
	)
	if operationType != nil {
		err = errors.Join(err, operationType.Validate())
	}
	if err != nil {
		return nil, err
	}

	return &RouteStop{
		id:                 id,
		routeProcessID:     routeProcessID,
		locationID:         locationID,
		sequenceOrder:      sequenceOrder,
		operationType:      operationType,
		responsiblePartyID: responsiblePartyID,
		notes:              notes,
	}, nil
}

// RestoreRouteStop reconstructs a stop from persistent storage.
func RestoreRouteStop(
	id kernel.UUID,
	routeProcessID kernel.UUID,
	locationID kernel.UUID,
	sequenceOrder int,
	operationType *operation.Type,
	responsiblePartyID kernel.UUID,
	isCompleted bool,
	completedAt *time.Time,
	notes string,
) (*RouteStop, error) {
	stop, err := NewRouteStop(
		id, routeProcessID, locationID, sequenceOrder, operationType, responsiblePartyID, notes,
	)
	if err != nil {
		return nil, err
	}

	stop.isCompleted = isCompleted
	stop.completedAt = completedAt
	return stop, nil
}

// complete marks the stop done. Completion is one-way.
func (s *RouteStop) complete(at time.Time) error {
	if s.isCompleted {
		return errs.NewInvalidTransitionError("complete", "Completed")
	}
	s.isCompleted = true
	s.completedAt = &at
	return nil
}

// ID returns the stop's unique identifier.
func (s *RouteStop) ID() kernel.UUID { return s.id }

// RouteProcessID returns the route this stop belongs to.
func (s *RouteStop) RouteProcessID() kernel.UUID { return s.routeProcessID }

// LocationID returns the place to visit.
func (s *RouteStop) LocationID() kernel.UUID { return s.locationID }

// SequenceOrder returns the stop's position on the route, starting at 1.
func (s *RouteStop) SequenceOrder() int { return s.sequenceOrder }

// OperationType returns the management operation tied to the stop, if any.
func (s *RouteStop) OperationType() *operation.Type { return s.operationType }

// ResponsiblePartyID returns the party accountable for the stop.
func (s *RouteStop) ResponsiblePartyID() kernel.UUID { return s.responsiblePartyID }

// IsCompleted reports whether the stop has been completed.
func (s *RouteStop) IsCompleted() bool { return s.isCompleted }

// CompletedAt returns when the stop was completed, or nil.
func (s *RouteStop) CompletedAt() *time.Time { return s.completedAt }

// Notes returns free-form remarks attached to the stop.
func (s *RouteStop) Notes() string { return s.notes }
