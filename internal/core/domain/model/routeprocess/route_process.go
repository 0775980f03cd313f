package routeprocess

import (
	"errors"
	"sort"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/errs"
	"wastetrack/internal/pkg/guard"
)

// ErrRouteProcessIsNotConstructed is returned when using an improperly
// initialized RouteProcess.
var ErrRouteProcessIsNotConstructed = errors.New(
	"RouteProcess must be created via NewRouteProcess or RestoreRouteProcess",
)

// ErrStopsAreRequired is returned when creating a route without stops.
var ErrStopsAreRequired = errors.New("route process requires at least one stop")

// ChangeEvent records one status change of a route process. Events are
// published after the change is durably committed.
type ChangeEvent struct {
	RouteID    kernel.UUID
	OldStatus  Status
	NewStatus  Status
	Reason     string
	OccurredAt time.Time
}

// RouteProcess is the aggregate root of one planned route: its ordered stops
// and its lifecycle status. Stops complete strictly in sequence order, and
// completing the last stop completes the route.
type RouteProcess struct {
	id                kernel.UUID
	code              string
	driverID          kernel.UUID
	assignedVehicleID *kernel.UUID
	status            Status
	stops             []*RouteStop
	cancelReason      string
	createdAt         time.Time
	startedAt         *time.Time
	completedAt       *time.Time
	cancelledAt       *time.Time
	version           int
	guard             guard.ConstructorGuard
}

// NewRouteProcess creates a planned route over the given stops. Every stop
// must belong to the new route and carry a unique sequence order.
func NewRouteProcess(
	id kernel.UUID,
	code string,
	driverID kernel.UUID,
	assignedVehicleID *kernel.UUID,
	stops []*RouteStop,
	createdAt time.Time,
) (*RouteProcess, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if len(stops) == 0 {
		return nil, ErrStopsAreRequired
	}

	err := errors.Join(id.Validate(), driverID.Validate())
	if assignedVehicleID != nil {
		err = errors.Join(err, assignedVehicleID.Validate())
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(stops))
	for _, stop := range stops {
		if !stop.RouteProcessID().IsEqual(id) {
			return nil, errs.NewValueIsInvalidError("stops")
		}
		if seen[stop.SequenceOrder()] {
			return nil, errs.NewValueIsInvalidError("sequenceOrder")
		}
		seen[stop.SequenceOrder()] = true
	}

	ordered := make([]*RouteStop, len(stops))
	copy(ordered, stops)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SequenceOrder() < ordered[j].SequenceOrder()
	})

	return &RouteProcess{
		id:                id,
		code:              code,
		driverID:          driverID,
		assignedVehicleID: assignedVehicleID,
		status:            StatusPlanned,
		stops:             ordered,
		createdAt:         createdAt,
		version:           1,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// RestoreRouteProcess reconstructs a route process from persistent storage.
func RestoreRouteProcess(
	id kernel.UUID,
	code string,
	driverID kernel.UUID,
	assignedVehicleID *kernel.UUID,
	status Status,
	stops []*RouteStop,
	cancelReason string,
	createdAt time.Time,
	startedAt *time.Time,
	completedAt *time.Time,
	cancelledAt *time.Time,
	version int,
) (*RouteProcess, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, errs.NewVersionIsInvalidError("version")
	}

	route, err := NewRouteProcess(id, code, driverID, assignedVehicleID, stops, createdAt)
	if err != nil {
		return nil, err
	}

	route.status = status
	route.cancelReason = cancelReason
	route.startedAt = startedAt
	route.completedAt = completedAt
	route.cancelledAt = cancelledAt
	route.version = version
	return route, nil
}

// Start moves a planned route into progress.
func (r *RouteProcess) Start(at time.Time) (ChangeEvent, error) {
	if err := r.Validate(); err != nil {
		return ChangeEvent{}, err
	}

	next, err := r.status.Start()
	if err != nil {
		return ChangeEvent{}, err
	}

	old := r.status
	r.status = next
	r.startedAt = &at
	return r.changeEvent(old, "", at), nil
}

// CompleteStop completes one stop. Stops complete strictly in order: only the
// lowest-order incomplete stop can be completed. Completing the final stop
// completes the route and yields the resulting change event; otherwise the
// event is nil.
func (r *RouteProcess) CompleteStop(stopID kernel.UUID, at time.Time) (*ChangeEvent, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.status != StatusInProgress {
		return nil, errs.NewInvalidTransitionError("completeStop", r.status.String())
	}

	stop := r.findStop(stopID)
	if stop == nil {
		return nil, errs.NewObjectNotFoundError("stopID", stopID)
	}

	next := r.NextStop()
	if next == nil || !next.ID().IsEqual(stopID) {
		return nil, errs.NewValueIsInvalidError("stopID")
	}

	if err := stop.complete(at); err != nil {
		return nil, err
	}

	if r.NextStop() != nil {
		return nil, nil
	}

	completed, err := r.status.Complete()
	if err != nil {
		return nil, err
	}

	old := r.status
	r.status = completed
	r.completedAt = &at
	event := r.changeEvent(old, "", at)
	return &event, nil
}

// Cancel abandons a route that has not reached a terminal status.
func (r *RouteProcess) Cancel(reason string, at time.Time) (ChangeEvent, error) {
	if err := r.Validate(); err != nil {
		return ChangeEvent{}, err
	}
	if reason == "" {
		return ChangeEvent{}, errs.NewValueIsRequiredError("reason")
	}

	next, err := r.status.Cancel()
	if err != nil {
		return ChangeEvent{}, err
	}

	old := r.status
	r.status = next
	r.cancelReason = reason
	r.cancelledAt = &at
	return r.changeEvent(old, reason, at), nil
}

// NextStop returns the lowest-order incomplete stop, or nil when every stop
// is done.
func (r *RouteProcess) NextStop() *RouteStop {
	for _, stop := range r.stops {
		if !stop.IsCompleted() {
			return stop
		}
	}
	return nil
}

func (r *RouteProcess) findStop(stopID kernel.UUID) *RouteStop {
	for _, stop := range r.stops {
		if stop.ID().IsEqual(stopID) {
			return stop
		}
	}
	return nil
}

func (r *RouteProcess) changeEvent(old Status, reason string, at time.Time) ChangeEvent {
	return ChangeEvent{
		RouteID:    r.id,
		OldStatus:  old,
		NewStatus:  r.status,
		Reason:     reason,
		OccurredAt: at,
	}
}

// Validate ensures the route was properly constructed.
func (r *RouteProcess) Validate() error {
	if r == nil {
		return ErrRouteProcessIsNotConstructed
	}
	return r.guard.Validate(ErrRouteProcessIsNotConstructed)
}

// ID returns the route's unique identifier.
func (r *RouteProcess) ID() kernel.UUID { return r.id }

// Code returns the route's human-readable code.
func (r *RouteProcess) Code() string { return r.code }

// DriverID returns the driver responsible for working the route.
func (r *RouteProcess) DriverID() kernel.UUID { return r.driverID }

// AssignedVehicleID returns the vehicle assigned to the route, if any.
func (r *RouteProcess) AssignedVehicleID() *kernel.UUID { return r.assignedVehicleID }

// Status returns the route's lifecycle status.
func (r *RouteProcess) Status() Status { return r.status }

// Stops returns the route's stops in sequence order.
func (r *RouteProcess) Stops() []*RouteStop { return r.stops }

// CancelReason returns why the route was cancelled, if it was.
func (r *RouteProcess) CancelReason() string { return r.cancelReason }

// CreatedAt returns when the route was planned.
func (r *RouteProcess) CreatedAt() time.Time { return r.createdAt }

// StartedAt returns when the route was started, or nil.
func (r *RouteProcess) StartedAt() *time.Time { return r.startedAt }

// CompletedAt returns when the route was completed, or nil.
func (r *RouteProcess) CompletedAt() *time.Time { return r.completedAt }

// CancelledAt returns when the route was cancelled, or nil.
func (r *RouteProcess) CancelledAt() *time.Time { return r.cancelledAt }

// Version returns the optimistic concurrency version of the route.
func (r *RouteProcess) Version() int { return r.version }
