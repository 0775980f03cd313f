// Package routerepo provides data transfer objects and mapping functions for route process persistence.
// This package implements the repository pattern for the route process aggregate, handling
// the conversion between the aggregate with its stops and the relational tables.
package routerepo

import (
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/routeprocess"

	"github.com/google/uuid"
)

// RouteProcessDTO represents the database structure for persisting route process aggregates.
type RouteProcessDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code              string     `gorm:"type:varchar(64);not null"`
	DriverID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedVehicleID *uuid.UUID `gorm:"type:uuid;index"`
	Status            int        `gorm:"type:int;not null;index"`
	CancelReason      string     `gorm:"type:text"`
	CreatedAt         time.Time  `gorm:"not null"`
	StartedAt         *time.Time `gorm:"index"`
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	Version           int            `gorm:"type:int;not null"`
	Stops             []RouteStopDTO `gorm:"foreignKey:RouteProcessID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for route process entities.
// Overrides GORM's default naming convention to use "route_processes".
func (RouteProcessDTO) TableName() string {
	return "route_processes"
}

// RouteStopDTO represents the database structure for persisting route stop entities.
// Links to the route process via foreign key.
type RouteStopDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteProcessID     uuid.UUID `gorm:"type:uuid;not null;index"`
	LocationID         uuid.UUID `gorm:"type:uuid;not null"`
	SequenceOrder      int       `gorm:"type:int;not null"`
	OperationType      *int      `gorm:"type:int"`
	ResponsiblePartyID uuid.UUID `gorm:"type:uuid;not null"`
	IsCompleted        bool      `gorm:"not null"`
	CompletedAt        *time.Time
	Notes              string `gorm:"type:text"`
}

// TableName specifies the database table name for route stop entities.
// Overrides GORM's default naming convention to use "route_stops".
func (RouteStopDTO) TableName() string {
	return "route_stops"
}

// fromDomain converts a route process aggregate to its database representation.
// Maps the aggregate root and all stops including their completion state.
func fromDomain(route *routeprocess.RouteProcess) RouteProcessDTO {
	routeID := route.ID().Bytes()

	var vehicleID *uuid.UUID
	if id := route.AssignedVehicleID(); id != nil {
		raw := id.Bytes()
		vehicleID = &raw
	}

	stops := make([]RouteStopDTO, 0, len(route.Stops()))
	for _, stop := range route.Stops() {
		var operationType *int
		if opType := stop.OperationType(); opType != nil {
			raw := int(*opType)
			operationType = &raw
		}

		stops = append(stops, RouteStopDTO{
			ID:                 stop.ID().Bytes(),
			RouteProcessID:     routeID,
			LocationID:         stop.LocationID().Bytes(),
			SequenceOrder:      stop.SequenceOrder(),
			OperationType:      operationType,
			ResponsiblePartyID: stop.ResponsiblePartyID().Bytes(),
			IsCompleted:        stop.IsCompleted(),
			CompletedAt:        stop.CompletedAt(),
			Notes:              stop.Notes(),
		})
	}

	return RouteProcessDTO{
		ID:                routeID,
		Code:              route.Code(),
		DriverID:          route.DriverID().Bytes(),
		AssignedVehicleID: vehicleID,
		Status:            int(route.Status()),
		CancelReason:      route.CancelReason(),
		CreatedAt:         route.CreatedAt(),
		StartedAt:         route.StartedAt(),
		CompletedAt:       route.CompletedAt(),
		CancelledAt:       route.CancelledAt(),
		Version:           route.Version(),
		Stops:             stops,
	}
}

// toDomain converts a database DTO to a route process aggregate.
// Reconstructs the complete aggregate including all stops using RestoreRouteProcess.
func toDomain(dto RouteProcessDTO) (*routeprocess.RouteProcess, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	var vehicleID *kernel.UUID
	if dto.AssignedVehicleID != nil {
		vID, vehicleErr := kernel.UUIDFromBytes((*dto.AssignedVehicleID)[:])
		if vehicleErr != nil {
			return nil, vehicleErr
		}
		vehicleID = &vID
	}

	stops := make([]*routeprocess.RouteStop, 0, len(dto.Stops))
	for _, stopDto := range dto.Stops {
		stop, stopErr := stopToDomain(stopDto)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return routeprocess.RestoreRouteProcess(
		id,
		dto.Code,
		driverID,
		vehicleID,
		routeprocess.Status(dto.Status),
		stops,
		dto.CancelReason,
		dto.CreatedAt,
		dto.StartedAt,
		dto.CompletedAt,
		dto.CancelledAt,
		dto.Version,
	)
}

// stopToDomain converts a route stop DTO to its domain entity.
// Uses RestoreRouteStop to reconstruct the entity with its persisted state.
func stopToDomain(dto RouteStopDTO) (*routeprocess.RouteStop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	routeProcessID, err := kernel.UUIDFromBytes(dto.RouteProcessID[:])
	if err != nil {
		return nil, err
	}

	locationID, err := kernel.UUIDFromBytes(dto.LocationID[:])
	if err != nil {
		return nil, err
	}

	responsiblePartyID, err := kernel.UUIDFromBytes(dto.ResponsiblePartyID[:])
	if err != nil {
		return nil, err
	}

	var operationType *operation.Type
	if dto.OperationType != nil {
		opType := operation.Type(*dto.OperationType)
		operationType = &opType
	}

	return routeprocess.RestoreRouteStop(
		id,
		routeProcessID,
		locationID,
		dto.SequenceOrder,
		operationType,
		responsiblePartyID,
		dto.IsCompleted,
		dto.CompletedAt,
		dto.Notes,
	)
}
