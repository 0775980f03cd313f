package routerepo

import (
	"context"
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/routeprocess"
	"wastetrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRouteRepository implements RouteRepository using GORM.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteRepository creates a new GORM route repository.
func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new route process with its stops to the database.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *routeprocess.RouteProcess) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing route process to the database.
// The route row is guarded by the stored version: a stale aggregate loses the
// race and receives a ConcurrencyConflictError. Stops are upserted afterwards,
// still inside the surrounding transaction.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *routeprocess.RouteProcess) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&RouteProcessDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select(
			"code", "driver_id", "assigned_vehicle_id", "status", "cancel_reason",
			"started_at", "completed_at", "cancelled_at", "version",
		).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("routeProcess", aggregate.ID().String())
	}

	if len(dto.Stops) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.Stops).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a route process by ID, stops included.
func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*routeprocess.RouteProcess, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteProcessDTO
	if err := r.db.WithContext(ctx).
		Preload("Stops").
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routeProcess", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllStartedBefore retrieves every in-progress route started before the
// given time. Used by the stale route watchdog.
func (r *GormRouteRepository) GetAllStartedBefore(
	ctx context.Context,
	before time.Time,
) ([]*routeprocess.RouteProcess, error) {
	var dtos []RouteProcessDTO
	if err := r.db.WithContext(ctx).
		Preload("Stops").
		Find(&dtos, "status = ? AND started_at < ?", int(routeprocess.StatusInProgress), before).Error; err != nil {
		return nil, err
	}

	routes := make([]*routeprocess.RouteProcess, 0, len(dtos))
	for _, dto := range dtos {
		route, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	return routes, nil
}
