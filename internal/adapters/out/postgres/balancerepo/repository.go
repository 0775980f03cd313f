package balancerepo

import (
	"context"
	"errors"

	"wastetrack/internal/core/domain/model/balance"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormBalanceRepository implements BalanceRepository using GORM.
type GormBalanceRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBalanceRepository creates a new GORM balance repository.
func NewGormBalanceRepository(db *gorm.DB, tracker aggregateTracker) *GormBalanceRepository {
	return &GormBalanceRepository{
		db:      db,
		tracker: tracker,
	}
}

// GetOrCreate retrieves the ledger row for an exact custody scope, creating
// an empty row when none exists yet. The composite unique index on the scope
// columns turns a racing double create into a constraint violation that rolls
// the losing transaction back.
func (r *GormBalanceRepository) GetOrCreate(ctx context.Context, key balance.Key) (*balance.Balance, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var dto BalanceDTO
	err := r.db.WithContext(ctx).First(&dto,
		"owner_id = ? AND facility_id = ? AND location_id = ? AND material_class_id = ?",
		key.OwnerID().Bytes(),
		key.FacilityID().Bytes(),
		key.LocationID().Bytes(),
		key.MaterialClassID().Bytes(),
	).Error
	if err == nil {
		return toDomain(dto)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row, err := balance.NewBalance(kernel.NewUUID(), key)
	if err != nil {
		return nil, err
	}

	dto = fromDomain(row)
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(row.ID(), row)
	return row, nil
}

// Update saves an existing ledger row to the database.
// The write is guarded by the stored version: a stale aggregate loses the
// race and receives a ConcurrencyConflictError, signalling re-read and retry.
func (r *GormBalanceRepository) Update(ctx context.Context, aggregate *balance.Balance) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&BalanceDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("balance", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Query retrieves every ledger row matching the filter. Nil filter dimensions
// are wildcards; set dimensions must all match.
func (r *GormBalanceRepository) Query(ctx context.Context, filter balance.Filter) ([]*balance.Balance, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&BalanceDTO{})
	for _, dimension := range []struct {
		column string
		value  *kernel.UUID
	}{
		{"owner_id", filter.OwnerID},
		{"facility_id", filter.FacilityID},
		{"location_id", filter.LocationID},
		{"material_class_id", filter.MaterialClassID},
	} {
		if dimension.value != nil {
			query = query.Where(dimension.column+" = ?", dimension.value.Bytes())
		}
	}

	var dtos []BalanceDTO
	if err := query.
		Order("owner_id, facility_id, location_id, material_class_id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	rows := make([]*balance.Balance, 0, len(dtos))
	for _, dto := range dtos {
		row, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}
