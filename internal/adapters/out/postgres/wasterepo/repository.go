package wasterepo

import (
	"context"
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWasteRepository implements WasteRepository using GORM.
type GormWasteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWasteRepository creates a new GORM waste repository.
func NewGormWasteRepository(db *gorm.DB, tracker aggregateTracker) *GormWasteRepository {
	return &GormWasteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new waste record to the database.
func (r *GormWasteRepository) Add(ctx context.Context, aggregate *waste.WasteRecord) error {
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

// Update saves an existing waste record to the database.
// The write is guarded by the stored version: a stale aggregate loses the
// race and receives a ConcurrencyConflictError, signalling re-read and retry.
func (r *GormWasteRepository) Update(ctx context.Context, aggregate *waste.WasteRecord) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&WasteRecordDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("wasteRecord", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a waste record by ID.
func (r *GormWasteRepository) Get(ctx context.Context, id kernel.UUID) (*waste.WasteRecord, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WasteRecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wasteRecord", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllListedForSale retrieves every record currently listed on the
// materials bank, ordered by tracking code.
func (r *GormWasteRepository) GetAllListedForSale(ctx context.Context) ([]*waste.WasteRecord, error) {
	var dtos []WasteRecordDTO
	if err := r.db.WithContext(ctx).
		Order("code").
		Find(&dtos, "is_available_for_sale = ?", true).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetDescendants retrieves the records derived from the given record through
// transformation, ordered by tracking code.
func (r *GormWasteRepository) GetDescendants(ctx context.Context, sourceID kernel.UUID) ([]*waste.WasteRecord, error) {
	if err := sourceID.Validate(); err != nil {
		return nil, err
	}

	var dtos []WasteRecordDTO
	if err := r.db.WithContext(ctx).
		Order("code").
		Find(&dtos, "source_waste_id = ?", sourceID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []WasteRecordDTO) ([]*waste.WasteRecord, error) {
	records := make([]*waste.WasteRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
