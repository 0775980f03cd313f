package operationrepo

import (
	"context"
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOperationRepository implements OperationRepository using GORM.
type GormOperationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOperationRepository creates a new GORM operation repository.
func NewGormOperationRepository(db *gorm.DB, tracker aggregateTracker) *GormOperationRepository {
	return &GormOperationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add appends a new operation fact to the log. Facts are immutable once added;
// the unique index on the idempotency key rejects a duplicate retry that races
// past the replay check.
func (r *GormOperationRepository) Add(ctx context.Context, aggregate *operation.ManagementOperation) error {
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

// Get retrieves an operation fact by ID.
func (r *GormOperationRepository) Get(ctx context.Context, id kernel.UUID) (*operation.ManagementOperation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OperationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("operation", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIdempotencyKey retrieves the fact recorded for a retry key.
// Returns ObjectNotFoundError when the key was never used, which callers treat
// as "this is a new operation".
func (r *GormOperationRepository) GetByIdempotencyKey(
	ctx context.Context,
	key kernel.UUID,
) (*operation.ManagementOperation, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var dto OperationDTO
	if err := r.db.WithContext(ctx).First(&dto, "idempotency_key = ?", key.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("idempotencyKey", key.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetHistory retrieves every fact executed against a lot, ordered by execution time.
func (r *GormOperationRepository) GetHistory(
	ctx context.Context,
	wasteID kernel.UUID,
) ([]*operation.ManagementOperation, error) {
	if err := wasteID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OperationDTO
	if err := r.db.WithContext(ctx).
		Order("executed_at").
		Find(&dtos, "waste_id = ?", wasteID.Bytes()).Error; err != nil {
		return nil, err
	}

	facts := make([]*operation.ManagementOperation, 0, len(dtos))
	for _, dto := range dtos {
		fact, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}

	return facts, nil
}
