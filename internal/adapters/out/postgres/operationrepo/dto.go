// Package operationrepo provides data transfer objects and mapping functions for the
// management operation log. The log is append-only: facts are created once and never
// updated, and the idempotency key column carries a unique index so a retried call
// can be answered from the stored fact.
package operationrepo

import (
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/waste"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationDTO represents the database structure for persisting management operation facts.
type OperationDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code           string          `gorm:"type:varchar(64);not null"`
	OpType         int             `gorm:"type:int;not null;index"`
	ExecutedAt     time.Time       `gorm:"not null;index"`
	WasteID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Unit           string          `gorm:"type:varchar(16);not null"`
	ExecutedByID   uuid.UUID       `gorm:"type:uuid;not null"`
	IdempotencyKey uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`

	OriginLocationID      *uuid.UUID `gorm:"type:uuid"`
	OriginFacilityID      *uuid.UUID `gorm:"type:uuid"`
	DestinationLocationID *uuid.UUID `gorm:"type:uuid"`
	DestinationFacilityID *uuid.UUID `gorm:"type:uuid"`
	RelatedOrderID        *uuid.UUID `gorm:"type:uuid"`
	VehicleID             *uuid.UUID `gorm:"type:uuid"`
	TreatmentID           *uuid.UUID `gorm:"type:uuid"`
	CertificateID         *uuid.UUID `gorm:"type:uuid"`
	RecipientID           *uuid.UUID `gorm:"type:uuid"`
	Notes                 string     `gorm:"type:text"`
}

// TableName specifies the database table name for operation facts.
// Overrides GORM's default naming convention to use "operations".
func (OperationDTO) TableName() string {
	return "operations"
}

// fromDomain converts a management operation fact to its database representation.
func fromDomain(fact *operation.ManagementOperation) OperationDTO {
	details := fact.Details()

	return OperationDTO{
		ID:             fact.ID().Bytes(),
		Code:           fact.Code(),
		OpType:         int(fact.Type()),
		ExecutedAt:     fact.ExecutedAt(),
		WasteID:        fact.WasteID().Bytes(),
		Quantity:       fact.Quantity().Decimal(),
		Unit:           string(fact.Unit()),
		ExecutedByID:   fact.ExecutedByID().Bytes(),
		IdempotencyKey: fact.IdempotencyKey().Bytes(),

		OriginLocationID:      refToRaw(details.OriginLocationID),
		OriginFacilityID:      refToRaw(details.OriginFacilityID),
		DestinationLocationID: refToRaw(details.DestinationLocationID),
		DestinationFacilityID: refToRaw(details.DestinationFacilityID),
		RelatedOrderID:        refToRaw(details.RelatedOrderID),
		VehicleID:             refToRaw(details.VehicleID),
		TreatmentID:           refToRaw(details.TreatmentID),
		CertificateID:         refToRaw(details.CertificateID),
		RecipientID:           refToRaw(details.RecipientID),
		Notes:                 details.Notes,
	}
}

// toDomain converts a database DTO to a management operation fact.
func toDomain(dto OperationDTO) (*operation.ManagementOperation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	wasteID, err := kernel.UUIDFromBytes(dto.WasteID[:])
	if err != nil {
		return nil, err
	}

	executedByID, err := kernel.UUIDFromBytes(dto.ExecutedByID[:])
	if err != nil {
		return nil, err
	}

	idempotencyKey, err := kernel.UUIDFromBytes(dto.IdempotencyKey[:])
	if err != nil {
		return nil, err
	}

	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}

	details := operation.Details{Notes: dto.Notes}
	for _, ref := range []struct {
		raw    *uuid.UUID
		target **kernel.UUID
	}{
		{dto.OriginLocationID, &details.OriginLocationID},
		{dto.OriginFacilityID, &details.OriginFacilityID},
		{dto.DestinationLocationID, &details.DestinationLocationID},
		{dto.DestinationFacilityID, &details.DestinationFacilityID},
		{dto.RelatedOrderID, &details.RelatedOrderID},
		{dto.VehicleID, &details.VehicleID},
		{dto.TreatmentID, &details.TreatmentID},
		{dto.CertificateID, &details.CertificateID},
		{dto.RecipientID, &details.RecipientID},
	} {
		converted, refErr := rawToRef(ref.raw)
		if refErr != nil {
			return nil, refErr
		}
		*ref.target = converted
	}

	return operation.RestoreManagementOperation(
		id,
		dto.Code,
		operation.Type(dto.OpType),
		dto.ExecutedAt,
		wasteID,
		quantity,
		waste.Unit(dto.Unit),
		executedByID,
		idempotencyKey,
		details,
	)
}

// refToRaw converts an optional domain reference to a nullable database UUID.
func refToRaw(ref *kernel.UUID) *uuid.UUID {
	if ref == nil {
		return nil
	}

	raw := ref.Bytes()
	return &raw
}

// rawToRef converts a nullable database UUID to an optional domain reference.
func rawToRef(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}

	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
