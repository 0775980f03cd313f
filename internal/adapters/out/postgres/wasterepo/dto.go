// Package wasterepo provides data transfer objects and mapping functions for waste record persistence.
// This package implements the repository pattern for the waste record aggregate, handling
// the conversion between domain entities and database representations.
package wasterepo

import (
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WasteRecordDTO represents the database structure for persisting waste record aggregates.
// Maps waste lots to relational database tables with indexing for custody and
// marketplace queries, and carries the optimistic version column.
type WasteRecordDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code               string          `gorm:"type:varchar(64);not null;index"`
	MaterialClassID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity           decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Unit               string          `gorm:"type:varchar(16);not null"`
	Status             int             `gorm:"type:int;not null;index"`
	GeneratorID        uuid.UUID       `gorm:"type:uuid;not null"`
	GeneratedAt        time.Time       `gorm:"not null"`
	CurrentOwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrentLocationID  uuid.UUID       `gorm:"type:uuid;not null"`
	CurrentFacilityID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	IsHazardous        bool            `gorm:"not null"`
	IsAvailableForSale bool            `gorm:"not null;index"`
	ListPrice          decimal.Decimal `gorm:"type:numeric(20,6)"`
	SourceWasteID      *uuid.UUID      `gorm:"type:uuid;index"`
	OriginOperationID  *uuid.UUID      `gorm:"type:uuid"`
	Version            int             `gorm:"type:int;not null"`
}

// TableName specifies the database table name for waste record entities.
// Overrides GORM's default naming convention to use "waste_records".
func (WasteRecordDTO) TableName() string {
	return "waste_records"
}

// fromDomain converts a waste record aggregate to its database representation.
// Maps all record attributes including optional lineage references.
func fromDomain(record *waste.WasteRecord) WasteRecordDTO {
	var sourceWasteID, originOperationID *uuid.UUID
	if id := record.SourceWasteID(); id != nil {
		raw := id.Bytes()
		sourceWasteID = &raw
	}
	if id := record.OriginOperationID(); id != nil {
		raw := id.Bytes()
		originOperationID = &raw
	}

	return WasteRecordDTO{
		ID:                 record.ID().Bytes(),
		Code:               record.Code(),
		MaterialClassID:    record.MaterialClassID().Bytes(),
		Quantity:           record.Quantity().Decimal(),
		Unit:               string(record.Unit()),
		Status:             int(record.Status()),
		GeneratorID:        record.GeneratorID().Bytes(),
		GeneratedAt:        record.GeneratedAt(),
		CurrentOwnerID:     record.CurrentOwnerID().Bytes(),
		CurrentLocationID:  record.CurrentLocationID().Bytes(),
		CurrentFacilityID:  record.CurrentFacilityID().Bytes(),
		IsHazardous:        record.IsHazardous(),
		IsAvailableForSale: record.IsAvailableForSale(),
		ListPrice:          record.ListPrice(),
		SourceWasteID:      sourceWasteID,
		OriginOperationID:  originOperationID,
		Version:            record.Version(),
	}
}

// toDomain converts a database DTO to a waste record aggregate.
// Reconstructs the complete aggregate including custody, sale listing,
// lineage, and version using RestoreWasteRecord.
func toDomain(dto WasteRecordDTO) (*waste.WasteRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	materialClassID, err := kernel.UUIDFromBytes(dto.MaterialClassID[:])
	if err != nil {
		return nil, err
	}

	generatorID, err := kernel.UUIDFromBytes(dto.GeneratorID[:])
	if err != nil {
		return nil, err
	}

	ownerID, err := kernel.UUIDFromBytes(dto.CurrentOwnerID[:])
	if err != nil {
		return nil, err
	}

	locationID, err := kernel.UUIDFromBytes(dto.CurrentLocationID[:])
	if err != nil {
		return nil, err
	}

	facilityID, err := kernel.UUIDFromBytes(dto.CurrentFacilityID[:])
	if err != nil {
		return nil, err
	}

	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}

	sourceWasteID, err := optionalUUID(dto.SourceWasteID)
	if err != nil {
		return nil, err
	}

	originOperationID, err := optionalUUID(dto.OriginOperationID)
	if err != nil {
		return nil, err
	}

	return waste.RestoreWasteRecord(
		id,
		dto.Code,
		materialClassID,
		quantity,
		waste.Unit(dto.Unit),
		waste.Status(dto.Status),
		generatorID,
		dto.GeneratedAt,
		ownerID,
		locationID,
		facilityID,
		dto.IsHazardous,
		dto.IsAvailableForSale,
		dto.ListPrice,
		sourceWasteID,
		originOperationID,
		dto.Version,
	)
}

// optionalUUID converts a nullable database UUID to a domain reference.
func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}

	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
