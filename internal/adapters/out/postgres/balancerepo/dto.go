// Package balancerepo provides data transfer objects and mapping functions for ledger persistence.
// One row is kept per custody scope; the four scope dimensions carry a composite
// unique index so lazy row creation cannot produce duplicates.
package balancerepo

import (
	"time"

	"wastetrack/internal/core/domain/model/balance"
	"wastetrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceDTO represents the database structure for persisting ledger rows.
type BalanceDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_scope"`
	FacilityID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_scope"`
	LocationID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_scope"`
	MaterialClassID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_scope"`

	Generated decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	InTransit decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Stored    decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Disposed  decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Treated   decimal.Decimal `gorm:"type:numeric(20,6);not null"`

	LastUpdated time.Time `gorm:"not null"`
	Version     int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for ledger rows.
// Overrides GORM's default naming convention to use "balances".
func (BalanceDTO) TableName() string {
	return "balances"
}

// fromDomain converts a ledger row aggregate to its database representation.
func fromDomain(row *balance.Balance) BalanceDTO {
	key := row.Key()

	return BalanceDTO{
		ID:              row.ID().Bytes(),
		OwnerID:         key.OwnerID().Bytes(),
		FacilityID:      key.FacilityID().Bytes(),
		LocationID:      key.LocationID().Bytes(),
		MaterialClassID: key.MaterialClassID().Bytes(),
		Generated:       row.Generated().Decimal(),
		InTransit:       row.InTransit().Decimal(),
		Stored:          row.Stored().Decimal(),
		Disposed:        row.Disposed().Decimal(),
		Treated:         row.Treated().Decimal(),
		LastUpdated:     row.LastUpdated(),
		Version:         row.Version(),
	}
}

// toDomain converts a database DTO to a ledger row aggregate.
func toDomain(dto BalanceDTO) (*balance.Balance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}

	facilityID, err := kernel.UUIDFromBytes(dto.FacilityID[:])
	if err != nil {
		return nil, err
	}

	locationID, err := kernel.UUIDFromBytes(dto.LocationID[:])
	if err != nil {
		return nil, err
	}

	materialClassID, err := kernel.UUIDFromBytes(dto.MaterialClassID[:])
	if err != nil {
		return nil, err
	}

	key, err := balance.NewKey(ownerID, facilityID, locationID, materialClassID)
	if err != nil {
		return nil, err
	}

	buckets := make([]kernel.Quantity, 0, 5)
	for _, amount := range []decimal.Decimal{
		dto.Generated, dto.InTransit, dto.Stored, dto.Disposed, dto.Treated,
	} {
		quantity, quantityErr := kernel.NewQuantity(amount)
		if quantityErr != nil {
			return nil, quantityErr
		}
		buckets = append(buckets, quantity)
	}

	return balance.RestoreBalance(
		id,
		key,
		buckets[0],
		buckets[1],
		buckets[2],
		buckets[3],
		buckets[4],
		dto.LastUpdated,
		dto.Version,
	)
}
