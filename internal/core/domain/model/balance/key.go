package balance

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
)

// Key is the exact custody scope a balance row is kept for. All four
// dimensions are required; partial scopes are a query concern, not a
// storage one.
type Key struct {
	ownerID         kernel.UUID
	facilityID      kernel.UUID
	locationID      kernel.UUID
	materialClassID kernel.UUID
}

// NewKey creates a balance key from its four custody dimensions.
func NewKey(ownerID, facilityID, locationID, materialClassID kernel.UUID) (Key, error) {
	if err := errors.Join(
		ownerID.Validate(),
		facilityID.Validate(),
		locationID.Validate(),
		materialClassID.Validate(),
	); err != nil {
		return Key{}, err
	}

	return Key{
		ownerID:         ownerID,
		facilityID:      facilityID,
		locationID:      locationID,
		materialClassID: materialClassID,
	}, nil
}

// OwnerID returns the owning party dimension.
func (k Key) OwnerID() kernel.UUID { return k.ownerID }

// FacilityID returns the facility dimension.
func (k Key) FacilityID() kernel.UUID { return k.facilityID }

// LocationID returns the location dimension.
func (k Key) LocationID() kernel.UUID { return k.locationID }

// MaterialClassID returns the material classification dimension.
func (k Key) MaterialClassID() kernel.UUID { return k.materialClassID }

// IsEqual checks if two keys address the same custody scope.
func (k Key) IsEqual(other Key) bool {
	return k.ownerID.IsEqual(other.ownerID) &&
		k.facilityID.IsEqual(other.facilityID) &&
		k.locationID.IsEqual(other.locationID) &&
		k.materialClassID.IsEqual(other.materialClassID)
}

// Validate checks that every dimension of the key is set.
func (k Key) Validate() error {
	return errors.Join(
		k.ownerID.Validate(),
		k.facilityID.Validate(),
		k.locationID.Validate(),
		k.materialClassID.Validate(),
	)
}
