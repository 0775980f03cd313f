package balance

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
)

// Filter selects balance rows by custody dimensions. A nil dimension is a
// wildcard; set dimensions must all match.
type Filter struct {
	OwnerID         *kernel.UUID
	FacilityID      *kernel.UUID
	LocationID      *kernel.UUID
	MaterialClassID *kernel.UUID
}

// Validate checks every supplied dimension.
func (f Filter) Validate() error {
	var err error
	for _, ref := range []*kernel.UUID{
		f.OwnerID, f.FacilityID, f.LocationID, f.MaterialClassID,
	} {
		if ref != nil {
			err = errors.Join(err, ref.Validate())
		}
	}
	return err
}

// Matches reports whether a key satisfies every set dimension of the filter.
func (f Filter) Matches(key Key) bool {
	if f.OwnerID != nil && !f.OwnerID.IsEqual(key.OwnerID()) {
		return false
	}
	if f.FacilityID != nil && !f.FacilityID.IsEqual(key.FacilityID()) {
		return false
	}
	if f.LocationID != nil && !f.LocationID.IsEqual(key.LocationID()) {
		return false
	}
	if f.MaterialClassID != nil && !f.MaterialClassID.IsEqual(key.MaterialClassID()) {
		return false
	}
	return true
}
