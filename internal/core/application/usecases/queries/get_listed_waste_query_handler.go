package queries

import (
	"context"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetListedWasteQueryHandler retrieves the current sale listings from the
// database.
type GetListedWasteQueryHandler struct {
	db *gorm.DB
}

// NewGetListedWasteQueryHandler creates a handler for sale listing queries.
// Requires a GORM database connection for query execution.
func NewGetListedWasteQueryHandler(db *gorm.DB) GetListedWasteQueryHandler {
	return GetListedWasteQueryHandler{db: db}
}

// Handle executes the query to retrieve every lot offered for sale,
// ordered by code.
func (h GetListedWasteQueryHandler) Handle(
	ctx context.Context,
	query GetListedWasteQuery,
) ([]GetListedWasteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	listings := make([]GetListedWasteQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			material_class_id,
			quantity,
			unit,
			list_price,
			current_owner_id,
			current_facility_id
		FROM waste_records
		WHERE is_available_for_sale = true
		ORDER BY code
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var listing GetListedWasteQueryResponse
		var id, materialClassID, ownerID, facilityID uuid.UUID
		var unit string

		err = rows.Scan(
			&id,
			&listing.Code,
			&materialClassID,
			&listing.Quantity,
			&unit,
			&listing.ListPrice,
			&ownerID,
			&facilityID,
		)
		if err != nil {
			return nil, err
		}

		if listing.WasteID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if listing.MaterialClassID, err = kernel.UUIDFromBytes(materialClassID[:]); err != nil {
			return nil, err
		}
		if listing.OwnerID, err = kernel.UUIDFromBytes(ownerID[:]); err != nil {
			return nil, err
		}
		if listing.FacilityID, err = kernel.UUIDFromBytes(facilityID[:]); err != nil {
			return nil, err
		}

		listing.Unit = waste.Unit(unit)
		listings = append(listings, listing)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}
