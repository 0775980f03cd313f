package queries

import (
	"context"
	"strings"

	"wastetrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetBalanceQueryHandler retrieves ledger rows from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetBalanceQueryHandler(db)
//	query, _ := NewGetBalanceQuery(&ownerID, &facilityID, nil, nil)
//
//	rows, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get balance: %v", err)
//	    return err
//	}
type GetBalanceQueryHandler struct {
	db *gorm.DB
}

// NewGetBalanceQueryHandler creates a handler for balance retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetBalanceQueryHandler(db *gorm.DB) GetBalanceQueryHandler {
	return GetBalanceQueryHandler{db: db}
}

// Handle executes the query to retrieve the matching ledger rows.
// Nil query dimensions match every row.
func (h GetBalanceQueryHandler) Handle(
	ctx context.Context,
	query GetBalanceQuery,
) ([]GetBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			owner_id,
			facility_id,
			location_id,
			material_class_id,
			generated,
			in_transit,
			stored,
			disposed,
			treated,
			last_updated
		FROM balances
	`

	var conditions []string
	var args []any
	for _, dimension := range []struct {
		column string
		value  *kernel.UUID
	}{
		{"owner_id", query.OwnerID()},
		{"facility_id", query.FacilityID()},
		{"location_id", query.LocationID()},
		{"material_class_id", query.MaterialClassID()},
	} {
		if dimension.value != nil {
			conditions = append(conditions, dimension.column+" = ?")
			args = append(args, dimension.value.Bytes())
		}
	}
	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	sql += " ORDER BY owner_id, facility_id, location_id, material_class_id"

	balances := make([]GetBalanceQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row GetBalanceQueryResponse
		var ownerID, facilityID, locationID, materialClassID uuid.UUID

		err = rows.Scan(
			&ownerID,
			&facilityID,
			&locationID,
			&materialClassID,
			&row.Generated,
			&row.InTransit,
			&row.Stored,
			&row.Disposed,
			&row.Treated,
			&row.LastUpdated,
		)
		if err != nil {
			return nil, err
		}

		if row.OwnerID, err = kernel.UUIDFromBytes(ownerID[:]); err != nil {
			return nil, err
		}
		if row.FacilityID, err = kernel.UUIDFromBytes(facilityID[:]); err != nil {
			return nil, err
		}
		if row.LocationID, err = kernel.UUIDFromBytes(locationID[:]); err != nil {
			return nil, err
		}
		if row.MaterialClassID, err = kernel.UUIDFromBytes(materialClassID[:]); err != nil {
			return nil, err
		}

		balances = append(balances, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return balances, nil
}
