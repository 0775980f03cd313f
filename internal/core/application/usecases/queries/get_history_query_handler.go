package queries

import (
	"context"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/waste"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetHistoryQueryHandler retrieves a lot's operation log from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetHistoryQueryHandler(db)
//	query, _ := NewGetHistoryQuery(wasteID)
//
//	history, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get history: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Found %d operations\n", len(history))
type GetHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetHistoryQueryHandler creates a handler for history retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetHistoryQueryHandler(db *gorm.DB) GetHistoryQueryHandler {
	return GetHistoryQueryHandler{db: db}
}

// Handle executes the query to retrieve the lot's operations.
// Returns the operations ordered by execution time, oldest first.
func (h GetHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetHistoryQuery,
) ([]GetHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	history := make([]GetHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			op_type,
			executed_at,
			quantity,
			unit,
			executed_by_id,
			notes
		FROM operations
		WHERE waste_id = ?
		ORDER BY executed_at
	`, query.WasteID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetHistoryQueryResponse
		var id, executedByID uuid.UUID
		var opType int
		var unit string

		err = rows.Scan(
			&id,
			&entry.Code,
			&opType,
			&entry.ExecutedAt,
			&entry.Quantity,
			&unit,
			&executedByID,
			&entry.Notes,
		)
		if err != nil {
			return nil, err
		}

		operationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.OperationID = operationID

		actorID, idErr := kernel.UUIDFromBytes(executedByID[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ExecutedByID = actorID

		entry.Type = operation.Type(opType)
		entry.Unit = waste.Unit(unit)
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
