package http

import (
	"errors"
	"net/http"
	"time"

	"wastetrack/internal/core/application/usecases/commands"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Error is the uniform error body returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// transformationOutputRequest describes one descendant lot of a transformation.
type transformationOutputRequest struct {
	Code            string          `json:"code"`
	MaterialClassID string          `json:"material_class_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	AsStored        bool            `json:"as_stored,omitempty"`
}

// executeOperationRequest is the wire shape of a management operation call.
// Type selects the operation; only the fields that operation needs are read.
type executeOperationRequest struct {
	Type           string `json:"type"`
	ExecutedByID   string `json:"executed_by_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Notes          string `json:"notes,omitempty"`

	WasteID         string          `json:"waste_id,omitempty"`
	Code            string          `json:"code,omitempty"`
	MaterialClassID string          `json:"material_class_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity,omitempty"`
	Unit            string          `json:"unit,omitempty"`
	GeneratorID     string          `json:"generator_id,omitempty"`
	LocationID      string          `json:"location_id,omitempty"`
	FacilityID      string          `json:"facility_id,omitempty"`
	IsHazardous     bool            `json:"is_hazardous,omitempty"`

	VehicleID             string `json:"vehicle_id,omitempty"`
	OriginLocationID      string `json:"origin_location_id,omitempty"`
	OriginFacilityID      string `json:"origin_facility_id,omitempty"`
	DestinationLocationID string `json:"destination_location_id,omitempty"`
	DestinationFacilityID string `json:"destination_facility_id,omitempty"`

	TreatmentID   string                        `json:"treatment_id,omitempty"`
	CertificateID string                        `json:"certificate_id,omitempty"`
	Outputs       []transformationOutputRequest `json:"outputs,omitempty"`

	BuyerID        string          `json:"buyer_id,omitempty"`
	Price          decimal.Decimal `json:"price,omitempty"`
	RelatedOrderID string          `json:"related_order_id,omitempty"`
	RecipientID    string          `json:"recipient_id,omitempty"`
	ClassifierID   string          `json:"classifier_id,omitempty"`
}

// executeOperationResponse reports the outcome of one dispatched operation.
type executeOperationResponse struct {
	OperationID     string   `json:"operation_id"`
	WasteID         string   `json:"waste_id"`
	CreatedWasteIDs []string `json:"created_waste_ids,omitempty"`
	Replayed        bool     `json:"replayed"`
}

// stopSpecRequest describes one planned stop of a route.
type stopSpecRequest struct {
	LocationID         string `json:"location_id"`
	SequenceOrder      int    `json:"sequence_order"`
	OperationType      string `json:"operation_type,omitempty"`
	ResponsiblePartyID string `json:"responsible_party_id"`
	Notes              string `json:"notes,omitempty"`
}

// createRouteRequest is the wire shape of a route planning call.
type createRouteRequest struct {
	Code              string            `json:"code"`
	DriverID          string            `json:"driver_id"`
	AssignedVehicleID string            `json:"assigned_vehicle_id,omitempty"`
	Stops             []stopSpecRequest `json:"stops"`
}

// createRouteResponse reports the identifier of a planned route.
type createRouteResponse struct {
	RouteID string `json:"route_id"`
}

// routeChangeEventResponse is one streamed route status change.
type routeChangeEventResponse struct {
	RouteID    string    `json:"route_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// completeStopRequest optionally carries the management operation a
// waste-action stop executes on completion.
type completeStopRequest struct {
	Operation *executeOperationRequest `json:"operation,omitempty"`
}

// cancelRouteRequest carries the mandatory cancellation reason.
type cancelRouteRequest struct {
	Reason string `json:"reason"`
}

// listWasteForSaleRequest carries the asking price of a sale listing.
type listWasteForSaleRequest struct {
	Price decimal.Decimal `json:"price"`
}

// historyEntryResponse is one audit fact of a lot's history.
type historyEntryResponse struct {
	OperationID  string          `json:"operation_id"`
	Code         string          `json:"code"`
	Type         string          `json:"type"`
	ExecutedAt   time.Time       `json:"executed_at"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	ExecutedByID string          `json:"executed_by_id"`
	Notes        string          `json:"notes,omitempty"`
}

// balanceRowResponse is one ledger row.
type balanceRowResponse struct {
	OwnerID         string          `json:"owner_id"`
	FacilityID      string          `json:"facility_id"`
	LocationID      string          `json:"location_id"`
	MaterialClassID string          `json:"material_class_id"`
	Generated       decimal.Decimal `json:"generated"`
	InTransit       decimal.Decimal `json:"in_transit"`
	Stored          decimal.Decimal `json:"stored"`
	Disposed        decimal.Decimal `json:"disposed"`
	Treated         decimal.Decimal `json:"treated"`
	LastUpdated     time.Time       `json:"last_updated"`
}

// listedWasteResponse is one lot offered for sale.
type listedWasteResponse struct {
	WasteID         string          `json:"waste_id"`
	Code            string          `json:"code"`
	MaterialClassID string          `json:"material_class_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	ListPrice       decimal.Decimal `json:"list_price"`
	OwnerID         string          `json:"owner_id"`
	FacilityID      string          `json:"facility_id"`
}

// parseUUID parses a required UUID field.
func parseUUID(paramName, raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(paramName)
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(paramName, err)
	}
	return id, nil
}

// parseOptionalUUID parses an optional UUID field; empty means absent.
func parseOptionalUUID(paramName, raw string) (*kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}

	id, err := parseUUID(paramName, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseQuantity converts a decimal amount to a domain quantity.
func parseQuantity(amount decimal.Decimal) (kernel.Quantity, error) {
	return kernel.NewQuantity(amount)
}

// toCommand converts the wire request to a validated operation command.
func (r executeOperationRequest) toCommand() (commands.ExecuteOperationCommand, error) {
	executedByID, err := parseUUID("executedById", r.ExecutedByID)
	if err != nil {
		return commands.ExecuteOperationCommand{}, err
	}

	idempotencyKey, err := parseUUID("idempotencyKey", r.IdempotencyKey)
	if err != nil {
		return commands.ExecuteOperationCommand{}, err
	}

	params, err := r.toParams()
	if err != nil {
		return commands.ExecuteOperationCommand{}, err
	}

	return commands.NewExecuteOperationCommand(params, executedByID, idempotencyKey, r.Notes)
}

// toParams builds the typed parameter shape selected by the request type.
//
//nolint:gocyclo // one arm per operation type
func (r executeOperationRequest) toParams() (operation.Params, error) {
	opType, err := operation.TypeFromString(r.Type)
	if err != nil {
		return nil, err
	}

	wasteID, err := parseUUID("wasteId", r.WasteID)
	if err != nil && opType != operation.TypeGenerate {
		return nil, err
	}

	switch opType {
	case operation.TypeGenerate:
		return r.toGenerateParams()

	case operation.TypeCollect:
		quantity, quantityErr := parseQuantity(r.Quantity)
		if quantityErr != nil {
			return nil, quantityErr
		}
		vehicleID, vehicleErr := parseUUID("vehicleId", r.VehicleID)
		if vehicleErr != nil {
			return nil, vehicleErr
		}
		return operation.CollectParams{WasteID: wasteID, Quantity: quantity, VehicleID: vehicleID}, nil

	case operation.TypeTransport:
		return r.toTransportParams(wasteID)

	case operation.TypeReceive:
		quantity, quantityErr := parseQuantity(r.Quantity)
		if quantityErr != nil {
			return nil, quantityErr
		}
		locationID, locationErr := parseUUID("destinationLocationId", r.DestinationLocationID)
		if locationErr != nil {
			return nil, locationErr
		}
		facilityID, facilityErr := parseUUID("destinationFacilityId", r.DestinationFacilityID)
		if facilityErr != nil {
			return nil, facilityErr
		}
		return operation.ReceiveParams{
			WasteID:               wasteID,
			Quantity:              quantity,
			DestinationLocationID: locationID,
			DestinationFacilityID: facilityID,
		}, nil

	case operation.TypeStore:
		locationID, locationErr := parseUUID("destinationLocationId", r.DestinationLocationID)
		if locationErr != nil {
			return nil, locationErr
		}
		facilityID, facilityErr := parseUUID("destinationFacilityId", r.DestinationFacilityID)
		if facilityErr != nil {
			return nil, facilityErr
		}
		return operation.StoreParams{
			WasteID:               wasteID,
			DestinationLocationID: locationID,
			DestinationFacilityID: facilityID,
		}, nil

	case operation.TypeTransform:
		return r.toTransformParams(wasteID)

	case operation.TypeDispose:
		treatmentID, treatmentErr := parseOptionalUUID("treatmentId", r.TreatmentID)
		if treatmentErr != nil {
			return nil, treatmentErr
		}
		certificateID, certificateErr := parseOptionalUUID("certificateId", r.CertificateID)
		if certificateErr != nil {
			return nil, certificateErr
		}
		return operation.DisposeParams{
			WasteID:       wasteID,
			TreatmentID:   treatmentID,
			CertificateID: certificateID,
		}, nil

	case operation.TypeSell:
		buyerID, buyerErr := parseUUID("buyerId", r.BuyerID)
		if buyerErr != nil {
			return nil, buyerErr
		}
		relatedOrderID, orderErr := parseOptionalUUID("relatedOrderId", r.RelatedOrderID)
		if orderErr != nil {
			return nil, orderErr
		}
		return operation.SellParams{
			WasteID:        wasteID,
			BuyerID:        buyerID,
			Price:          r.Price,
			RelatedOrderID: relatedOrderID,
		}, nil

	case operation.TypeDeliver:
		return r.toDeliverParams(wasteID)

	case operation.TypeClassify:
		materialClassID, classErr := parseUUID("materialClassId", r.MaterialClassID)
		if classErr != nil {
			return nil, classErr
		}
		classifierID, classifierErr := parseUUID("classifierId", r.ClassifierID)
		if classifierErr != nil {
			return nil, classifierErr
		}
		return operation.ClassifyParams{
			WasteID:         wasteID,
			MaterialClassID: materialClassID,
			ClassifierID:    classifierID,
		}, nil

	case operation.TypeReuse:
		return operation.ReuseParams{WasteID: wasteID}, nil

	default:
		return nil, errs.NewValueIsInvalidError("operationType")
	}
}

func (r executeOperationRequest) toGenerateParams() (operation.Params, error) {
	wasteID, err := parseUUID("wasteId", r.WasteID)
	if err != nil {
		return nil, err
	}
	materialClassID, err := parseUUID("materialClassId", r.MaterialClassID)
	if err != nil {
		return nil, err
	}
	quantity, err := parseQuantity(r.Quantity)
	if err != nil {
		return nil, err
	}
	generatorID, err := parseUUID("generatorId", r.GeneratorID)
	if err != nil {
		return nil, err
	}
	locationID, err := parseUUID("locationId", r.LocationID)
	if err != nil {
		return nil, err
	}
	facilityID, err := parseUUID("facilityId", r.FacilityID)
	if err != nil {
		return nil, err
	}

	return operation.GenerateParams{
		WasteID:         wasteID,
		Code:            r.Code,
		MaterialClassID: materialClassID,
		Quantity:        quantity,
		Unit:            waste.Unit(r.Unit),
		GeneratorID:     generatorID,
		LocationID:      locationID,
		FacilityID:      facilityID,
		IsHazardous:     r.IsHazardous,
	}, nil
}

func (r executeOperationRequest) toTransportParams(wasteID kernel.UUID) (operation.Params, error) {
	vehicleID, err := parseUUID("vehicleId", r.VehicleID)
	if err != nil {
		return nil, err
	}
	originLocationID, err := parseUUID("originLocationId", r.OriginLocationID)
	if err != nil {
		return nil, err
	}
	originFacilityID, err := parseUUID("originFacilityId", r.OriginFacilityID)
	if err != nil {
		return nil, err
	}
	destinationLocationID, err := parseUUID("destinationLocationId", r.DestinationLocationID)
	if err != nil {
		return nil, err
	}
	destinationFacilityID, err := parseUUID("destinationFacilityId", r.DestinationFacilityID)
	if err != nil {
		return nil, err
	}

	return operation.TransportParams{
		WasteID:               wasteID,
		VehicleID:             vehicleID,
		OriginLocationID:      originLocationID,
		OriginFacilityID:      originFacilityID,
		DestinationLocationID: destinationLocationID,
		DestinationFacilityID: destinationFacilityID,
	}, nil
}

func (r executeOperationRequest) toTransformParams(wasteID kernel.UUID) (operation.Params, error) {
	treatmentID, err := parseUUID("treatmentId", r.TreatmentID)
	if err != nil {
		return nil, err
	}

	outputs := make([]operation.TransformationOutput, 0, len(r.Outputs))
	for _, output := range r.Outputs {
		materialClassID, outputErr := parseUUID("materialClassId", output.MaterialClassID)
		if outputErr != nil {
			return nil, outputErr
		}
		quantity, outputErr := parseQuantity(output.Quantity)
		if outputErr != nil {
			return nil, outputErr
		}

		outputs = append(outputs, operation.TransformationOutput{
			Code:            output.Code,
			MaterialClassID: materialClassID,
			Quantity:        quantity,
			Unit:            waste.Unit(output.Unit),
			AsStored:        output.AsStored,
		})
	}

	return operation.TransformParams{
		WasteID:     wasteID,
		TreatmentID: treatmentID,
		Outputs:     outputs,
	}, nil
}

func (r executeOperationRequest) toDeliverParams(wasteID kernel.UUID) (operation.Params, error) {
	destinationLocationID, err := parseUUID("destinationLocationId", r.DestinationLocationID)
	if err != nil {
		return nil, err
	}
	destinationFacilityID, err := parseUUID("destinationFacilityId", r.DestinationFacilityID)
	if err != nil {
		return nil, err
	}
	recipientID, err := parseUUID("recipientId", r.RecipientID)
	if err != nil {
		return nil, err
	}
	vehicleID, err := parseOptionalUUID("vehicleId", r.VehicleID)
	if err != nil {
		return nil, err
	}
	relatedOrderID, err := parseOptionalUUID("relatedOrderId", r.RelatedOrderID)
	if err != nil {
		return nil, err
	}

	return operation.DeliverParams{
		WasteID:               wasteID,
		DestinationLocationID: destinationLocationID,
		DestinationFacilityID: destinationFacilityID,
		RecipientID:           recipientID,
		VehicleID:             vehicleID,
		RelatedOrderID:        relatedOrderID,
	}, nil
}

// statusFromError maps domain errors to HTTP status codes.
// Validation failures are client errors; lifecycle and quantity violations
// and lost optimistic races are conflicts.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInsufficientQuantity),
		errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func uuidStrings(ids []kernel.UUID) []string {
	if len(ids) == 0 {
		return nil
	}

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return strs
}
