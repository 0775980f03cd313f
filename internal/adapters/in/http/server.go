// Package http exposes the custody core over a REST API.
// Handlers translate between wire DTOs and application commands and queries;
// no business rules live here.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"wastetrack/internal/core/application/usecases/commands"
	"wastetrack/internal/core/application/usecases/queries"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/routeprocess"
	"wastetrack/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	executeOperationHandler commands.ExecuteOperationCommandHandler
	listWasteHandler        commands.ListWasteForSaleCommandHandler
	createRouteHandler      commands.CreateRouteProcessCommandHandler
	startRouteHandler       commands.StartRouteCommandHandler
	completeStopHandler     commands.CompleteStopCommandHandler
	cancelRouteHandler      commands.CancelRouteCommandHandler

	// Query handlers
	getHistoryHandler     queries.GetHistoryQueryHandler
	getBalanceHandler     queries.GetBalanceQueryHandler
	getListedWasteHandler queries.GetListedWasteQueryHandler

	// Route change stream
	routeEvents ports.RouteEventStream
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	executeOperationHandler commands.ExecuteOperationCommandHandler,
	listWasteHandler commands.ListWasteForSaleCommandHandler,
	createRouteHandler commands.CreateRouteProcessCommandHandler,
	startRouteHandler commands.StartRouteCommandHandler,
	completeStopHandler commands.CompleteStopCommandHandler,
	cancelRouteHandler commands.CancelRouteCommandHandler,
	getHistoryHandler queries.GetHistoryQueryHandler,
	getBalanceHandler queries.GetBalanceQueryHandler,
	getListedWasteHandler queries.GetListedWasteQueryHandler,
	routeEvents ports.RouteEventStream,
) *Server {
	return &Server{
		executeOperationHandler: executeOperationHandler,
		listWasteHandler:        listWasteHandler,
		createRouteHandler:      createRouteHandler,
		startRouteHandler:       startRouteHandler,
		completeStopHandler:     completeStopHandler,
		cancelRouteHandler:      cancelRouteHandler,
		getHistoryHandler:       getHistoryHandler,
		getBalanceHandler:       getBalanceHandler,
		getListedWasteHandler:   getListedWasteHandler,
		routeEvents:             routeEvents,
	}
}

// RegisterRoutes binds every endpoint to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/operations", s.ExecuteOperation)
	api.GET("/waste/listed", s.GetListedWaste)
	api.GET("/waste/:id/history", s.GetWasteHistory)
	api.POST("/waste/:id/listing", s.ListWasteForSale)
	api.GET("/balance", s.GetBalance)

	api.POST("/routes", s.CreateRoute)
	api.POST("/routes/:id/start", s.StartRoute)
	api.POST("/routes/:id/cancel", s.CancelRoute)
	api.POST("/routes/:id/stops/:stop_id/complete", s.CompleteStop)
	api.GET("/routes/:id/events", s.WatchRoute)
}

// ExecuteOperation handles POST /api/v1/operations - dispatches one management operation.
func (s *Server) ExecuteOperation(ctx echo.Context) error {
	var request executeOperationRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := request.toCommand()
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid operation data: "+err.Error())
	}

	result, err := s.executeOperationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, statusFromError(err), err.Error())
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	return ctx.JSON(status, executeOperationResponse{
		OperationID:     result.OperationID.String(),
		WasteID:         result.WasteID.String(),
		CreatedWasteIDs: uuidStrings(result.CreatedWasteIDs),
		Replayed:        result.Replayed,
	})
}

// GetWasteHistory handles GET /api/v1/waste/:id/history - retrieves a lot's audit trail.
func (s *Server) GetWasteHistory(ctx echo.Context) error {
	wasteID, err := parseUUID("wasteId", ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid waste id")
	}

	query, err := queries.NewGetHistoryQuery(wasteID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid history request: "+err.Error())
	}

	entries, err := s.getHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve history")
	}

	response := make([]historyEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = historyEntryResponse{
			OperationID:  entry.OperationID.String(),
			Code:         entry.Code,
			Type:         entry.Type.String(),
			ExecutedAt:   entry.ExecutedAt,
			Quantity:     entry.Quantity,
			Unit:         entry.Unit.String(),
			ExecutedByID: entry.ExecutedByID.String(),
			Notes:        entry.Notes,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetBalance handles GET /api/v1/balance - retrieves ledger rows filtered by
// the optional owner_id, facility_id, location_id, and material_class_id
// query parameters.
func (s *Server) GetBalance(ctx echo.Context) error {
	dimensions := make([]*kernel.UUID, 0, 4)
	for _, param := range []string{"owner_id", "facility_id", "location_id", "material_class_id"} {
		dimension, err := parseOptionalUUID(param, ctx.QueryParam(param))
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid "+param)
		}
		dimensions = append(dimensions, dimension)
	}

	query, err := queries.NewGetBalanceQuery(dimensions[0], dimensions[1], dimensions[2], dimensions[3])
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid balance request: "+err.Error())
	}

	rows, err := s.getBalanceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve balance")
	}

	response := make([]balanceRowResponse, len(rows))
	for i, row := range rows {
		response[i] = balanceRowResponse{
			OwnerID:         row.OwnerID.String(),
			FacilityID:      row.FacilityID.String(),
			LocationID:      row.LocationID.String(),
			MaterialClassID: row.MaterialClassID.String(),
			Generated:       row.Generated,
			InTransit:       row.InTransit,
			Stored:          row.Stored,
			Disposed:        row.Disposed,
			Treated:         row.Treated,
			LastUpdated:     row.LastUpdated,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetListedWaste handles GET /api/v1/waste/listed - retrieves the current sale listings.
func (s *Server) GetListedWaste(ctx echo.Context) error {
	listings, err := s.getListedWasteHandler.Handle(ctx.Request().Context(), queries.NewGetListedWasteQuery())
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve listings")
	}

	response := make([]listedWasteResponse, len(listings))
	for i, listing := range listings {
		response[i] = listedWasteResponse{
			WasteID:         listing.WasteID.String(),
			Code:            listing.Code,
			MaterialClassID: listing.MaterialClassID.String(),
			Quantity:        listing.Quantity,
			Unit:            listing.Unit.String(),
			ListPrice:       listing.ListPrice,
			OwnerID:         listing.OwnerID.String(),
			FacilityID:      listing.FacilityID.String(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ListWasteForSale handles POST /api/v1/waste/:id/listing - lists a stored lot for sale.
func (s *Server) ListWasteForSale(ctx echo.Context) error {
	wasteID, err := parseUUID("wasteId", ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid waste id")
	}

	var request listWasteForSaleRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewListWasteForSaleCommand(wasteID, request.Price)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid listing data: "+err.Error())
	}

	if err = s.listWasteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFromError(err), err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateRoute handles POST /api/v1/routes - plans a new collection route.
func (s *Server) CreateRoute(ctx echo.Context) error {
	var request createRouteRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	driverID, err := parseUUID("driverId", request.DriverID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid driver ID")
	}

	vehicleID, err := parseOptionalUUID("assignedVehicleId", request.AssignedVehicleID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid assigned vehicle id")
	}

	stops := make([]commands.StopSpec, 0, len(request.Stops))
	for _, stop := range request.Stops {
		spec, stopErr := toStopSpec(stop)
		if stopErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid stop: "+stopErr.Error())
		}
		stops = append(stops, spec)
	}

	routeID := kernel.NewUUID()
	cmd, err := commands.NewCreateRouteProcessCommand(routeID, request.Code, driverID, vehicleID, stops)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid route data: "+err.Error())
	}

	if err = s.createRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFromError(err), err.Error())
	}

	return ctx.JSON(http.StatusCreated, createRouteResponse{RouteID: routeID.String()})
}

// StartRoute handles POST /api/v1/routes/:id/start - moves a planned route into progress.
func (s *Server) StartRoute(ctx echo.Context) error {
	routeID, err := parseUUID("routeId", ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid route id")
	}

	cmd, err := commands.NewStartRouteCommand(routeID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid start request: "+err.Error())
	}

	if err = s.startRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFromError(err), err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteStop handles POST /api/v1/routes/:id/stops/:stop_id/complete.
// Waste-action stops carry the management operation to execute in the body.
func (s *Server) CompleteStop(ctx echo.Context) error {
	routeID, err := parseUUID("routeId", ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid route id")
	}

	stopID, err := parseUUID("stopId", ctx.Param("stop_id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid stop id")
	}

	var request completeStopRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	var operationCommand *commands.ExecuteOperationCommand
	if request.Operation != nil {
		operationCmd, cmdErr := request.Operation.toCommand()
		if cmdErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid operation data: "+cmdErr.Error())
		}
		operationCommand = &operationCmd
	}

	cmd, err := commands.NewCompleteStopCommand(routeID, stopID, operationCommand)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid completion data: "+err.Error())
	}

	if err = s.completeStopHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFromError(err), err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelRoute handles POST /api/v1/routes/:id/cancel - cancels a route with a reason.
func (s *Server) CancelRoute(ctx echo.Context) error {
	routeID, err := parseUUID("routeId", ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid route id")
	}

	var request cancelRouteRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewCancelRouteCommand(routeID, request.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid cancellation data: "+err.Error())
	}

	if err = s.cancelRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFromError(err), err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// WatchRoute handles GET /api/v1/routes/:id/events - streams the route's
// status changes as server-sent events until the client disconnects.
func (s *Server) WatchRoute(ctx echo.Context) error {
	routeID, err := parseUUID("routeId", ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid route id")
	}

	events, cancel := s.routeEvents.Subscribe(routeID)
	defer cancel()

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set("Cache-Control", "no-cache")
	response.Header().Set("Connection", "keep-alive")
	response.WriteHeader(http.StatusOK)
	response.Flush()

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case event, open := <-events:
			if !open {
				return nil
			}
			payload, marshalErr := json.Marshal(toRouteChangeEventResponse(event))
			if marshalErr != nil {
				return marshalErr
			}
			if _, writeErr := fmt.Fprintf(response, "data: %s\n\n", payload); writeErr != nil {
				return writeErr
			}
			response.Flush()
		}
	}
}

func toRouteChangeEventResponse(event routeprocess.ChangeEvent) routeChangeEventResponse {
	return routeChangeEventResponse{
		RouteID:    event.RouteID.String(),
		OldStatus:  event.OldStatus.String(),
		NewStatus:  event.NewStatus.String(),
		Reason:     event.Reason,
		OccurredAt: event.OccurredAt,
	}
}

// toStopSpec converts a wire stop to a command stop spec.
func toStopSpec(request stopSpecRequest) (commands.StopSpec, error) {
	locationID, err := parseUUID("locationId", request.LocationID)
	if err != nil {
		return commands.StopSpec{}, err
	}

	responsiblePartyID, err := parseUUID("responsiblePartyId", request.ResponsiblePartyID)
	if err != nil {
		return commands.StopSpec{}, err
	}

	var operationType *operation.Type
	if request.OperationType != "" {
		opType, typeErr := operation.TypeFromString(request.OperationType)
		if typeErr != nil {
			return commands.StopSpec{}, typeErr
		}
		operationType = &opType
	}

	return commands.StopSpec{
		LocationID:         locationID,
		SequenceOrder:      request.SequenceOrder,
		OperationType:      operationType,
		ResponsiblePartyID: responsiblePartyID,
		Notes:              request.Notes,
	}, nil
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}
