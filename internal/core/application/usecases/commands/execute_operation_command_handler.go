package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wastetrack/internal/core/domain/model/balance"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/core/domain/services"
	"wastetrack/internal/core/ports"
	"wastetrack/internal/pkg/errs"
)

// maxConflictAttempts bounds the internal retry loop on optimistic
// concurrency conflicts.
const maxConflictAttempts = 3

// Result is the outcome of one dispatched operation. Replayed is true when
// the idempotency key was seen before and the stored outcome was returned
// without re-executing anything.
type Result struct {
	OperationID     kernel.UUID
	WasteID         kernel.UUID
	CreatedWasteIDs []kernel.UUID
	Replayed        bool
}

// ExecuteOperationCommandHandler is the single mutation entry point of the
// custody core. Every operation runs as one transaction over the waste
// record, the ledger rows it touches, and the append-only operation log.
//
// Conflicting writers are detected through version checks in the
// repositories; the handler retries a conflicted execution up to
// maxConflictAttempts times before surfacing the conflict.
type ExecuteOperationCommandHandler struct {
	uowFactory OperationUoWFactory
	engine     services.TransformationEngine
}

// NewExecuteOperationCommandHandler creates a handler for operation dispatch.
// Requires an OperationUoWFactory for transactional persistence.
func NewExecuteOperationCommandHandler(uowFactory OperationUoWFactory) ExecuteOperationCommandHandler {
	return ExecuteOperationCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewTransformationEngine(),
	}
}

// Handle processes the operation command. A retried command with a known
// idempotency key replays the stored result and changes nothing.
func (h *ExecuteOperationCommandHandler) Handle(
	ctx context.Context, cmd ExecuteOperationCommand,
) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}

	var lastErr error
	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		result, err := h.execute(ctx, cmd)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, errs.ErrConcurrencyConflict) {
			return Result{}, err
		}
		lastErr = err
	}

	return Result{}, lastErr
}

func (h *ExecuteOperationCommandHandler) execute(
	ctx context.Context, cmd ExecuteOperationCommand,
) (Result, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	operationRepo := uow.OperationRepository()

	prior, err := operationRepo.GetByIdempotencyKey(ctx, cmd.IdempotencyKey())
	if err == nil {
		return h.replayResult(ctx, uow, prior)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return Result{}, err
	}

	operationID := kernel.NewUUID()
	executedAt := time.Now().UTC()

	outcome, err := h.apply(ctx, uow, cmd, operationID, executedAt)
	if err != nil {
		return Result{}, err
	}

	outcome.details.Notes = cmd.Notes()
	fact, err := operation.NewManagementOperation(
		operationID,
		operationCode(cmd.Params().Type(), operationID),
		cmd.Params().Type(),
		executedAt,
		outcome.wasteID,
		outcome.quantity,
		outcome.unit,
		cmd.ExecutedByID(),
		cmd.IdempotencyKey(),
		outcome.details,
	)
	if err != nil {
		return Result{}, err
	}

	if err = operationRepo.Add(ctx, fact); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return Result{
		OperationID:     operationID,
		WasteID:         outcome.wasteID,
		CreatedWasteIDs: outcome.createdWasteIDs,
	}, nil
}

// replayResult rebuilds the stored outcome of an already-executed operation.
// A replayed transform recovers its descendant ids from the lineage the
// original execution recorded.
func (h *ExecuteOperationCommandHandler) replayResult(
	ctx context.Context, uow OperationUoW, prior *operation.ManagementOperation,
) (Result, error) {
	result := Result{OperationID: prior.ID(), WasteID: prior.WasteID(), Replayed: true}
	if prior.Type() != operation.TypeTransform {
		return result, nil
	}

	descendants, err := uow.WasteRepository().GetDescendants(ctx, prior.WasteID())
	if err != nil {
		return Result{}, err
	}
	for _, descendant := range descendants {
		if origin := descendant.OriginOperationID(); origin != nil && origin.IsEqual(prior.ID()) {
			result.CreatedWasteIDs = append(result.CreatedWasteIDs, descendant.ID())
		}
	}

	return result, nil
}

// operationOutcome carries what the type-specific branch produced for the
// audit fact.
type operationOutcome struct {
	wasteID         kernel.UUID
	quantity        kernel.Quantity
	unit            waste.Unit
	details         operation.Details
	createdWasteIDs []kernel.UUID
}

//nolint:gocyclo //one branch per operation type, each branch is trivial
func (h *ExecuteOperationCommandHandler) apply(
	ctx context.Context,
	uow OperationUoW,
	cmd ExecuteOperationCommand,
	operationID kernel.UUID,
	executedAt time.Time,
) (operationOutcome, error) {
	switch p := cmd.Params().(type) {
	case operation.GenerateParams:
		return h.applyGenerate(ctx, uow, p, executedAt)
	case operation.CollectParams:
		return h.applyCollect(ctx, uow, p, executedAt)
	case operation.TransportParams:
		return h.applyTransport(ctx, uow, p)
	case operation.ReceiveParams:
		return h.applyReceive(ctx, uow, p, executedAt)
	case operation.StoreParams:
		return h.applyStore(ctx, uow, p, executedAt)
	case operation.TransformParams:
		return h.applyTransform(ctx, uow, p, operationID, executedAt)
	case operation.DisposeParams:
		return h.applyDispose(ctx, uow, p, executedAt)
	case operation.SellParams:
		return h.applySell(ctx, uow, p, executedAt)
	case operation.DeliverParams:
		return h.applyDeliver(ctx, uow, p, executedAt)
	case operation.ClassifyParams:
		return h.applyClassify(ctx, uow, p, executedAt)
	case operation.ReuseParams:
		return h.applyReuse(ctx, uow, p, executedAt)
	default:
		return operationOutcome{}, errs.NewValueIsInvalidError("params")
	}
}

func (h *ExecuteOperationCommandHandler) applyGenerate(
	ctx context.Context, uow OperationUoW, p operation.GenerateParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := waste.NewWasteRecord(
		p.WasteID, p.Code, p.MaterialClassID, p.Quantity, p.Unit,
		p.GeneratorID, p.LocationID, p.FacilityID, p.IsHazardous, executedAt,
	)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = uow.WasteRepository().Add(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	key, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}
	err = adjustBalance(ctx, uow.BalanceRepository(), key, func(row *balance.Balance) error {
		return row.Credit(balance.CategoryGenerated, record.Quantity(), executedAt)
	})
	if err != nil {
		return operationOutcome{}, err
	}

	return outcomeFor(record, operation.Details{}), nil
}

func (h *ExecuteOperationCommandHandler) applyCollect(
	ctx context.Context, uow OperationUoW, p operation.CollectParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}
	if record.Quantity().LessThan(p.Quantity) {
		return operationOutcome{}, errs.NewInsufficientQuantityError(
			"quantity", p.Quantity.String(), record.Quantity().String(),
		)
	}
	if !p.Quantity.IsEqual(record.Quantity()) {
		return operationOutcome{}, errs.NewValueIsInvalidError("quantity")
	}

	priorStatus := record.Status()
	key, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Collect(); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	err = adjustBalance(ctx, uow.BalanceRepository(), key, func(row *balance.Balance) error {
		if priorStatus == waste.Stored {
			if err := row.Debit(balance.CategoryStored, record.Quantity(), executedAt); err != nil {
				return err
			}
		}
		return row.Credit(balance.CategoryInTransit, record.Quantity(), executedAt)
	})
	if err != nil {
		return operationOutcome{}, err
	}

	return outcomeFor(record, operation.Details{VehicleID: &p.VehicleID}), nil
}

func (h *ExecuteOperationCommandHandler) applyTransport(
	ctx context.Context, uow OperationUoW, p operation.TransportParams,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Transport(); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	// In-transit quantity stays accounted at the collection facility until
	// it is received, so a transport hop moves no ledger bucket.
	return outcomeFor(record, operation.Details{
		OriginLocationID:      &p.OriginLocationID,
		OriginFacilityID:      &p.OriginFacilityID,
		DestinationLocationID: &p.DestinationLocationID,
		DestinationFacilityID: &p.DestinationFacilityID,
		VehicleID:             &p.VehicleID,
	}), nil
}

func (h *ExecuteOperationCommandHandler) applyReceive(
	ctx context.Context, uow OperationUoW, p operation.ReceiveParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}
	if record.Quantity().LessThan(p.Quantity) {
		return operationOutcome{}, errs.NewInsufficientQuantityError(
			"quantity", p.Quantity.String(), record.Quantity().String(),
		)
	}
	if !p.Quantity.IsEqual(record.Quantity()) {
		return operationOutcome{}, errs.NewValueIsInvalidError("quantity")
	}

	fromKey, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Receive(p.DestinationLocationID, p.DestinationFacilityID); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	toKey, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}
	err = moveQuantity(
		ctx, uow.BalanceRepository(),
		fromKey, balance.CategoryInTransit,
		toKey, balance.CategoryStored,
		record.Quantity(), executedAt,
	)
	if err != nil {
		return operationOutcome{}, err
	}

	return outcomeFor(record, operation.Details{
		DestinationLocationID: &p.DestinationLocationID,
		DestinationFacilityID: &p.DestinationFacilityID,
	}), nil
}

func (h *ExecuteOperationCommandHandler) applyStore(
	ctx context.Context, uow OperationUoW, p operation.StoreParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	fromKey, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.StoreAt(p.DestinationLocationID, p.DestinationFacilityID); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	toKey, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}
	if !fromKey.IsEqual(toKey) {
		err = moveQuantity(
			ctx, uow.BalanceRepository(),
			fromKey, balance.CategoryStored,
			toKey, balance.CategoryStored,
			record.Quantity(), executedAt,
		)
		if err != nil {
			return operationOutcome{}, err
		}
	}

	return outcomeFor(record, operation.Details{
		DestinationLocationID: &p.DestinationLocationID,
		DestinationFacilityID: &p.DestinationFacilityID,
	}), nil
}

func (h *ExecuteOperationCommandHandler) applyTransform(
	ctx context.Context,
	uow OperationUoW,
	p operation.TransformParams,
	operationID kernel.UUID,
	executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	priorStatus := record.Status()
	key, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	descendants, err := h.engine.Transform(record, operationID, p.Outputs, executedAt)
	if err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	err = adjustBalance(ctx, uow.BalanceRepository(), key, func(row *balance.Balance) error {
		// Legacy lots restored in treatment were never credited into a live
		// bucket, so only stored quantity is debited.
		if priorStatus == waste.Stored {
			if err := row.Debit(balance.CategoryStored, record.Quantity(), executedAt); err != nil {
				return err
			}
		}
		return row.Credit(balance.CategoryTreated, record.Quantity(), executedAt)
	})
	if err != nil {
		return operationOutcome{}, err
	}

	createdIDs := make([]kernel.UUID, 0, len(descendants))
	for _, descendant := range descendants {
		if err = uow.WasteRepository().Add(ctx, descendant); err != nil {
			return operationOutcome{}, err
		}

		descendantKey, err := custodyKey(descendant)
		if err != nil {
			return operationOutcome{}, err
		}
		err = adjustBalance(ctx, uow.BalanceRepository(), descendantKey, func(row *balance.Balance) error {
			if err := row.Credit(balance.CategoryGenerated, descendant.Quantity(), executedAt); err != nil {
				return err
			}
			if descendant.Status() == waste.Stored {
				return row.Credit(balance.CategoryStored, descendant.Quantity(), executedAt)
			}
			return nil
		})
		if err != nil {
			return operationOutcome{}, err
		}

		createdIDs = append(createdIDs, descendant.ID())
	}

	outcome := outcomeFor(record, operation.Details{TreatmentID: &p.TreatmentID})
	outcome.createdWasteIDs = createdIDs
	return outcome, nil
}

func (h *ExecuteOperationCommandHandler) applyDispose(
	ctx context.Context, uow OperationUoW, p operation.DisposeParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	key, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Dispose(); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	err = adjustBalance(ctx, uow.BalanceRepository(), key, func(row *balance.Balance) error {
		if err := row.Debit(balance.CategoryStored, record.Quantity(), executedAt); err != nil {
			return err
		}
		return row.Credit(balance.CategoryDisposed, record.Quantity(), executedAt)
	})
	if err != nil {
		return operationOutcome{}, err
	}

	return outcomeFor(record, operation.Details{
		TreatmentID:   p.TreatmentID,
		CertificateID: p.CertificateID,
	}), nil
}

func (h *ExecuteOperationCommandHandler) applySell(
	ctx context.Context, uow OperationUoW, p operation.SellParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	// The ledger keeps the sold quantity under the seller's scope.
	sellerKey, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Sell(p.BuyerID); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	err = adjustBalance(ctx, uow.BalanceRepository(), sellerKey, func(row *balance.Balance) error {
		if err := row.Debit(balance.CategoryStored, record.Quantity(), executedAt); err != nil {
			return err
		}
		return row.Credit(balance.CategoryTreated, record.Quantity(), executedAt)
	})
	if err != nil {
		return operationOutcome{}, err
	}

	return outcomeFor(record, operation.Details{
		RecipientID:    &p.BuyerID,
		RelatedOrderID: p.RelatedOrderID,
	}), nil
}

func (h *ExecuteOperationCommandHandler) applyDeliver(
	ctx context.Context, uow OperationUoW, p operation.DeliverParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	priorStatus := record.Status()
	key, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Deliver(p.DestinationLocationID, p.DestinationFacilityID); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	category := balance.CategoryStored
	if priorStatus == waste.InTransit {
		category = balance.CategoryInTransit
	}
	err = adjustBalance(ctx, uow.BalanceRepository(), key, func(row *balance.Balance) error {
		if err := row.Debit(category, record.Quantity(), executedAt); err != nil {
			return err
		}
		return row.Credit(balance.CategoryTreated, record.Quantity(), executedAt)
	})
	if err != nil {
		return operationOutcome{}, err
	}

	return outcomeFor(record, operation.Details{
		DestinationLocationID: &p.DestinationLocationID,
		DestinationFacilityID: &p.DestinationFacilityID,
		RecipientID:           &p.RecipientID,
		VehicleID:             p.VehicleID,
		RelatedOrderID:        p.RelatedOrderID,
	}), nil
}

func (h *ExecuteOperationCommandHandler) applyClassify(
	ctx context.Context, uow OperationUoW, p operation.ClassifyParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	priorStatus := record.Status()
	fromKey, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Classify(p.MaterialClassID, p.ClassifierID); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	// Reclassification moves the lot's active bucket between material-class
	// rows. The cumulative Generated bucket stays where it was credited.
	var category balance.Category
	switch priorStatus {
	case waste.InTransit:
		category = balance.CategoryInTransit
	case waste.Stored:
		category = balance.CategoryStored
	default:
		return outcomeFor(record, operation.Details{}), nil
	}

	toKey, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}
	if !fromKey.IsEqual(toKey) {
		err = moveQuantity(
			ctx, uow.BalanceRepository(),
			fromKey, category, toKey, category,
			record.Quantity(), executedAt,
		)
		if err != nil {
			return operationOutcome{}, err
		}
	}

	return outcomeFor(record, operation.Details{}), nil
}

func (h *ExecuteOperationCommandHandler) applyReuse(
	ctx context.Context, uow OperationUoW, p operation.ReuseParams, executedAt time.Time,
) (operationOutcome, error) {
	record, err := uow.WasteRepository().Get(ctx, p.WasteID)
	if err != nil {
		return operationOutcome{}, err
	}

	key, err := custodyKey(record)
	if err != nil {
		return operationOutcome{}, err
	}

	if err = record.Reuse(); err != nil {
		return operationOutcome{}, err
	}
	if err = uow.WasteRepository().Update(ctx, record); err != nil {
		return operationOutcome{}, err
	}

	err = adjustBalance(ctx, uow.BalanceRepository(), key, func(row *balance.Balance) error {
		if err := row.Debit(balance.CategoryStored, record.Quantity(), executedAt); err != nil {
			return err
		}
		return row.Credit(balance.CategoryTreated, record.Quantity(), executedAt)
	})
	if err != nil {
		return operationOutcome{}, err
	}

	return outcomeFor(record, operation.Details{}), nil
}

func outcomeFor(record *waste.WasteRecord, details operation.Details) operationOutcome {
	return operationOutcome{
		wasteID:  record.ID(),
		quantity: record.Quantity(),
		unit:     record.Unit(),
		details:  details,
	}
}

func custodyKey(record *waste.WasteRecord) (balance.Key, error) {
	return balance.NewKey(
		record.CurrentOwnerID(),
		record.CurrentFacilityID(),
		record.CurrentLocationID(),
		record.MaterialClassID(),
	)
}

func adjustBalance(
	ctx context.Context,
	repo ports.BalanceRepository,
	key balance.Key,
	adjust func(*balance.Balance) error,
) error {
	row, err := repo.GetOrCreate(ctx, key)
	if err != nil {
		return err
	}
	if err = adjust(row); err != nil {
		return err
	}
	return repo.Update(ctx, row)
}

func moveQuantity(
	ctx context.Context,
	repo ports.BalanceRepository,
	fromKey balance.Key,
	fromCategory balance.Category,
	toKey balance.Key,
	toCategory balance.Category,
	quantity kernel.Quantity,
	at time.Time,
) error {
	if fromKey.IsEqual(toKey) {
		return adjustBalance(ctx, repo, fromKey, func(row *balance.Balance) error {
			if err := row.Debit(fromCategory, quantity, at); err != nil {
				return err
			}
			return row.Credit(toCategory, quantity, at)
		})
	}

	err := adjustBalance(ctx, repo, fromKey, func(row *balance.Balance) error {
		return row.Debit(fromCategory, quantity, at)
	})
	if err != nil {
		return err
	}
	return adjustBalance(ctx, repo, toKey, func(row *balance.Balance) error {
		return row.Credit(toCategory, quantity, at)
	})
}

func operationCode(operationType operation.Type, operationID kernel.UUID) string {
	return fmt.Sprintf("OP-%s-%s", strings.ToUpper(operationType.String()), operationID.String()[:8])
}
