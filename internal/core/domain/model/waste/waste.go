package waste

import (
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/errs"
	"wastetrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// Domain errors for waste lot operations.
var (
	// ErrWasteRecordIsNotConstructed is returned when using an improperly initialized WasteRecord.
	ErrWasteRecordIsNotConstructed = errors.New(
		"WasteRecord must be created via NewWasteRecord, NewDerivedRecord, or RestoreWasteRecord",
	)
	// ErrCodeIsRequired is returned when attempting to create a lot without a tracking code.
	ErrCodeIsRequired = errs.NewValueIsRequiredError("code")
	// ErrQuantityIsRequired is returned when attempting to create a lot with a non-positive quantity.
	ErrQuantityIsRequired = errs.NewValueIsRequiredError("quantity")
	// ErrNotListedForSale is returned when selling a lot that has not been listed.
	ErrNotListedForSale = errs.NewValueIsInvalidError("lot is not listed for sale")
	// ErrListPriceIsRequired is returned when listing a lot without a positive price.
	ErrListPriceIsRequired = errs.NewValueIsRequiredError("listPrice")
)

// WasteRecord represents one discrete, individually tracked lot of a single
// waste material class. It is the aggregate root of the custody chain: every
// physical event in a lot's life (generation, collection, transport, reception,
// storage, transformation, disposal, sale, delivery) mutates this aggregate
// through a validated lifecycle method.
//
// Invariants:
//   - Must have a valid unique identifier and a non-empty tracking code
//   - Quantity is strictly positive and never goes negative
//   - Status changes only through transitions permitted by the Status state machine
//   - Custody (owner, location, facility) changes only through lifecycle methods
//   - A lot is never deleted; terminal statuses end its lifecycle
//
// Concurrency: the aggregate carries an optimistic version token. Repositories
// compare it on update so that at most one in-flight mutation per lot can win;
// the loser receives ConcurrencyConflictError and must re-read and retry.
type WasteRecord struct {
	// id uniquely identifies the lot
	id kernel.UUID
	// code is the human-readable tracking code printed on manifests
	code string
	// materialClassID references the material classification of the lot
	materialClassID kernel.UUID
	// quantity is the tracked amount, always positive
	quantity kernel.Quantity
	// unit is the measurement unit of quantity
	unit Unit
	// status is the current lifecycle state
	status Status
	// generatorID references the party that generated the lot
	generatorID kernel.UUID
	// generatedAt is when the lot came into existence
	generatedAt time.Time
	// currentOwnerID references the party currently responsible for the lot
	currentOwnerID kernel.UUID
	// currentLocationID references the location where the lot is accounted
	currentLocationID kernel.UUID
	// currentFacilityID references the facility where the lot is accounted
	currentFacilityID kernel.UUID
	// isHazardous marks lots subject to hazardous-material handling rules
	isHazardous bool
	// isAvailableForSale marks lots listed on the materials bank
	isAvailableForSale bool
	// listPrice is the asking price for listed lots
	listPrice decimal.Decimal
	// sourceWasteID references the lot this one was transformed from, if any
	sourceWasteID *kernel.UUID
	// originOperationID references the management operation that created this lot, if any
	originOperationID *kernel.UUID
	// version is the optimistic concurrency token
	version int
	// guard ensures the record was properly constructed
	guard guard.ConstructorGuard
}

// NewWasteRecord creates a freshly generated lot in Generated status.
// The generator becomes the current owner and the lot is accounted at the
// given location and facility.
func NewWasteRecord(
	id kernel.UUID,
	code string,
	materialClassID kernel.UUID,
	quantity kernel.Quantity,
	unit Unit,
	generatorID kernel.UUID,
	locationID kernel.UUID,
	facilityID kernel.UUID,
	isHazardous bool,
	generatedAt time.Time,
) (*WasteRecord, error) {
	record := &WasteRecord{
		status:      Generated,
		isHazardous: isHazardous,
		generatedAt: generatedAt,
		version:     1,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		record.setID(id),
		record.setCode(code),
		record.setMaterialClassID(materialClassID),
		record.setQuantity(quantity),
		record.setUnit(unit),
		record.setGeneratorID(generatorID),
		record.setCustody(generatorID, locationID, facilityID),
	); err != nil {
		return nil, err
	}

	return record, nil
}

// NewDerivedRecord creates a descendant lot produced by transforming a source
// lot. The descendant starts in Generated or Stored status (asStored selects
// the latter), inherits the source's custody, and carries lineage references
// to the source lot and to the management operation that created it.
func NewDerivedRecord(
	id kernel.UUID,
	code string,
	materialClassID kernel.UUID,
	quantity kernel.Quantity,
	unit Unit,
	source *WasteRecord,
	operationID kernel.UUID,
	asStored bool,
	at time.Time,
) (*WasteRecord, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if err := operationID.Validate(); err != nil {
		return nil, err
	}

	record, err := NewWasteRecord(
		id,
		code,
		materialClassID,
		quantity,
		unit,
		source.CurrentOwnerID(),
		source.CurrentLocationID(),
		source.CurrentFacilityID(),
		source.IsHazardous(),
		at,
	)
	if err != nil {
		return nil, err
	}

	if asStored {
		record.status = Stored
	}

	sourceID := source.ID()
	record.sourceWasteID = &sourceID
	record.originOperationID = &operationID
	return record, nil
}

// RestoreWasteRecord reconstructs a WasteRecord from persistent storage,
// preserving its lifecycle status, custody, sale listing, lineage, and
// optimistic version token. The restored record behaves identically to one
// built through normal domain operations.
func RestoreWasteRecord(
	id kernel.UUID,
	code string,
	materialClassID kernel.UUID,
	quantity kernel.Quantity,
	unit Unit,
	status Status,
	generatorID kernel.UUID,
	generatedAt time.Time,
	ownerID kernel.UUID,
	locationID kernel.UUID,
	facilityID kernel.UUID,
	isHazardous bool,
	isAvailableForSale bool,
	listPrice decimal.Decimal,
	sourceWasteID *kernel.UUID,
	originOperationID *kernel.UUID,
	version int,
) (*WasteRecord, error) {
	record := &WasteRecord{
		isHazardous:        isHazardous,
		isAvailableForSale: isAvailableForSale,
		listPrice:          listPrice,
		generatedAt:        generatedAt,
		sourceWasteID:      sourceWasteID,
		originOperationID:  originOperationID,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		record.setID(id),
		record.setCode(code),
		record.setMaterialClassID(materialClassID),
		record.setQuantity(quantity),
		record.setUnit(unit),
		record.setStatus(status),
		record.setGeneratorID(generatorID),
		record.setCustody(ownerID, locationID, facilityID),
		record.setVersion(version),
	); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate ensures the WasteRecord instance was properly constructed.
func (w *WasteRecord) Validate() error {
	if w == nil {
		return ErrWasteRecordIsNotConstructed
	}
	return w.guard.Validate(ErrWasteRecordIsNotConstructed)
}

// IsEqual compares two lots by their unique identifiers.
func (w *WasteRecord) IsEqual(other *WasteRecord) bool {
	return other != nil && w.id.IsEqual(other.id)
}

// ID returns the lot's unique identifier.
func (w *WasteRecord) ID() kernel.UUID { return w.id }

// Code returns the lot's tracking code.
func (w *WasteRecord) Code() string { return w.code }

// MaterialClassID returns the lot's material classification reference.
func (w *WasteRecord) MaterialClassID() kernel.UUID { return w.materialClassID }

// Quantity returns the tracked amount of the lot.
func (w *WasteRecord) Quantity() kernel.Quantity { return w.quantity }

// Unit returns the measurement unit of the lot's quantity.
func (w *WasteRecord) Unit() Unit { return w.unit }

// Status returns the current lifecycle status.
func (w *WasteRecord) Status() Status { return w.status }

// GeneratorID returns the party that generated the lot.
func (w *WasteRecord) GeneratorID() kernel.UUID { return w.generatorID }

// GeneratedAt returns when the lot came into existence.
func (w *WasteRecord) GeneratedAt() time.Time { return w.generatedAt }

// CurrentOwnerID returns the party currently responsible for the lot.
func (w *WasteRecord) CurrentOwnerID() kernel.UUID { return w.currentOwnerID }

// CurrentLocationID returns the location where the lot is currently accounted.
func (w *WasteRecord) CurrentLocationID() kernel.UUID { return w.currentLocationID }

// CurrentFacilityID returns the facility where the lot is currently accounted.
func (w *WasteRecord) CurrentFacilityID() kernel.UUID { return w.currentFacilityID }

// IsHazardous reports whether the lot requires hazardous-material handling.
func (w *WasteRecord) IsHazardous() bool { return w.isHazardous }

// IsAvailableForSale reports whether the lot is listed on the materials bank.
func (w *WasteRecord) IsAvailableForSale() bool { return w.isAvailableForSale }

// ListPrice returns the asking price of a listed lot.
func (w *WasteRecord) ListPrice() decimal.Decimal { return w.listPrice }

// SourceWasteID returns the lot this one was derived from, or nil.
func (w *WasteRecord) SourceWasteID() *kernel.UUID { return w.sourceWasteID }

// OriginOperationID returns the management operation that created this lot, or nil.
func (w *WasteRecord) OriginOperationID() *kernel.UUID { return w.originOperationID }

// Version returns the optimistic concurrency token.
func (w *WasteRecord) Version() int { return w.version }

// Collect marks the lot as picked up for transport.
// Permitted from Generated or Stored; the lot keeps its current custody
// accounting until it is received at a destination facility.
func (w *WasteRecord) Collect() error {
	newStatus, err := w.status.Collect()
	if err != nil {
		return err
	}
	w.status = newStatus
	return nil
}

// Transport records an intermediate hop while the lot is in transit.
// The status stays InTransit; the hop's origin and destination live on the
// audit fact, not on the lot, so the in-transit balance remains accounted at
// the facility where the lot was collected.
func (w *WasteRecord) Transport() error {
	newStatus, err := w.status.Transport()
	if err != nil {
		return err
	}
	w.status = newStatus
	return nil
}

// Receive marks the lot as stored at the destination facility, moving its
// custody accounting there. Permitted from InTransit.
func (w *WasteRecord) Receive(locationID, facilityID kernel.UUID) error {
	if err := errors.Join(locationID.Validate(), facilityID.Validate()); err != nil {
		return err
	}

	newStatus, err := w.status.Receive()
	if err != nil {
		return err
	}

	w.status = newStatus
	w.currentLocationID = locationID
	w.currentFacilityID = facilityID
	return nil
}

// StoreAt relocates a stored lot to another location or facility.
// Permitted from Stored only; the status does not change.
func (w *WasteRecord) StoreAt(locationID, facilityID kernel.UUID) error {
	if err := errors.Join(locationID.Validate(), facilityID.Validate()); err != nil {
		return err
	}

	newStatus, err := w.status.Store()
	if err != nil {
		return err
	}

	w.status = newStatus
	w.currentLocationID = locationID
	w.currentFacilityID = facilityID
	return nil
}

// MarkTransformed finalizes the lot as the consumed source of a transformation.
// Terminal; descendants are created separately with lineage to this lot.
func (w *WasteRecord) MarkTransformed() error {
	newStatus, err := w.status.Transform()
	if err != nil {
		return err
	}
	w.status = newStatus
	return nil
}

// Dispose finalizes the lot as disposed. Terminal.
func (w *WasteRecord) Dispose() error {
	newStatus, err := w.status.Dispose()
	if err != nil {
		return err
	}
	w.status = newStatus
	return nil
}

// ListForSale lists a stored lot on the materials bank with a positive asking price.
func (w *WasteRecord) ListForSale(price decimal.Decimal) error {
	if w.status != Stored {
		return errs.NewInvalidTransitionError("ListForSale", w.status.String())
	}
	if !price.IsPositive() {
		return ErrListPriceIsRequired
	}

	w.isAvailableForSale = true
	w.listPrice = price
	return nil
}

// Sell finalizes the lot as sold, transferring ownership to the buyer.
// The lot must be listed for sale. Terminal.
func (w *WasteRecord) Sell(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}
	if !w.isAvailableForSale {
		return ErrNotListedForSale
	}

	newStatus, err := w.status.Sell()
	if err != nil {
		return err
	}

	w.status = newStatus
	w.currentOwnerID = buyerID
	w.isAvailableForSale = false
	return nil
}

// Deliver finalizes the lot as handed over to its recipient at the destination.
// Permitted from Stored or InTransit. Terminal.
func (w *WasteRecord) Deliver(locationID, facilityID kernel.UUID) error {
	if err := errors.Join(locationID.Validate(), facilityID.Validate()); err != nil {
		return err
	}

	newStatus, err := w.status.Deliver()
	if err != nil {
		return err
	}

	w.status = newStatus
	w.currentLocationID = locationID
	w.currentFacilityID = facilityID
	return nil
}

// Reuse finalizes the lot as re-entered into use without further treatment. Terminal.
func (w *WasteRecord) Reuse() error {
	newStatus, err := w.status.Reuse()
	if err != nil {
		return err
	}
	w.status = newStatus
	return nil
}

// Classify assigns a material classification to the lot.
// The status does not change; classification requires a responsible
// classifier and is rejected once the lot reached a terminal status.
func (w *WasteRecord) Classify(materialClassID, classifierID kernel.UUID) error {
	if err := classifierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("classifierId", err)
	}
	if err := materialClassID.Validate(); err != nil {
		return err
	}
	if w.status.IsTerminal() {
		return errs.NewInvalidTransitionError("Classify", w.status.String())
	}

	w.materialClassID = materialClassID
	return nil
}

func (w *WasteRecord) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *WasteRecord) setCode(code string) error {
	if code == "" {
		return ErrCodeIsRequired
	}
	w.code = code
	return nil
}

func (w *WasteRecord) setMaterialClassID(materialClassID kernel.UUID) error {
	if err := materialClassID.Validate(); err != nil {
		return err
	}
	w.materialClassID = materialClassID
	return nil
}

func (w *WasteRecord) setQuantity(quantity kernel.Quantity) error {
	if !quantity.IsPositive() {
		return ErrQuantityIsRequired
	}
	w.quantity = quantity
	return nil
}

func (w *WasteRecord) setUnit(unit Unit) error {
	if err := unit.Validate(); err != nil {
		return err
	}
	w.unit = unit
	return nil
}

func (w *WasteRecord) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	w.status = status
	return nil
}

func (w *WasteRecord) setGeneratorID(generatorID kernel.UUID) error {
	if err := generatorID.Validate(); err != nil {
		return err
	}
	w.generatorID = generatorID
	return nil
}

func (w *WasteRecord) setCustody(ownerID, locationID, facilityID kernel.UUID) error {
	if err := errors.Join(ownerID.Validate(), locationID.Validate(), facilityID.Validate()); err != nil {
		return err
	}
	w.currentOwnerID = ownerID
	w.currentLocationID = locationID
	w.currentFacilityID = facilityID
	return nil
}

func (w *WasteRecord) setVersion(version int) error {
	if version < 1 {
		return errs.NewVersionIsInvalidError("version")
	}
	w.version = version
	return nil
}
