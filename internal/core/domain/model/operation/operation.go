package operation

import (
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/errs"
	"wastetrack/internal/pkg/guard"
)

// ErrManagementOperationIsNotConstructed is returned when using an improperly
// initialized ManagementOperation.
var ErrManagementOperationIsNotConstructed = errors.New(
	"ManagementOperation must be created via NewManagementOperation or RestoreManagementOperation",
)

// Details carries the optional references of a management operation.
// Which fields are meaningful depends on the operation type: a transport hop
// has origin, destination, and vehicle; a disposal has treatment and
// certificate; a sale has a related order.
type Details struct {
	OriginLocationID      *kernel.UUID
	OriginFacilityID      *kernel.UUID
	DestinationLocationID *kernel.UUID
	DestinationFacilityID *kernel.UUID
	RelatedOrderID        *kernel.UUID
	VehicleID             *kernel.UUID
	TreatmentID           *kernel.UUID
	CertificateID         *kernel.UUID
	RecipientID           *kernel.UUID
	Notes                 string
}

// validate checks every supplied optional reference.
func (d Details) validate() error {
	var err error
	for _, ref := range []*kernel.UUID{
		d.OriginLocationID, d.OriginFacilityID,
		d.DestinationLocationID, d.DestinationFacilityID,
		d.RelatedOrderID, d.VehicleID, d.TreatmentID, d.CertificateID, d.RecipientID,
	} {
		if ref != nil {
			err = errors.Join(err, ref.Validate())
		}
	}
	return err
}

// ManagementOperation is the append-only audit fact recorded for every
// successful management operation. It is immutable once created and is
// identified by an idempotency key so a retried call with the same key can be
// recognized and answered with the prior result instead of double counting.
type ManagementOperation struct {
	id             kernel.UUID
	code           string
	opType         Type
	executedAt     time.Time
	wasteID        kernel.UUID
	quantity       kernel.Quantity
	unit           waste.Unit
	executedByID   kernel.UUID
	details        Details
	idempotencyKey kernel.UUID
	guard          guard.ConstructorGuard
}

// NewManagementOperation creates an audit fact for one executed operation.
// All identifier arguments are required; optional references travel in details.
func NewManagementOperation(
	id kernel.UUID,
	code string,
	opType Type,
	executedAt time.Time,
	wasteID kernel.UUID,
	quantity kernel.Quantity,
	unit waste.Unit,
	executedByID kernel.UUID,
	idempotencyKey kernel.UUID,
	details Details,
) (*ManagementOperation, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if !quantity.IsPositive() {
		return nil, errs.NewValueIsRequiredError("quantity")
	}

	if err := errors.Join(
		id.Validate(),
		opType.Validate(),
		wasteID.Validate(),
		unit.Validate(),
		executedByID.Validate(),
		idempotencyKey.Validate(),
		details.validate(),
	); err != nil {
		return nil, err
	}

	return &ManagementOperation{
		id:             id,
		code:           code,
		opType:         opType,
		executedAt:     executedAt,
		wasteID:        wasteID,
		quantity:       quantity,
		unit:           unit,
		executedByID:   executedByID,
		details:        details,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// RestoreManagementOperation reconstructs an audit fact from persistent storage.
func RestoreManagementOperation(
	id kernel.UUID,
	code string,
	opType Type,
	executedAt time.Time,
	wasteID kernel.UUID,
	quantity kernel.Quantity,
	unit waste.Unit,
	executedByID kernel.UUID,
	idempotencyKey kernel.UUID,
	details Details,
) (*ManagementOperation, error) {
	return NewManagementOperation(
		id, code, opType, executedAt, wasteID, quantity, unit, executedByID, idempotencyKey, details,
	)
}

// Validate ensures the operation was properly constructed.
func (o *ManagementOperation) Validate() error {
	if o == nil {
		return ErrManagementOperationIsNotConstructed
	}
	return o.guard.Validate(ErrManagementOperationIsNotConstructed)
}

// ID returns the operation's unique identifier.
func (o *ManagementOperation) ID() kernel.UUID { return o.id }

// Code returns the operation's human-readable code.
func (o *ManagementOperation) Code() string { return o.code }

// Type returns the operation kind.
func (o *ManagementOperation) Type() Type { return o.opType }

// ExecutedAt returns when the operation was executed.
func (o *ManagementOperation) ExecutedAt() time.Time { return o.executedAt }

// WasteID returns the lot the operation was executed against.
func (o *ManagementOperation) WasteID() kernel.UUID { return o.wasteID }

// Quantity returns the amount the operation moved.
func (o *ManagementOperation) Quantity() kernel.Quantity { return o.quantity }

// Unit returns the measurement unit of the moved amount.
func (o *ManagementOperation) Unit() waste.Unit { return o.unit }

// ExecutedByID returns the actor that executed the operation.
func (o *ManagementOperation) ExecutedByID() kernel.UUID { return o.executedByID }

// Details returns the operation's optional references.
func (o *ManagementOperation) Details() Details { return o.details }

// IdempotencyKey returns the caller-supplied retry key.
func (o *ManagementOperation) IdempotencyKey() kernel.UUID { return o.idempotencyKey }
