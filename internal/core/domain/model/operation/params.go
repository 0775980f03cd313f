package operation

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Params is the tagged union of operation-specific parameter shapes.
// The dispatcher matches on the concrete type exhaustively; the union is
// sealed so no parameter shape can exist outside this package.
//
// Each shape validates its own required fields; cross-aggregate preconditions
// (quantity availability, lifecycle legality) remain with the dispatcher.
type Params interface {
	// Type returns the operation kind this parameter shape belongs to.
	Type() Type
	// Validate checks the shape's required fields.
	Validate() error

	isParams()
}

// GenerateParams registers a new waste lot at its generator.
type GenerateParams struct {
	WasteID         kernel.UUID
	Code            string
	MaterialClassID kernel.UUID
	Quantity        kernel.Quantity
	Unit            waste.Unit
	GeneratorID     kernel.UUID
	LocationID      kernel.UUID
	FacilityID      kernel.UUID
	IsHazardous     bool
}

func (GenerateParams) Type() Type { return TypeGenerate }
func (GenerateParams) isParams()  {}

// Validate checks the shape's required fields.
func (p GenerateParams) Validate() error {
	if p.Code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	if !p.Quantity.IsPositive() {
		return errs.NewValueIsRequiredError("quantity")
	}
	return errors.Join(
		p.WasteID.Validate(),
		p.MaterialClassID.Validate(),
		p.Unit.Validate(),
		p.GeneratorID.Validate(),
		p.LocationID.Validate(),
		p.FacilityID.Validate(),
	)
}

// CollectParams picks a lot up for transport.
type CollectParams struct {
	WasteID   kernel.UUID
	Quantity  kernel.Quantity
	VehicleID kernel.UUID
}

func (CollectParams) Type() Type { return TypeCollect }
func (CollectParams) isParams()  {}

// Validate checks the shape's required fields.
func (p CollectParams) Validate() error {
	if !p.Quantity.IsPositive() {
		return errs.NewValueIsRequiredError("quantity")
	}
	return errors.Join(p.WasteID.Validate(), p.VehicleID.Validate())
}

// TransportParams records an intermediate transport hop.
type TransportParams struct {
	WasteID               kernel.UUID
	VehicleID             kernel.UUID
	OriginLocationID      kernel.UUID
	OriginFacilityID      kernel.UUID
	DestinationLocationID kernel.UUID
	DestinationFacilityID kernel.UUID
}

func (TransportParams) Type() Type { return TypeTransport }
func (TransportParams) isParams()  {}

// Validate checks the shape's required fields.
func (p TransportParams) Validate() error {
	return errors.Join(
		p.WasteID.Validate(),
		p.VehicleID.Validate(),
		p.OriginLocationID.Validate(),
		p.OriginFacilityID.Validate(),
		p.DestinationLocationID.Validate(),
		p.DestinationFacilityID.Validate(),
	)
}

// ReceiveParams accepts a lot into storage at a destination facility.
type ReceiveParams struct {
	WasteID               kernel.UUID
	Quantity              kernel.Quantity
	DestinationLocationID kernel.UUID
	DestinationFacilityID kernel.UUID
}

func (ReceiveParams) Type() Type { return TypeReceive }
func (ReceiveParams) isParams()  {}

// Validate checks the shape's required fields.
func (p ReceiveParams) Validate() error {
	if !p.Quantity.IsPositive() {
		return errs.NewValueIsRequiredError("quantity")
	}
	return errors.Join(
		p.WasteID.Validate(),
		p.DestinationLocationID.Validate(),
		p.DestinationFacilityID.Validate(),
	)
}

// StoreParams relocates a stored lot.
type StoreParams struct {
	WasteID               kernel.UUID
	DestinationLocationID kernel.UUID
	DestinationFacilityID kernel.UUID
}

func (StoreParams) Type() Type { return TypeStore }
func (StoreParams) isParams()  {}

// Validate checks the shape's required fields.
func (p StoreParams) Validate() error {
	return errors.Join(
		p.WasteID.Validate(),
		p.DestinationLocationID.Validate(),
		p.DestinationFacilityID.Validate(),
	)
}

// TransformationOutput describes one descendant lot produced by a transformation.
type TransformationOutput struct {
	Code            string
	MaterialClassID kernel.UUID
	Quantity        kernel.Quantity
	Unit            waste.Unit
	// AsStored creates the descendant directly in Stored status instead of Generated.
	AsStored bool
}

// Validate checks the output's required fields.
func (o TransformationOutput) Validate() error {
	if o.Code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	if !o.Quantity.IsPositive() {
		return errs.NewValueIsRequiredError("resultQuantity")
	}
	return errors.Join(o.MaterialClassID.Validate(), o.Unit.Validate())
}

// TransformParams consumes a lot and produces descendant lots.
type TransformParams struct {
	WasteID     kernel.UUID
	TreatmentID kernel.UUID
	Outputs     []TransformationOutput
}

func (TransformParams) Type() Type { return TypeTransform }
func (TransformParams) isParams()  {}

// Validate checks the shape's required fields.
func (p TransformParams) Validate() error {
	if len(p.Outputs) == 0 {
		return errs.NewValueIsRequiredError("outputs")
	}

	err := errors.Join(p.WasteID.Validate(), p.TreatmentID.Validate())
	for _, output := range p.Outputs {
		err = errors.Join(err, output.Validate())
	}
	return err
}

// DisposeParams finalizes a lot as disposed.
type DisposeParams struct {
	WasteID       kernel.UUID
	TreatmentID   *kernel.UUID
	CertificateID *kernel.UUID
}

func (DisposeParams) Type() Type { return TypeDispose }
func (DisposeParams) isParams()  {}

// Validate checks the shape's required fields.
func (p DisposeParams) Validate() error {
	err := p.WasteID.Validate()
	if p.TreatmentID != nil {
		err = errors.Join(err, p.TreatmentID.Validate())
	}
	if p.CertificateID != nil {
		err = errors.Join(err, p.CertificateID.Validate())
	}
	return err
}

// SellParams finalizes a lot as sold to a buyer.
type SellParams struct {
	WasteID        kernel.UUID
	BuyerID        kernel.UUID
	Price          decimal.Decimal
	RelatedOrderID *kernel.UUID
}

func (SellParams) Type() Type { return TypeSell }
func (SellParams) isParams()  {}

// Validate checks the shape's required fields.
// A sale requires a buyer and a positive agreed price.
func (p SellParams) Validate() error {
	if !p.Price.IsPositive() {
		return errs.NewValueIsRequiredError("price")
	}

	err := errors.Join(p.WasteID.Validate(), p.BuyerID.Validate())
	if p.RelatedOrderID != nil {
		err = errors.Join(err, p.RelatedOrderID.Validate())
	}
	return err
}

// DeliverParams finalizes a lot as handed over to its recipient.
type DeliverParams struct {
	WasteID               kernel.UUID
	DestinationLocationID kernel.UUID
	DestinationFacilityID kernel.UUID
	RecipientID           kernel.UUID
	VehicleID             *kernel.UUID
	RelatedOrderID        *kernel.UUID
}

func (DeliverParams) Type() Type { return TypeDeliver }
func (DeliverParams) isParams()  {}

// Validate checks the shape's required fields.
func (p DeliverParams) Validate() error {
	err := errors.Join(
		p.WasteID.Validate(),
		p.DestinationLocationID.Validate(),
		p.DestinationFacilityID.Validate(),
		p.RecipientID.Validate(),
	)
	if p.VehicleID != nil {
		err = errors.Join(err, p.VehicleID.Validate())
	}
	if p.RelatedOrderID != nil {
		err = errors.Join(err, p.RelatedOrderID.Validate())
	}
	return err
}

// ClassifyParams assigns a material classification to a lot.
type ClassifyParams struct {
	WasteID         kernel.UUID
	MaterialClassID kernel.UUID
	ClassifierID    kernel.UUID
}

func (ClassifyParams) Type() Type { return TypeClassify }
func (ClassifyParams) isParams()  {}

// Validate checks the shape's required fields.
// Classification always requires a responsible classifier.
func (p ClassifyParams) Validate() error {
	if err := p.ClassifierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("classifierId", err)
	}
	return errors.Join(p.WasteID.Validate(), p.MaterialClassID.Validate())
}

// ReuseParams finalizes a lot as re-entered into use.
type ReuseParams struct {
	WasteID kernel.UUID
}

func (ReuseParams) Type() Type { return TypeReuse }
func (ReuseParams) isParams()  {}

// Validate checks the shape's required fields.
func (p ReuseParams) Validate() error {
	return p.WasteID.Validate()
}
