package services

import (
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/waste"
)

// ErrQuantityNotConserved is returned when the output quantities of a
// transformation do not add up to the source lot's quantity.
var ErrQuantityNotConserved = errors.New("output quantities must equal the source quantity")

// ErrOutputsAreRequired is returned when a transformation specifies no outputs.
var ErrOutputsAreRequired = errors.New("transformation requires at least one output")

// TransformationEngine is a domain service that executes waste
// transformations: it consumes a source lot and produces its descendant lots.
//
// Business rules:
//   - The source lot must be in a status that allows transformation
//   - At least one output must be specified
//   - Output quantities must sum exactly to the source quantity
//   - Every descendant records its parent lot and the producing operation
//   - Descendants inherit the source's custody and hazard classification
//
// Example usage:
//
//	engine := NewTransformationEngine()
//	descendants, err := engine.Transform(source, operationID, outputs, time.Now())
//	if errors.Is(err, ErrQuantityNotConserved) {
//	    // The outputs gained or lost mass
//	    return
//	}
type TransformationEngine struct{}

// NewTransformationEngine creates a new TransformationEngine instance.
func NewTransformationEngine() TransformationEngine {
	return TransformationEngine{}
}

// Transform consumes the source lot and creates one descendant lot per
// output. The source is marked transformed; the caller persists both the
// source and the returned descendants in one transaction.
func (e TransformationEngine) Transform(
	source *waste.WasteRecord,
	operationID kernel.UUID,
	outputs []operation.TransformationOutput,
	at time.Time,
) ([]*waste.WasteRecord, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if err := operationID.Validate(); err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, ErrOutputsAreRequired
	}

	total := kernel.ZeroQuantity()
	for _, output := range outputs {
		if err := output.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(output.Quantity)
	}
	if !total.IsEqual(source.Quantity()) {
		return nil, ErrQuantityNotConserved
	}

	if _, err := source.Status().Transform(); err != nil {
		return nil, err
	}

	descendants := make([]*waste.WasteRecord, 0, len(outputs))
	for _, output := range outputs {
		descendant, err := waste.NewDerivedRecord(
			kernel.NewUUID(),
			output.Code,
			output.MaterialClassID,
			output.Quantity,
			output.Unit,
			source,
			operationID,
			output.AsStored,
			at,
		)
		if err != nil {
			return nil, err
		}
		descendants = append(descendants, descendant)
	}

	if err := source.MarkTransformed(); err != nil {
		return nil, err
	}

	return descendants, nil
}
