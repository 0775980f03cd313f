// Package operation defines the typed management operations of the custody
// chain and the immutable audit facts they leave behind. Every mutation of a
// waste lot is expressed as exactly one operation; the dispatcher validates it
// against the lot's lifecycle state machine and records one ManagementOperation
// per successful call.
package operation

import (
	"wastetrack/internal/pkg/errs"
)

// Type identifies a management operation kind.
type Type int

const (
	// TypeUnknown represents an invalid or undefined operation type.
	TypeUnknown Type = iota

	// TypeGenerate registers a new waste lot at its generator.
	TypeGenerate

	// TypeCollect picks a lot up for transport.
	TypeCollect

	// TypeTransport records an intermediate transport hop.
	TypeTransport

	// TypeReceive accepts a lot into storage at a destination facility.
	TypeReceive

	// TypeStore relocates a stored lot.
	TypeStore

	// TypeTransform consumes a lot and produces descendant lots.
	TypeTransform

	// TypeDispose finalizes a lot as disposed.
	TypeDispose

	// TypeSell finalizes a lot as sold to a buyer.
	TypeSell

	// TypeDeliver finalizes a lot as handed over to its recipient.
	TypeDeliver

	// TypeClassify assigns a material classification without changing status.
	TypeClassify

	// TypeReuse finalizes a lot as re-entered into use.
	TypeReuse
)

// getTypeStrings returns a map of Type values to their string representations.
func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:   "Unknown",
		TypeGenerate:  "Generate",
		TypeCollect:   "Collect",
		TypeTransport: "Transport",
		TypeReceive:   "Receive",
		TypeStore:     "Store",
		TypeTransform: "Transform",
		TypeDispose:   "Dispose",
		TypeSell:      "Sell",
		TypeDeliver:   "Deliver",
		TypeClassify:  "Classify",
		TypeReuse:     "Reuse",
	}
}

// TypeFromString parses an operation type from its string name.
// Returns ValueIsInvalidError for unknown names.
func TypeFromString(s string) (Type, error) {
	for opType, name := range getTypeStrings() {
		if name == s && opType != TypeUnknown {
			return opType, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidError("operationType")
}

// Validate checks if the Type value is a defined operation type.
func (t Type) Validate() error {
	if t == TypeUnknown {
		return errs.NewValueIsInvalidError("operationType")
	}
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidError("operationType")
	}
	return nil
}

// String returns the human-readable name of the operation type.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// IsWasteAction reports whether completing a route stop of this operation type
// implies executing a management operation on a lot.
func (t Type) IsWasteAction() bool {
	switch t {
	case TypeCollect, TypeTransport, TypeDeliver:
		return true
	default:
		return false
	}
}
