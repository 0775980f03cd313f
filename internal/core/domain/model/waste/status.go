package waste

import (
	"wastetrack/internal/pkg/errs"
)

// Status represents the lifecycle state of a waste lot.
// It implements a state machine with defined transitions to ensure
// lots follow the correct custody workflow.
//
// State transitions (operation -> resulting status):
//
//	Generate  -> Generated                  (initial)
//	Collect   -> InTransit                  (from Generated or Stored)
//	Transport -> InTransit                  (from InTransit; multi-hop, status unchanged)
//	Receive   -> Stored                     (from InTransit)
//	Store     -> Stored                     (from Stored; relocation only)
//	Transform -> Transformed                (from Stored; terminal for the source lot)
//	Dispose   -> Disposed                   (from Stored; terminal)
//	Sell      -> Sold                       (from Stored; terminal)
//	Deliver   -> Delivered                  (from Stored or InTransit; terminal)
//	Reuse     -> Reused                     (from Stored; terminal)
//
// Classify is status-preserving and therefore has no transition here.
// InTreatment is a valid persisted status for lots handed to an external
// treatment facility by the legacy flow; no operation in this core produces it,
// but restored lots carrying it are accepted and may only be Transformed.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Generated is the initial status of a freshly generated lot.
	Generated

	// InTransit indicates the lot is being physically moved between facilities.
	InTransit

	// Stored indicates the lot rests at a facility location.
	Stored

	// InTreatment indicates the lot is held by an external treatment facility.
	InTreatment

	// Disposed indicates final disposal. Terminal.
	Disposed

	// Transformed indicates the lot was consumed by a transformation. Terminal.
	Transformed

	// Delivered indicates the lot was handed over to its recipient. Terminal.
	Delivered

	// Sold indicates the lot was sold to a buyer. Terminal.
	Sold

	// Reused indicates the lot re-entered use without further treatment. Terminal.
	Reused
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Generated:   "Generated",
		InTransit:   "InTransit",
		Stored:      "Stored",
		InTreatment: "InTreatment",
		Disposed:    "Disposed",
		Transformed: "Transformed",
		Delivered:   "Delivered",
		Sold:        "Sold",
		Reused:      "Reused",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Generated:   "Generated",
		InTransit:   "InTransit",
		Stored:      "Stored",
		InTreatment: "InTreatment",
		Disposed:    "Disposed",
		Transformed: "Transformed",
		Delivered:   "Delivered",
		Sold:        "Sold",
		Reused:      "Reused",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other unmapped values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further lifecycle operations.
func (s Status) IsTerminal() bool {
	switch s {
	case Disposed, Transformed, Delivered, Sold, Reused:
		return true
	default:
		return false
	}
}

// Collect transitions the status to InTransit.
//
// Valid from: Generated (first pickup), Stored (pickup from storage).
func (s Status) Collect() (Status, error) {
	if s != Generated && s != Stored {
		return 0, errs.NewInvalidTransitionError("Collect", s.String())
	}
	return InTransit, nil
}

// Transport keeps the status at InTransit for an intermediate hop.
// Origin and destination change on the lot; the status does not.
//
// Valid from: InTransit.
func (s Status) Transport() (Status, error) {
	if s != InTransit {
		return 0, errs.NewInvalidTransitionError("Transport", s.String())
	}
	return InTransit, nil
}

// Receive transitions the status to Stored upon arrival at a facility.
//
// Valid from: InTransit.
func (s Status) Receive() (Status, error) {
	if s != InTransit {
		return 0, errs.NewInvalidTransitionError("Receive", s.String())
	}
	return Stored, nil
}

// Store keeps the status at Stored for a relocation within or between
// storage locations.
//
// Valid from: Stored.
func (s Status) Store() (Status, error) {
	if s != Stored {
		return 0, errs.NewInvalidTransitionError("Store", s.String())
	}
	return Stored, nil
}

// Transform transitions the status to Transformed, finalizing the source lot
// of a transformation. Terminal.
//
// Valid from: Stored, InTreatment.
func (s Status) Transform() (Status, error) {
	if s != Stored && s != InTreatment {
		return 0, errs.NewInvalidTransitionError("Transform", s.String())
	}
	return Transformed, nil
}

// Dispose transitions the status to Disposed. Terminal.
//
// Valid from: Stored.
func (s Status) Dispose() (Status, error) {
	if s != Stored {
		return 0, errs.NewInvalidTransitionError("Dispose", s.String())
	}
	return Disposed, nil
}

// Sell transitions the status to Sold. Terminal.
//
// Valid from: Stored.
func (s Status) Sell() (Status, error) {
	if s != Stored {
		return 0, errs.NewInvalidTransitionError("Sell", s.String())
	}
	return Sold, nil
}

// Deliver transitions the status to Delivered. Terminal.
//
// Valid from: Stored (handover from storage), InTransit (direct delivery).
func (s Status) Deliver() (Status, error) {
	if s != Stored && s != InTransit {
		return 0, errs.NewInvalidTransitionError("Deliver", s.String())
	}
	return Delivered, nil
}

// Reuse transitions the status to Reused. Terminal.
//
// Valid from: Stored.
func (s Status) Reuse() (Status, error) {
	if s != Stored {
		return 0, errs.NewInvalidTransitionError("Reuse", s.String())
	}
	return Reused, nil
}
