// Package routeprocess models planned collection routes: an ordered sequence
// of stops that is started, worked through strictly in order, and completed
// or cancelled. Every status change produces a ChangeEvent for subscribers.
package routeprocess

import (
	"wastetrack/internal/pkg/errs"
)

// Status represents the lifecycle state of a route process.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPlanned means the route is defined but not yet underway.
	StatusPlanned

	// StatusInProgress means the route has started and stops are being worked.
	StatusInProgress

	// StatusCompleted means every stop was completed in order.
	StatusCompleted

	// StatusCancelled means the route was abandoned before completion.
	StatusCancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "Unknown",
		StatusPlanned:    "Planned",
		StatusInProgress: "InProgress",
		StatusCompleted:  "Completed",
		StatusCancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is a defined status.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidError("routeStatus")
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("routeStatus")
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further status changes are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Start transitions a planned route into progress.
func (s Status) Start() (Status, error) {
	if s != StatusPlanned {
		return s, errs.NewInvalidTransitionError("start", s.String())
	}
	return StatusInProgress, nil
}

// Complete transitions an in-progress route to completed.
func (s Status) Complete() (Status, error) {
	if s != StatusInProgress {
		return s, errs.NewInvalidTransitionError("complete", s.String())
	}
	return StatusCompleted, nil
}

// Cancel abandons a route that has not finished.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() || s == StatusUnknown {
		return s, errs.NewInvalidTransitionError("cancel", s.String())
	}
	return StatusCancelled, nil
}
