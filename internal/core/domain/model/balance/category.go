// Package balance tracks aggregate waste quantities per custody scope. One
// Balance row exists per (owner, facility, location, material class) key and
// carries one bucket per lifecycle category. The dispatcher adjusts buckets
// with paired deltas, so across all rows quantity is conserved: what leaves
// one bucket arrives in another, except the generated bucket, which only
// accumulates.
package balance

import (
	"wastetrack/internal/pkg/errs"
)

// Category identifies one quantity bucket of a balance row.
type Category int

const (
	// CategoryUnknown represents an invalid or undefined category.
	CategoryUnknown Category = iota

	// CategoryGenerated is the cumulative total ever generated. It is
	// credited once per registered lot and never debited.
	CategoryGenerated

	// CategoryInTransit holds quantity currently moving between facilities.
	CategoryInTransit

	// CategoryStored holds quantity at rest in a facility.
	CategoryStored

	// CategoryDisposed holds quantity finalized through disposal.
	CategoryDisposed

	// CategoryTreated holds quantity consumed by treatment, transformation,
	// sale, delivery, or reuse.
	CategoryTreated
)

// getCategoryStrings returns a map of Category values to their string representations.
func getCategoryStrings() map[Category]string {
	return map[Category]string{
		CategoryUnknown:   "Unknown",
		CategoryGenerated: "Generated",
		CategoryInTransit: "InTransit",
		CategoryStored:    "Stored",
		CategoryDisposed:  "Disposed",
		CategoryTreated:   "Treated",
	}
}

// Validate checks if the Category value is a defined category.
func (c Category) Validate() error {
	if c == CategoryUnknown {
		return errs.NewValueIsInvalidError("category")
	}
	if _, ok := getCategoryStrings()[c]; !ok {
		return errs.NewValueIsInvalidError("category")
	}
	return nil
}

// String returns the human-readable name of the category.
func (c Category) String() string {
	if str, ok := getCategoryStrings()[c]; ok {
		return str
	}
	return "Unknown"
}
