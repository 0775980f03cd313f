// Package guard provides the constructor guard pattern used by domain objects
// to ensure they are only created through their validating factory functions.
// A zero-value guard fails validation, so a struct instantiated directly
// (bypassing its constructor) is detectable at use time.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no custom error is
// supplied and the guarded object was not created through its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. Embed it as a
// private field and initialize it with NewConstructorGuard inside the
// constructor; the zero value reports the object as not constructed.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil when the object was created through its constructor.
// For a zero-value guard it returns notConstructed, or ErrDefaultConstructorGuard
// when notConstructed is nil.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.constructed {
		return nil
	}
	if notConstructed == nil {
		return ErrDefaultConstructorGuard
	}
	return notConstructed
}
