package waste

import (
	"wastetrack/internal/pkg/errs"
)

// Unit is the measurement unit of a lot's quantity.
// It is a value object; only the listed units are valid.
type Unit string

const (
	// Kilogram is the default unit for solid waste mass.
	Kilogram Unit = "kg"
	// Ton is used for bulk lots.
	Ton Unit = "t"
	// CubicMeter is used for volumetric lots such as rubble or sludge.
	CubicMeter Unit = "m3"
	// Liter is used for liquid waste.
	Liter Unit = "l"
	// Piece is used for discrete items such as drums or batteries.
	Piece Unit = "pc"
)

// getValidUnits returns the set of accepted units.
func getValidUnits() map[Unit]struct{} {
	return map[Unit]struct{}{
		Kilogram:   {},
		Ton:        {},
		CubicMeter: {},
		Liter:      {},
		Piece:      {},
	}
}

// Validate checks that the unit is one of the accepted units.
func (u Unit) Validate() error {
	if _, ok := getValidUnits()[u]; !ok {
		return errs.NewValueIsInvalidError("unit")
	}
	return nil
}

// String returns the unit symbol.
func (u Unit) String() string {
	return string(u)
}
