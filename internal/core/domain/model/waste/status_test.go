package waste_test

import (
	"testing"

	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	valid := []waste.Status{
		waste.Generated, waste.InTransit, waste.Stored, waste.InTreatment,
		waste.Disposed, waste.Transformed, waste.Delivered, waste.Sold, waste.Reused,
	}
	for _, s := range valid {
		t.Run(s.String(), func(t *testing.T) {
			require.NoError(t, s.Validate())
		})
	}

	t.Run("unknown is invalid", func(t *testing.T) {
		require.Error(t, waste.Unknown.Validate())
	})

	t.Run("out of range is invalid", func(t *testing.T) {
		require.Error(t, waste.Status(99).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Generated", waste.Generated.String())
	assert.Equal(t, "InTransit", waste.InTransit.String())
	assert.Equal(t, "Stored", waste.Stored.String())
	assert.Equal(t, "Unknown", waste.Status(99).String())
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := []waste.Status{waste.Disposed, waste.Transformed, waste.Delivered, waste.Sold, waste.Reused}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s must be terminal", s)
	}

	open := []waste.Status{waste.Generated, waste.InTransit, waste.Stored, waste.InTreatment}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "%s must not be terminal", s)
	}
}

func TestStatus_Transitions(t *testing.T) {
	all := []waste.Status{
		waste.Generated, waste.InTransit, waste.Stored, waste.InTreatment,
		waste.Disposed, waste.Transformed, waste.Delivered, waste.Sold, waste.Reused,
	}

	testCases := []struct {
		operation string
		attempt   func(s waste.Status) (waste.Status, error)
		allowed   map[waste.Status]waste.Status
	}{
		{
			operation: "Collect",
			attempt:   waste.Status.Collect,
			allowed: map[waste.Status]waste.Status{
				waste.Generated: waste.InTransit,
				waste.Stored:    waste.InTransit,
			},
		},
		{
			operation: "Transport",
			attempt:   waste.Status.Transport,
			allowed: map[waste.Status]waste.Status{
				waste.InTransit: waste.InTransit,
			},
		},
		{
			operation: "Receive",
			attempt:   waste.Status.Receive,
			allowed: map[waste.Status]waste.Status{
				waste.InTransit: waste.Stored,
			},
		},
		{
			operation: "Store",
			attempt:   waste.Status.Store,
			allowed: map[waste.Status]waste.Status{
				waste.Stored: waste.Stored,
			},
		},
		{
			operation: "Transform",
			attempt:   waste.Status.Transform,
			allowed: map[waste.Status]waste.Status{
				waste.Stored:      waste.Transformed,
				waste.InTreatment: waste.Transformed,
			},
		},
		{
			operation: "Dispose",
			attempt:   waste.Status.Dispose,
			allowed: map[waste.Status]waste.Status{
				waste.Stored: waste.Disposed,
			},
		},
		{
			operation: "Sell",
			attempt:   waste.Status.Sell,
			allowed: map[waste.Status]waste.Status{
				waste.Stored: waste.Sold,
			},
		},
		{
			operation: "Deliver",
			attempt:   waste.Status.Deliver,
			allowed: map[waste.Status]waste.Status{
				waste.Stored:    waste.Delivered,
				waste.InTransit: waste.Delivered,
			},
		},
		{
			operation: "Reuse",
			attempt:   waste.Status.Reuse,
			allowed: map[waste.Status]waste.Status{
				waste.Stored: waste.Reused,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.operation, func(t *testing.T) {
			for _, from := range all {
				next, err := tc.attempt(from)

				if want, ok := tc.allowed[from]; ok {
					require.NoError(t, err, "%s from %s must be allowed", tc.operation, from)
					assert.Equal(t, want, next)
					continue
				}

				require.Error(t, err, "%s from %s must be rejected", tc.operation, from)
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
			}
		})
	}
}

func TestUnit_Validate(t *testing.T) {
	for _, u := range []waste.Unit{waste.Kilogram, waste.Ton, waste.CubicMeter, waste.Liter, waste.Piece} {
		require.NoError(t, u.Validate())
	}

	require.Error(t, waste.Unit("stone").Validate())
	require.Error(t, waste.Unit("").Validate())
}
