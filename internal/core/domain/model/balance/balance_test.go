package balance_test

import (
	"testing"
	"time"

	"wastetrack/internal/core/domain/model/balance"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) balance.Key {
	t.Helper()
	key, err := balance.NewKey(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return key
}

func mustQuantity(t *testing.T, s string) kernel.Quantity {
	t.Helper()
	q, err := kernel.NewQuantityFromString(s)
	require.NoError(t, err)
	return q
}

func TestNewKey(t *testing.T) {
	t.Run("requires every dimension", func(t *testing.T) {
		_, err := balance.NewKey(kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID())
		require.Error(t, err)

		_, err = balance.NewKey(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{})
		require.Error(t, err)
	})

	t.Run("equality is per dimension", func(t *testing.T) {
		owner, facility, location, class := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

		a, err := balance.NewKey(owner, facility, location, class)
		require.NoError(t, err)
		b, err := balance.NewKey(owner, facility, location, class)
		require.NoError(t, err)
		c, err := balance.NewKey(owner, facility, location, kernel.NewUUID())
		require.NoError(t, err)

		assert.True(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(c))
	})
}

func TestCategory(t *testing.T) {
	t.Run("validate", func(t *testing.T) {
		require.NoError(t, balance.CategoryStored.Validate())
		require.Error(t, balance.CategoryUnknown.Validate())
		require.Error(t, balance.Category(99).Validate())
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "Generated", balance.CategoryGenerated.String())
		assert.Equal(t, "InTransit", balance.CategoryInTransit.String())
		assert.Equal(t, "Unknown", balance.Category(99).String())
	})
}

func TestBalance_CreditAndDebit(t *testing.T) {
	t.Run("new row starts empty", func(t *testing.T) {
		row, err := balance.NewBalance(kernel.NewUUID(), newTestKey(t))

		require.NoError(t, err)
		assert.True(t, row.Generated().IsZero())
		assert.True(t, row.Stored().IsZero())
		assert.Equal(t, 1, row.Version())
	})

	t.Run("credit accumulates", func(t *testing.T) {
		row, err := balance.NewBalance(kernel.NewUUID(), newTestKey(t))
		require.NoError(t, err)

		at := time.Now().UTC()
		require.NoError(t, row.Credit(balance.CategoryGenerated, mustQuantity(t, "100"), at))
		require.NoError(t, row.Credit(balance.CategoryGenerated, mustQuantity(t, "50"), at))

		assert.Equal(t, "150", row.Generated().String())
		assert.Equal(t, at, row.LastUpdated())
	})

	t.Run("debit moves quantity out of a bucket", func(t *testing.T) {
		row, err := balance.NewBalance(kernel.NewUUID(), newTestKey(t))
		require.NoError(t, err)

		at := time.Now().UTC()
		require.NoError(t, row.Credit(balance.CategoryStored, mustQuantity(t, "100"), at))
		require.NoError(t, row.Debit(balance.CategoryStored, mustQuantity(t, "40"), at))

		assert.Equal(t, "60", row.Stored().String())
	})

	t.Run("debit beyond availability is rejected", func(t *testing.T) {
		row, err := balance.NewBalance(kernel.NewUUID(), newTestKey(t))
		require.NoError(t, err)

		at := time.Now().UTC()
		require.NoError(t, row.Credit(balance.CategoryStored, mustQuantity(t, "10"), at))

		err = row.Debit(balance.CategoryStored, mustQuantity(t, "10.001"), at)
		require.ErrorIs(t, err, errs.ErrInsufficientQuantity)
		assert.Equal(t, "10", row.Stored().String())
	})

	t.Run("generated bucket can never be debited", func(t *testing.T) {
		row, err := balance.NewBalance(kernel.NewUUID(), newTestKey(t))
		require.NoError(t, err)

		at := time.Now().UTC()
		require.NoError(t, row.Credit(balance.CategoryGenerated, mustQuantity(t, "100"), at))

		err = row.Debit(balance.CategoryGenerated, mustQuantity(t, "1"), at)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, "100", row.Generated().String())
	})

	t.Run("zero-quantity adjustments are rejected", func(t *testing.T) {
		row, err := balance.NewBalance(kernel.NewUUID(), newTestKey(t))
		require.NoError(t, err)

		require.Error(t, row.Credit(balance.CategoryStored, kernel.ZeroQuantity(), time.Now()))
		require.Error(t, row.Debit(balance.CategoryStored, kernel.ZeroQuantity(), time.Now()))
	})

	t.Run("zero-value balance fails validation", func(t *testing.T) {
		var row balance.Balance
		require.ErrorIs(t, row.Validate(), balance.ErrBalanceIsNotConstructed)
	})
}

func TestRestoreBalance(t *testing.T) {
	t.Run("restores buckets and version", func(t *testing.T) {
		id := kernel.NewUUID()
		key := newTestKey(t)
		at := time.Now().UTC()

		row, err := balance.RestoreBalance(
			id, key,
			mustQuantity(t, "300"), mustQuantity(t, "20"), mustQuantity(t, "180"),
			mustQuantity(t, "60"), mustQuantity(t, "40"),
			at, 7,
		)

		require.NoError(t, err)
		assert.Equal(t, id, row.ID())
		assert.True(t, key.IsEqual(row.Key()))
		assert.Equal(t, "300", row.Generated().String())
		assert.Equal(t, "20", row.InTransit().String())
		assert.Equal(t, "180", row.Stored().String())
		assert.Equal(t, "60", row.Disposed().String())
		assert.Equal(t, "40", row.Treated().String())
		assert.Equal(t, 7, row.Version())
	})

	t.Run("rejects a non-positive version", func(t *testing.T) {
		_, err := balance.RestoreBalance(
			kernel.NewUUID(), newTestKey(t),
			kernel.ZeroQuantity(), kernel.ZeroQuantity(), kernel.ZeroQuantity(),
			kernel.ZeroQuantity(), kernel.ZeroQuantity(),
			time.Now(), 0,
		)

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}

func TestFilter_Matches(t *testing.T) {
	owner, facility, location, class := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	key, err := balance.NewKey(owner, facility, location, class)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		filter balance.Filter
		want   bool
	}{
		{name: "empty filter matches everything", filter: balance.Filter{}, want: true},
		{name: "matching owner", filter: balance.Filter{OwnerID: &owner}, want: true},
		{name: "matching owner and facility", filter: balance.Filter{OwnerID: &owner, FacilityID: &facility}, want: true},
		{name: "all dimensions set", filter: balance.Filter{
			OwnerID: &owner, FacilityID: &facility, LocationID: &location, MaterialClassID: &class,
		}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(key))
		})
	}

	t.Run("one mismatched dimension rejects the key", func(t *testing.T) {
		other := kernel.NewUUID()
		assert.False(t, balance.Filter{OwnerID: &owner, LocationID: &other}.Matches(key))
	})
}
