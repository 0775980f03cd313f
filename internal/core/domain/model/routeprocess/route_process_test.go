package routeprocess_test

import (
	"testing"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/routeprocess"
	"wastetrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoute(t *testing.T, stopCount int) *routeprocess.RouteProcess {
	t.Helper()

	routeID := kernel.NewUUID()
	stops := make([]*routeprocess.RouteStop, 0, stopCount)
	for i := 1; i <= stopCount; i++ {
		stop, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), routeID, kernel.NewUUID(), i, nil, kernel.NewUUID(), "",
		)
		require.NoError(t, err)
		stops = append(stops, stop)
	}

	route, err := routeprocess.NewRouteProcess(
		routeID, "RT-0001", kernel.NewUUID(), nil, stops, time.Now().UTC(),
	)
	require.NoError(t, err)
	return route
}

func TestStatus(t *testing.T) {
	t.Run("transitions", func(t *testing.T) {
		started, err := routeprocess.StatusPlanned.Start()
		require.NoError(t, err)
		assert.Equal(t, routeprocess.StatusInProgress, started)

		completed, err := started.Complete()
		require.NoError(t, err)
		assert.Equal(t, routeprocess.StatusCompleted, completed)

		_, err = completed.Cancel()
		require.ErrorIs(t, err, errs.ErrInvalidTransition)

		cancelled, err := routeprocess.StatusPlanned.Cancel()
		require.NoError(t, err)
		assert.Equal(t, routeprocess.StatusCancelled, cancelled)
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.True(t, routeprocess.StatusCompleted.IsTerminal())
		assert.True(t, routeprocess.StatusCancelled.IsTerminal())
		assert.False(t, routeprocess.StatusInProgress.IsTerminal())
	})
}

func TestNewRouteStop(t *testing.T) {
	t.Run("requires a positive sequence order", func(t *testing.T) {
		_, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0, nil, kernel.NewUUID(), "",
		)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("validates an attached operation type", func(t *testing.T) {
		bad := operation.Type(99)
		_, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 1, &bad, kernel.NewUUID(), "",
		)
		require.Error(t, err)

		collect := operation.TypeCollect
		stop, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 1, &collect, kernel.NewUUID(), "gate 4",
		)
		require.NoError(t, err)
		assert.Equal(t, operation.TypeCollect, *stop.OperationType())
		assert.Equal(t, "gate 4", stop.Notes())
	})
}

func TestNewRouteProcess(t *testing.T) {
	t.Run("requires stops", func(t *testing.T) {
		_, err := routeprocess.NewRouteProcess(
			kernel.NewUUID(), "RT-1", kernel.NewUUID(), nil, nil, time.Now(),
		)
		require.ErrorIs(t, err, routeprocess.ErrStopsAreRequired)
	})

	t.Run("requires a driver", func(t *testing.T) {
		routeID := kernel.NewUUID()
		stop, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), routeID, kernel.NewUUID(), 1, nil, kernel.NewUUID(), "",
		)
		require.NoError(t, err)

		var noDriver kernel.UUID
		_, err = routeprocess.NewRouteProcess(
			routeID, "RT-1", noDriver, nil, []*routeprocess.RouteStop{stop}, time.Now(),
		)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects stops of another route", func(t *testing.T) {
		stop, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 1, nil, kernel.NewUUID(), "",
		)
		require.NoError(t, err)

		_, err = routeprocess.NewRouteProcess(
			kernel.NewUUID(), "RT-1", kernel.NewUUID(), nil,
			[]*routeprocess.RouteStop{stop}, time.Now(),
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects duplicate sequence orders", func(t *testing.T) {
		routeID := kernel.NewUUID()
		first, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), routeID, kernel.NewUUID(), 1, nil, kernel.NewUUID(), "",
		)
		require.NoError(t, err)
		second, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), routeID, kernel.NewUUID(), 1, nil, kernel.NewUUID(), "",
		)
		require.NoError(t, err)

		_, err = routeprocess.NewRouteProcess(
			routeID, "RT-1", kernel.NewUUID(), nil,
			[]*routeprocess.RouteStop{first, second}, time.Now(),
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("orders stops by sequence", func(t *testing.T) {
		routeID := kernel.NewUUID()
		var stops []*routeprocess.RouteStop
		for _, seq := range []int{3, 1, 2} {
			stop, err := routeprocess.NewRouteStop(
				kernel.NewUUID(), routeID, kernel.NewUUID(), seq, nil, kernel.NewUUID(), "",
			)
			require.NoError(t, err)
			stops = append(stops, stop)
		}

		driverID := kernel.NewUUID()
		createdAt := time.Now().UTC()
		route, err := routeprocess.NewRouteProcess(routeID, "RT-1", driverID, nil, stops, createdAt)
		require.NoError(t, err)

		orders := make([]int, 0, 3)
		for _, stop := range route.Stops() {
			orders = append(orders, stop.SequenceOrder())
		}
		assert.Equal(t, []int{1, 2, 3}, orders)
		assert.Equal(t, routeprocess.StatusPlanned, route.Status())
		assert.Equal(t, driverID, route.DriverID())
		assert.Equal(t, createdAt, route.CreatedAt())
	})
}

func TestRouteProcess_Start(t *testing.T) {
	t.Run("emits a change event", func(t *testing.T) {
		route := newTestRoute(t, 2)
		at := time.Now().UTC()

		event, err := route.Start(at)

		require.NoError(t, err)
		assert.Equal(t, route.ID(), event.RouteID)
		assert.Equal(t, routeprocess.StatusPlanned, event.OldStatus)
		assert.Equal(t, routeprocess.StatusInProgress, event.NewStatus)
		assert.Equal(t, at, event.OccurredAt)
		require.NotNil(t, route.StartedAt())
	})

	t.Run("cannot start twice", func(t *testing.T) {
		route := newTestRoute(t, 1)
		_, err := route.Start(time.Now())
		require.NoError(t, err)

		_, err = route.Start(time.Now())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestRouteProcess_CompleteStop(t *testing.T) {
	t.Run("stops complete strictly in order", func(t *testing.T) {
		route := newTestRoute(t, 3)
		_, err := route.Start(time.Now())
		require.NoError(t, err)

		second := route.Stops()[1]
		_, err = route.CompleteStop(second.ID(), time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		first := route.Stops()[0]
		event, err := route.CompleteStop(first.ID(), time.Now())
		require.NoError(t, err)
		assert.Nil(t, event)
		assert.True(t, first.IsCompleted())
		assert.Equal(t, second.ID(), route.NextStop().ID())
	})

	t.Run("completing the last stop completes the route", func(t *testing.T) {
		route := newTestRoute(t, 2)
		_, err := route.Start(time.Now())
		require.NoError(t, err)

		at := time.Now().UTC()
		_, err = route.CompleteStop(route.Stops()[0].ID(), at)
		require.NoError(t, err)

		event, err := route.CompleteStop(route.Stops()[1].ID(), at)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, routeprocess.StatusInProgress, event.OldStatus)
		assert.Equal(t, routeprocess.StatusCompleted, event.NewStatus)
		assert.Equal(t, routeprocess.StatusCompleted, route.Status())
		assert.Nil(t, route.NextStop())
		require.NotNil(t, route.CompletedAt())
	})

	t.Run("requires the route to be in progress", func(t *testing.T) {
		route := newTestRoute(t, 1)
		_, err := route.CompleteStop(route.Stops()[0].ID(), time.Now())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("unknown stop is reported", func(t *testing.T) {
		route := newTestRoute(t, 1)
		_, err := route.Start(time.Now())
		require.NoError(t, err)

		_, err = route.CompleteStop(kernel.NewUUID(), time.Now())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestRouteProcess_Cancel(t *testing.T) {
	t.Run("cancels with a reason", func(t *testing.T) {
		route := newTestRoute(t, 2)
		at := time.Now().UTC()

		event, err := route.Cancel("vehicle breakdown", at)

		require.NoError(t, err)
		assert.Equal(t, routeprocess.StatusCancelled, event.NewStatus)
		assert.Equal(t, "vehicle breakdown", event.Reason)
		assert.Equal(t, "vehicle breakdown", route.CancelReason())
		require.NotNil(t, route.CancelledAt())
		assert.Equal(t, at, *route.CancelledAt())
	})

	t.Run("requires a reason", func(t *testing.T) {
		route := newTestRoute(t, 1)
		_, err := route.Cancel("", time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("cannot cancel a completed route", func(t *testing.T) {
		route := newTestRoute(t, 1)
		_, err := route.Start(time.Now())
		require.NoError(t, err)
		_, err = route.CompleteStop(route.Stops()[0].ID(), time.Now())
		require.NoError(t, err)

		_, err = route.Cancel("too late", time.Now())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestRestoreRouteProcess(t *testing.T) {
	t.Run("restores status and version", func(t *testing.T) {
		routeID := kernel.NewUUID()
		completedAt := time.Now().UTC()
		stop, err := routeprocess.RestoreRouteStop(
			kernel.NewUUID(), routeID, kernel.NewUUID(), 1, nil, kernel.NewUUID(),
			true, &completedAt, "",
		)
		require.NoError(t, err)

		driverID := kernel.NewUUID()
		createdAt := completedAt.Add(-time.Hour)
		route, err := routeprocess.RestoreRouteProcess(
			routeID, "RT-0007", driverID, nil, routeprocess.StatusInProgress,
			[]*routeprocess.RouteStop{stop}, "", createdAt, &completedAt, nil, nil, 4,
		)

		require.NoError(t, err)
		assert.Equal(t, routeprocess.StatusInProgress, route.Status())
		assert.Equal(t, 4, route.Version())
		assert.Equal(t, driverID, route.DriverID())
		assert.Equal(t, createdAt, route.CreatedAt())
		assert.Nil(t, route.NextStop())
	})

	t.Run("rejects a non-positive version", func(t *testing.T) {
		route := newTestRoute(t, 1)
		_, err := routeprocess.RestoreRouteProcess(
			route.ID(), route.Code(), route.DriverID(), nil, routeprocess.StatusPlanned,
			route.Stops(), "", route.CreatedAt(), nil, nil, nil, 0,
		)
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}
