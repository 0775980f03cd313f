package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"wastetrack/internal/core/application/usecases/commands"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/routeprocess"
	"wastetrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannedRoute(t *testing.T, repo *fakeRouteRepo) *routeprocess.RouteProcess {
	t.Helper()

	routeID := kernel.NewUUID()
	stop, err := routeprocess.NewRouteStop(
		kernel.NewUUID(), routeID, kernel.NewUUID(), 1, nil, kernel.NewUUID(), "",
	)
	require.NoError(t, err)

	route, err := routeprocess.NewRouteProcess(
		routeID, "RT-0002", kernel.NewUUID(), nil,
		[]*routeprocess.RouteStop{stop}, time.Now().UTC(),
	)
	require.NoError(t, err)
	repo.routes[routeID.String()] = route
	return route
}

func TestStartRouteCommandHandler_Handle(t *testing.T) {
	t.Run("starts and publishes after commit", func(t *testing.T) {
		repo := &fakeRouteRepo{routes: make(map[string]*routeprocess.RouteProcess)}
		publisher := &capturePublisher{}
		route := plannedRoute(t, repo)

		h := commands.NewStartRouteCommandHandler(
			&fakeRouteUoWFactory{uow: &fakeRouteUoW{repo: repo}}, publisher, slog.Default(),
		)
		cmd, err := commands.NewStartRouteCommand(route.ID())
		require.NoError(t, err)

		require.NoError(t, h.Handle(t.Context(), cmd))
		assert.Equal(t, routeprocess.StatusInProgress, route.Status())
		require.Len(t, publisher.events, 1)
		assert.Equal(t, routeprocess.StatusPlanned, publisher.events[0].OldStatus)
		assert.Equal(t, routeprocess.StatusInProgress, publisher.events[0].NewStatus)
	})

	t.Run("unknown route is reported", func(t *testing.T) {
		repo := &fakeRouteRepo{routes: make(map[string]*routeprocess.RouteProcess)}
		h := commands.NewStartRouteCommandHandler(
			&fakeRouteUoWFactory{uow: &fakeRouteUoW{repo: repo}}, &capturePublisher{}, slog.Default(),
		)

		cmd, err := commands.NewStartRouteCommand(kernel.NewUUID())
		require.NoError(t, err)
		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrObjectNotFound)
	})

	t.Run("publish failure does not fail the committed start", func(t *testing.T) {
		repo := &fakeRouteRepo{routes: make(map[string]*routeprocess.RouteProcess)}
		publisher := &capturePublisher{err: context.DeadlineExceeded}
		route := plannedRoute(t, repo)

		h := commands.NewStartRouteCommandHandler(
			&fakeRouteUoWFactory{uow: &fakeRouteUoW{repo: repo}}, publisher, slog.Default(),
		)
		cmd, err := commands.NewStartRouteCommand(route.ID())
		require.NoError(t, err)

		require.NoError(t, h.Handle(t.Context(), cmd))
		assert.Equal(t, routeprocess.StatusInProgress, route.Status())
	})
}

func TestCancelRouteCommandHandler_Handle(t *testing.T) {
	t.Run("cancels an in-progress route and keeps completed stops", func(t *testing.T) {
		repo := &fakeRouteRepo{routes: make(map[string]*routeprocess.RouteProcess)}
		publisher := &capturePublisher{}
		route := plannedRoute(t, repo)
		_, err := route.Start(time.Now().UTC())
		require.NoError(t, err)

		h := commands.NewCancelRouteCommandHandler(
			&fakeRouteUoWFactory{uow: &fakeRouteUoW{repo: repo}}, publisher, slog.Default(),
		)
		cmd, err := commands.NewCancelRouteCommand(route.ID(), "vehicle breakdown")
		require.NoError(t, err)

		require.NoError(t, h.Handle(t.Context(), cmd))
		assert.Equal(t, routeprocess.StatusCancelled, route.Status())
		assert.Equal(t, "vehicle breakdown", route.CancelReason())
		require.Len(t, publisher.events, 1)
		assert.Equal(t, "vehicle breakdown", publisher.events[0].Reason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		_, err := commands.NewCancelRouteCommand(kernel.NewUUID(), "")
		require.ErrorIs(t, err, commands.ErrCancelReasonIsRequired)
	})

	t.Run("completed route cannot be cancelled", func(t *testing.T) {
		repo := &fakeRouteRepo{routes: make(map[string]*routeprocess.RouteProcess)}
		route := plannedRoute(t, repo)
		_, err := route.Start(time.Now().UTC())
		require.NoError(t, err)
		_, err = route.CompleteStop(route.Stops()[0].ID(), time.Now().UTC())
		require.NoError(t, err)

		h := commands.NewCancelRouteCommandHandler(
			&fakeRouteUoWFactory{uow: &fakeRouteUoW{repo: repo}}, &capturePublisher{}, slog.Default(),
		)
		cmd, err := commands.NewCancelRouteCommand(route.ID(), "too late")
		require.NoError(t, err)
		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrInvalidTransition)
	})

	t.Run("publish failure does not fail the committed cancellation", func(t *testing.T) {
		repo := &fakeRouteRepo{routes: make(map[string]*routeprocess.RouteProcess)}
		publisher := &capturePublisher{err: context.DeadlineExceeded}
		route := plannedRoute(t, repo)

		h := commands.NewCancelRouteCommandHandler(
			&fakeRouteUoWFactory{uow: &fakeRouteUoW{repo: repo}}, publisher, slog.Default(),
		)
		cmd, err := commands.NewCancelRouteCommand(route.ID(), "depot closure")
		require.NoError(t, err)

		require.NoError(t, h.Handle(t.Context(), cmd))
		assert.Equal(t, routeprocess.StatusCancelled, route.Status())
		require.NotNil(t, route.CancelledAt())
	})
}
