package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"wastetrack/internal/core/application/usecases/commands"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/core/domain/model/routeprocess"
	"wastetrack/internal/core/ports"
	"wastetrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouteRepo struct {
	routes map[string]*routeprocess.RouteProcess
}

func (r *fakeRouteRepo) Add(_ context.Context, route *routeprocess.RouteProcess) error {
	r.routes[route.ID().String()] = route
	return nil
}

func (r *fakeRouteRepo) Update(_ context.Context, route *routeprocess.RouteProcess) error {
	r.routes[route.ID().String()] = route
	return nil
}

func (r *fakeRouteRepo) Get(_ context.Context, id kernel.UUID) (*routeprocess.RouteProcess, error) {
	route, ok := r.routes[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("routeID", id)
	}
	return route, nil
}

func (r *fakeRouteRepo) GetAllStartedBefore(
	_ context.Context, before time.Time,
) ([]*routeprocess.RouteProcess, error) {
	var stale []*routeprocess.RouteProcess
	for _, route := range r.routes {
		if route.Status() == routeprocess.StatusInProgress &&
			route.StartedAt() != nil && route.StartedAt().Before(before) {
			stale = append(stale, route)
		}
	}
	return stale, nil
}

type fakeRouteUoW struct {
	repo *fakeRouteRepo
}

func (u *fakeRouteUoW) Begin(context.Context) error            { return nil }
func (u *fakeRouteUoW) Commit(context.Context) error           { return nil }
func (u *fakeRouteUoW) Rollback(context.Context) error         { return nil }
func (u *fakeRouteUoW) RouteRepository() ports.RouteRepository { return u.repo }

type fakeRouteUoWFactory struct {
	uow *fakeRouteUoW
}

func (f *fakeRouteUoWFactory) Create() commands.RouteUoW { return f.uow }

type capturePublisher struct {
	events []routeprocess.ChangeEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event routeprocess.ChangeEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type stubDispatcher struct {
	err   error
	calls []commands.ExecuteOperationCommand
}

func (d *stubDispatcher) Handle(
	_ context.Context, cmd commands.ExecuteOperationCommand,
) (commands.Result, error) {
	d.calls = append(d.calls, cmd)
	if d.err != nil {
		return commands.Result{}, d.err
	}
	return commands.Result{OperationID: kernel.NewUUID(), WasteID: kernel.NewUUID()}, nil
}

type routeFixture struct {
	t          *testing.T
	repo       *fakeRouteRepo
	dispatcher *stubDispatcher
	publisher  *capturePublisher
	handler    commands.CompleteStopCommandHandler
}

func newRouteFixture(t *testing.T) *routeFixture {
	t.Helper()
	repo := &fakeRouteRepo{routes: make(map[string]*routeprocess.RouteProcess)}
	dispatcher := &stubDispatcher{}
	publisher := &capturePublisher{}
	factory := &fakeRouteUoWFactory{uow: &fakeRouteUoW{repo: repo}}
	return &routeFixture{
		t:          t,
		repo:       repo,
		dispatcher: dispatcher,
		publisher:  publisher,
		handler:    commands.NewCompleteStopCommandHandler(factory, dispatcher, publisher, slog.Default()),
	}
}

// addRoute stores an in-progress route whose stops carry the given operation
// types (nil entries are plain visits).
func (f *routeFixture) addRoute(operationTypes ...*operation.Type) *routeprocess.RouteProcess {
	f.t.Helper()

	routeID := kernel.NewUUID()
	stops := make([]*routeprocess.RouteStop, 0, len(operationTypes))
	for i, opType := range operationTypes {
		stop, err := routeprocess.NewRouteStop(
			kernel.NewUUID(), routeID, kernel.NewUUID(), i+1, opType, kernel.NewUUID(), "",
		)
		require.NoError(f.t, err)
		stops = append(stops, stop)
	}

	route, err := routeprocess.NewRouteProcess(
		routeID, "RT-0001", kernel.NewUUID(), nil, stops, time.Now().UTC(),
	)
	require.NoError(f.t, err)
	_, err = route.Start(time.Now().UTC())
	require.NoError(f.t, err)
	f.repo.routes[routeID.String()] = route
	return route
}

func (f *routeFixture) completeStop(
	route *routeprocess.RouteProcess, stopID kernel.UUID, opCmd *commands.ExecuteOperationCommand,
) error {
	f.t.Helper()
	cmd, err := commands.NewCompleteStopCommand(route.ID(), stopID, opCmd)
	require.NoError(f.t, err)
	return f.handler.Handle(f.t.Context(), cmd)
}

func collectCommand(t *testing.T) *commands.ExecuteOperationCommand {
	t.Helper()
	cmd, err := commands.NewExecuteOperationCommand(
		operation.CollectParams{
			WasteID:   kernel.NewUUID(),
			Quantity:  mustQuantity(t, "10"),
			VehicleID: kernel.NewUUID(),
		},
		kernel.NewUUID(), kernel.NewUUID(), "",
	)
	require.NoError(t, err)
	return &cmd
}

func TestCompleteStopCommandHandler_Handle(t *testing.T) {
	t.Run("plain visits complete in order", func(t *testing.T) {
		f := newRouteFixture(t)
		route := f.addRoute(nil, nil)

		require.NoError(t, f.completeStop(route, route.Stops()[0].ID(), nil))
		assert.Empty(t, f.publisher.events)
		assert.Empty(t, f.dispatcher.calls)

		require.NoError(t, f.completeStop(route, route.Stops()[1].ID(), nil))
		assert.Equal(t, routeprocess.StatusCompleted, route.Status())
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, routeprocess.StatusCompleted, f.publisher.events[0].NewStatus)
	})

	t.Run("out-of-order completion is rejected before dispatch", func(t *testing.T) {
		f := newRouteFixture(t)
		collect := operation.TypeCollect
		route := f.addRoute(nil, &collect)

		err := f.completeStop(route, route.Stops()[1].ID(), collectCommand(t))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Empty(t, f.dispatcher.calls)
		assert.False(t, route.Stops()[1].IsCompleted())
	})

	t.Run("waste-action stop dispatches the operation first", func(t *testing.T) {
		f := newRouteFixture(t)
		collect := operation.TypeCollect
		route := f.addRoute(&collect)

		require.NoError(t, f.completeStop(route, route.Stops()[0].ID(), collectCommand(t)))
		require.Len(t, f.dispatcher.calls, 1)
		assert.Equal(t, routeprocess.StatusCompleted, route.Status())
	})

	t.Run("dispatch failure aborts the stop", func(t *testing.T) {
		f := newRouteFixture(t)
		f.dispatcher.err = errs.NewInsufficientQuantityError("Stored", "10", "0")
		collect := operation.TypeCollect
		route := f.addRoute(&collect)

		err := f.completeStop(route, route.Stops()[0].ID(), collectCommand(t))
		require.ErrorIs(t, err, errs.ErrInsufficientQuantity)
		assert.False(t, route.Stops()[0].IsCompleted())
		assert.Equal(t, routeprocess.StatusInProgress, route.Status())
		assert.Empty(t, f.publisher.events)
	})

	t.Run("operation command must match the stop's type", func(t *testing.T) {
		f := newRouteFixture(t)
		deliver := operation.TypeDeliver
		route := f.addRoute(&deliver)

		err := f.completeStop(route, route.Stops()[0].ID(), collectCommand(t))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Empty(t, f.dispatcher.calls)
	})

	t.Run("waste-action stop requires an operation command", func(t *testing.T) {
		f := newRouteFixture(t)
		collect := operation.TypeCollect
		route := f.addRoute(&collect)

		err := f.completeStop(route, route.Stops()[0].ID(), nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("plain visit rejects an operation command", func(t *testing.T) {
		f := newRouteFixture(t)
		route := f.addRoute(nil)

		err := f.completeStop(route, route.Stops()[0].ID(), collectCommand(t))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("route must be in progress", func(t *testing.T) {
		f := newRouteFixture(t)
		route := f.addRoute(nil)
		_, err := route.Cancel("rain", time.Now().UTC())
		require.NoError(t, err)

		err = f.completeStop(route, route.Stops()[0].ID(), nil)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("publish failure does not fail the committed completion", func(t *testing.T) {
		f := newRouteFixture(t)
		f.publisher.err = context.DeadlineExceeded
		route := f.addRoute(nil)

		require.NoError(t, f.completeStop(route, route.Stops()[0].ID(), nil))
		assert.Equal(t, routeprocess.StatusCompleted, route.Status())
	})
}
