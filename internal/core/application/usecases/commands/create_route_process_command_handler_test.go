package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wastetrack/internal/core/application/usecases/commands"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/routeprocess"
	"wastetrack/internal/core/ports"
	"wastetrack/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, route *routeprocess.RouteProcess) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}
func (m *MockRouteRepository) Update(ctx context.Context, route *routeprocess.RouteProcess) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}
func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*routeprocess.RouteProcess, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routeprocess.RouteProcess), args.Error(1)
}
func (m *MockRouteRepository) GetAllStartedBefore(
	_ context.Context, _ time.Time,
) ([]*routeprocess.RouteProcess, error) {
	return nil, errors.New("not implemented in mock")
}

type MockRouteUoW struct{ mock.Mock }

func (m *MockRouteUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRouteUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRouteUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRouteUoW) RouteRepository() ports.RouteRepository {
	args := m.Called()
	return args.Get(0).(ports.RouteRepository)
}

type MockRouteUoWFactory struct{ mock.Mock }

func (m *MockRouteUoWFactory) Create() commands.RouteUoW {
	args := m.Called()
	return args.Get(0).(commands.RouteUoW)
}

func validStops(count int) []commands.StopSpec {
	stops := make([]commands.StopSpec, 0, count)
	for i := 1; i <= count; i++ {
		stops = append(stops, commands.StopSpec{
			LocationID:         kernel.NewUUID(),
			SequenceOrder:      i,
			ResponsiblePartyID: kernel.NewUUID(),
		})
	}
	return stops
}

func TestCreateRouteProcessCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateRouteProcessCommand(
		kernel.NewUUID(), "RT-0001", kernel.NewUUID(), nil, validStops(2),
	)
	require.NoError(t, err)

	repo := new(MockRouteRepository)
	uow := new(MockRouteUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*routeprocess.RouteProcess")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateRouteProcessCommandHandler(factory)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateRouteProcessCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateRouteProcessCommand{} // not constructed properly
	factory := new(MockRouteUoWFactory)
	h := commands.NewCreateRouteProcessCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateRouteProcessCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateRouteProcessCommand(
		kernel.NewUUID(), "RT-0001", kernel.NewUUID(), nil, validStops(1),
	)
	require.NoError(t, err)

	repo := new(MockRouteRepository)
	uow := new(MockRouteUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*routeprocess.RouteProcess")).
			Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateRouteProcessCommandHandler(factory)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestNewCreateRouteProcessCommand(t *testing.T) {
	t.Run("requires a code", func(t *testing.T) {
		_, err := commands.NewCreateRouteProcessCommand(
			kernel.NewUUID(), "", kernel.NewUUID(), nil, validStops(1),
		)
		require.ErrorIs(t, err, commands.ErrRouteCodeIsRequired)
	})

	t.Run("requires a driver", func(t *testing.T) {
		var noDriver kernel.UUID
		_, err := commands.NewCreateRouteProcessCommand(
			kernel.NewUUID(), "RT-1", noDriver, nil, validStops(1),
		)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires stops", func(t *testing.T) {
		_, err := commands.NewCreateRouteProcessCommand(
			kernel.NewUUID(), "RT-1", kernel.NewUUID(), nil, nil,
		)
		require.ErrorIs(t, err, commands.ErrRouteStopsAreMissing)
	})

	t.Run("rejects an invalid stop", func(t *testing.T) {
		stops := validStops(1)
		stops[0].SequenceOrder = 0
		_, err := commands.NewCreateRouteProcessCommand(
			kernel.NewUUID(), "RT-1", kernel.NewUUID(), nil, stops,
		)
		require.Error(t, err)
	})
}
