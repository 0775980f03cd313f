package cmd

import (
	"log/slog"

	"wastetrack/internal/adapters/out/eventbus"
	"wastetrack/internal/adapters/out/postgres"
	"wastetrack/internal/core/application/usecases/commands"
	"wastetrack/internal/core/application/usecases/queries"
	"wastetrack/internal/core/ports"
	"wastetrack/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	eventBus   *eventbus.InMemoryRouteEventBus
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		eventBus:   eventbus.NewInMemoryRouteEventBus(logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateExecuteOperationCommandHandler() commands.ExecuteOperationCommandHandler {
	return commands.NewExecuteOperationCommandHandler(c.operationUoWFactory())
}

func (c *CompositionRoot) CreateListWasteForSaleCommandHandler() commands.ListWasteForSaleCommandHandler {
	var f commands.WasteUoWFactory = FuncWasteUoWFactory(func() commands.WasteUoW {
		return c.uowFactory.Create()
	})
	return commands.NewListWasteForSaleCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateRouteProcessCommandHandler() commands.CreateRouteProcessCommandHandler {
	return commands.NewCreateRouteProcessCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateStartRouteCommandHandler() commands.StartRouteCommandHandler {
	return commands.NewStartRouteCommandHandler(c.routeUoWFactory(), c.eventBus, c.logger)
}

func (c *CompositionRoot) CreateCompleteStopCommandHandler() commands.CompleteStopCommandHandler {
	dispatcher := c.CreateExecuteOperationCommandHandler()
	return commands.NewCompleteStopCommandHandler(c.routeUoWFactory(), &dispatcher, c.eventBus, c.logger)
}

func (c *CompositionRoot) CreateCancelRouteCommandHandler() commands.CancelRouteCommandHandler {
	return commands.NewCancelRouteCommandHandler(c.routeUoWFactory(), c.eventBus, c.logger)
}

func (c *CompositionRoot) CreateGetHistoryQueryHandler() queries.GetHistoryQueryHandler {
	return queries.NewGetHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBalanceQueryHandler() queries.GetBalanceQueryHandler {
	return queries.NewGetBalanceQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetListedWasteQueryHandler() queries.GetListedWasteQueryHandler {
	return queries.NewGetListedWasteQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.routeUoWFactory(), c.operationUoWFactory(), c.logger)
}

func (c *CompositionRoot) RouteEventStream() ports.RouteEventStream {
	return c.eventBus
}

func (c *CompositionRoot) CloseEventBus() {
	c.eventBus.Close()
}

func (c *CompositionRoot) operationUoWFactory() commands.OperationUoWFactory {
	return FuncOperationUoWFactory(func() commands.OperationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) routeUoWFactory() commands.RouteUoWFactory {
	return FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.uowFactory.Create()
	})
}

type FuncOperationUoWFactory func() commands.OperationUoW

func (f FuncOperationUoWFactory) Create() commands.OperationUoW {
	return f()
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}

type FuncWasteUoWFactory func() commands.WasteUoW

func (f FuncWasteUoWFactory) Create() commands.WasteUoW {
	return f()
}
