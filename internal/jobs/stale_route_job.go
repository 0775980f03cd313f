package jobs

import (
	"context"
	"log/slog"
	"time"

	"wastetrack/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// staleRouteThreshold is how long a route may stay in progress before the
// watchdog flags it.
const staleRouteThreshold = 24 * time.Hour

// StaleRouteJob periodically flags in-progress routes that started longer ago
// than the threshold. Stuck routes are logged, never touched: closing them is
// an operator decision.
type StaleRouteJob struct {
	uowFactory commands.RouteUoWFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleRouteJob creates a watchdog over long-running routes.
func NewStaleRouteJob(uowFactory commands.RouteUoWFactory, logger *slog.Logger) *StaleRouteJob {
	return &StaleRouteJob{
		uowFactory: uowFactory,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_route_job"),
	}
}

// Start begins the stale route check, running every minute.
func (j *StaleRouteJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		j.run(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale route job started (running every minute)")
	return nil
}

// Stop stops the stale route check.
func (j *StaleRouteJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale route job stopped")
}

func (j *StaleRouteJob) run(ctx context.Context) {
	uow := j.uowFactory.Create()

	cutoff := time.Now().UTC().Add(-staleRouteThreshold)
	routes, err := uow.RouteRepository().GetAllStartedBefore(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale route check failed", "error", err)
		return
	}

	for _, route := range routes {
		next := route.NextStop()
		nextStopID := ""
		if next != nil {
			nextStopID = next.ID().String()
		}

		j.logger.WarnContext(ctx, "Route in progress past threshold",
			"route_id", route.ID().String(),
			"code", route.Code(),
			"started_at", route.StartedAt(),
			"next_stop_id", nextStopID,
		)
	}
}
