package jobs

import (
	"fmt"
	"log/slog"

	"wastetrack/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleRouteJob   *StaleRouteJob
	balanceAuditJob *BalanceAuditJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes unit of work factories as dependencies to wire up the job execution.
func NewJobManager(
	routeUoWFactory commands.RouteUoWFactory,
	operationUoWFactory commands.OperationUoWFactory,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleRouteJob:   NewStaleRouteJob(routeUoWFactory, logger),
		balanceAuditJob: NewBalanceAuditJob(operationUoWFactory, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleRouteJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale route job: %w", err)
	}

	if err := jm.balanceAuditJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.staleRouteJob.Stop()
		return fmt.Errorf("failed to start balance audit job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.balanceAuditJob.Stop()
	jm.staleRouteJob.Stop()
}
