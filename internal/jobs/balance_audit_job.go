package jobs

import (
	"context"
	"log/slog"

	"wastetrack/internal/core/application/usecases/commands"
	"wastetrack/internal/core/domain/model/balance"
	"wastetrack/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// BalanceAuditJob periodically re-checks mass conservation across the ledger.
// The generated buckets are cumulative, so summed over all rows the material
// sitting in the other buckets can never exceed what was ever generated.
// A violation means a bookkeeping bug and is logged, never corrected.
type BalanceAuditJob struct {
	uowFactory commands.OperationUoWFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewBalanceAuditJob creates the ledger conservation audit.
func NewBalanceAuditJob(uowFactory commands.OperationUoWFactory, logger *slog.Logger) *BalanceAuditJob {
	return &BalanceAuditJob{
		uowFactory: uowFactory,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "balance_audit_job"),
	}
}

// Start begins the conservation audit, running every five minutes.
func (j *BalanceAuditJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()
		j.run(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Balance audit job started (running every five minutes)")
	return nil
}

// Stop stops the conservation audit.
func (j *BalanceAuditJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Balance audit job stopped")
}

func (j *BalanceAuditJob) run(ctx context.Context) {
	uow := j.uowFactory.Create()

	rows, err := uow.BalanceRepository().Query(ctx, balance.Filter{})
	if err != nil {
		j.logger.ErrorContext(ctx, "Balance audit failed", "error", err)
		return
	}

	generated := kernel.ZeroQuantity()
	accounted := kernel.ZeroQuantity()

	for _, row := range rows {
		generated = generated.Add(row.Generated())
		accounted = accounted.
			Add(row.InTransit()).
			Add(row.Stored()).
			Add(row.Disposed()).
			Add(row.Treated())
	}

	if generated.LessThan(accounted) {
		j.logger.ErrorContext(ctx, "Ledger conservation violated",
			"generated_total", generated.String(),
			"accounted_total", accounted.String(),
		)
		return
	}

	j.logger.InfoContext(ctx, "Balance audit passed",
		"rows", len(rows),
		"generated_total", generated.String(),
		"accounted_total", accounted.String(),
	)
}
