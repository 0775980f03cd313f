// Package jobs provides scheduled background tasks for the custody tracking system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic watchdog checks over the custody data.
//
// # Available Jobs
//
// 1. StaleRouteJob - Periodically flags in-progress routes that have been running longer than the configured threshold
// 2. BalanceAuditJob - Periodically re-checks mass conservation across the ledger
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(routeUoWFactory, operationUoWFactory, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both jobs are observers: they log findings and never mutate custody data.
// A finding signals an operational problem (a stuck vehicle, a bookkeeping
// bug) that a human has to look at; automatic correction would hide it.
package jobs
