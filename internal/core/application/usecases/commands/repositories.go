// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"wastetrack/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// WasteRepoFactory provides access to the waste repository within a transaction.
	WasteRepoFactory interface {
		WasteRepository() ports.WasteRepository
	}

	// OperationRepoFactory provides access to the operation log within a transaction.
	OperationRepoFactory interface {
		OperationRepository() ports.OperationRepository
	}

	// BalanceRepoFactory provides access to the ledger within a transaction.
	BalanceRepoFactory interface {
		BalanceRepository() ports.BalanceRepository
	}

	// RouteRepoFactory provides access to the route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// OperationUoW manages transactions for the operation dispatcher. Every
	// dispatched operation touches the record, the ledger, and the audit log
	// in one transaction.
	OperationUoW interface {
		TxManager
		WasteRepoFactory
		OperationRepoFactory
		BalanceRepoFactory
	}

	// OperationUoWFactory creates new dispatcher unit of work instances.
	OperationUoWFactory interface {
		Create() OperationUoW
	}

	// RouteUoW manages transactions for route-only operations.
	RouteUoW interface {
		TxManager
		RouteRepoFactory
	}

	// RouteUoWFactory creates new route unit of work instances.
	RouteUoWFactory interface {
		Create() RouteUoW
	}

	// WasteUoW manages transactions for record metadata updates that bypass
	// the dispatcher, such as sale listings.
	WasteUoW interface {
		TxManager
		WasteRepoFactory
	}

	// WasteUoWFactory creates new waste unit of work instances.
	WasteUoWFactory interface {
		Create() WasteUoW
	}
)
