package commands

import (
	"errors"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/operation"
	"wastetrack/internal/pkg/guard"
)

var (
	ErrExecuteOperationCommandIsNotConstructed = errors.New(
		"ExecuteOperationCommand must be created via NewExecuteOperationCommand constructor",
	)
	ErrParamsAreRequired = errors.New("operation params are required")
)

// ExecuteOperationCommand represents a request to execute one management
// operation against a waste lot. The parameter shape carries the operation
// type; the idempotency key makes retries safe.
//
// Example:
//
//	cmd, err := NewExecuteOperationCommand(params, actorID, kernel.NewUUID(), "")
//	if err != nil {
//	    return fmt.Errorf("invalid operation request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("operation failed: %w", err)
//	}
type ExecuteOperationCommand struct { //nolint:recvcheck //using for validation
	params         operation.Params
	executedByID   kernel.UUID
	idempotencyKey kernel.UUID
	notes          string

	guard guard.ConstructorGuard
}

// NewExecuteOperationCommand creates a command to execute a management
// operation. Validates the parameter shape, the executing actor, and the
// idempotency key.
func NewExecuteOperationCommand(
	params operation.Params,
	executedByID kernel.UUID,
	idempotencyKey kernel.UUID,
	notes string,
) (ExecuteOperationCommand, error) {
	operationCommand := ExecuteOperationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		operationCommand.setParams(params),
		operationCommand.setExecutedByID(executedByID),
		operationCommand.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return ExecuteOperationCommand{}, err
	}

	operationCommand.notes = notes
	return operationCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrExecuteOperationCommandIsNotConstructed if validation fails.
func (c ExecuteOperationCommand) Validate() error {
	return c.guard.Validate(ErrExecuteOperationCommandIsNotConstructed)
}

// Params returns the typed operation parameters.
func (c ExecuteOperationCommand) Params() operation.Params {
	return c.params
}

// ExecutedByID returns the actor executing the operation.
func (c ExecuteOperationCommand) ExecutedByID() kernel.UUID {
	return c.executedByID
}

// IdempotencyKey returns the caller-supplied retry key.
func (c ExecuteOperationCommand) IdempotencyKey() kernel.UUID {
	return c.idempotencyKey
}

// Notes returns free-form remarks to attach to the audit fact.
func (c ExecuteOperationCommand) Notes() string {
	return c.notes
}

func (c *ExecuteOperationCommand) setParams(params operation.Params) error {
	if params == nil {
		return ErrParamsAreRequired
	}
	if err := params.Validate(); err != nil {
		return err
	}

	c.params = params
	return nil
}

func (c *ExecuteOperationCommand) setExecutedByID(executedByID kernel.UUID) error {
	if err := executedByID.Validate(); err != nil {
		return err
	}

	c.executedByID = executedByID
	return nil
}

func (c *ExecuteOperationCommand) setIdempotencyKey(idempotencyKey kernel.UUID) error {
	if err := idempotencyKey.Validate(); err != nil {
		return err
	}

	c.idempotencyKey = idempotencyKey
	return nil
}
