package balance

import (
	"errors"
	"time"

	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/pkg/errs"
	"wastetrack/internal/pkg/guard"
)

// ErrBalanceIsNotConstructed is returned when using an improperly initialized Balance.
var ErrBalanceIsNotConstructed = errors.New(
	"Balance must be created via NewBalance or RestoreBalance",
)

// Balance is one ledger row: the quantity buckets kept for a single custody
// scope. Rows are created lazily on first credit and updated with an
// optimistic version check.
type Balance struct {
	id  kernel.UUID
	key Key

	generated kernel.Quantity
	inTransit kernel.Quantity
	stored    kernel.Quantity
	disposed  kernel.Quantity
	treated   kernel.Quantity

	lastUpdated time.Time
	version     int

	guard guard.ConstructorGuard
}

// NewBalance creates an empty ledger row for a custody scope.
func NewBalance(id kernel.UUID, key Key) (*Balance, error) {
	if err := errors.Join(id.Validate(), key.Validate()); err != nil {
		return nil, err
	}

	return &Balance{
		id:          id,
		key:         key,
		generated:   kernel.ZeroQuantity(),
		inTransit:   kernel.ZeroQuantity(),
		stored:      kernel.ZeroQuantity(),
		disposed:    kernel.ZeroQuantity(),
		treated:     kernel.ZeroQuantity(),
		lastUpdated: time.Now().UTC(),
		version:     1,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreBalance reconstructs a ledger row from persistent storage.
func RestoreBalance(
	id kernel.UUID,
	key Key,
	generated kernel.Quantity,
	inTransit kernel.Quantity,
	stored kernel.Quantity,
	disposed kernel.Quantity,
	treated kernel.Quantity,
	lastUpdated time.Time,
	version int,
) (*Balance, error) {
	if err := errors.Join(id.Validate(), key.Validate()); err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, errs.NewVersionIsInvalidError("version")
	}

	return &Balance{
		id:          id,
		key:         key,
		generated:   generated,
		inTransit:   inTransit,
		stored:      stored,
		disposed:    disposed,
		treated:     treated,
		lastUpdated: lastUpdated,
		version:     version,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Credit adds quantity to one bucket.
func (b *Balance) Credit(category Category, quantity kernel.Quantity, at time.Time) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := category.Validate(); err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return errs.NewValueIsRequiredError("quantity")
	}

	b.setBucket(category, b.bucket(category).Add(quantity))
	b.lastUpdated = at
	return nil
}

// Debit removes quantity from one bucket. The generated bucket is a
// cumulative total and can never be debited; other buckets cannot go
// negative.
func (b *Balance) Debit(category Category, quantity kernel.Quantity, at time.Time) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := category.Validate(); err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return errs.NewValueIsRequiredError("quantity")
	}
	if category == CategoryGenerated {
		return errs.NewValueIsInvalidError("category")
	}

	bucket := b.bucket(category)
	if bucket.LessThan(quantity) {
		return errs.NewInsufficientQuantityError(
			category.String(), quantity.String(), bucket.String(),
		)
	}

	updated, err := bucket.Sub(quantity)
	if err != nil {
		return err
	}
	b.setBucket(category, updated)
	b.lastUpdated = at
	return nil
}

func (b *Balance) bucket(category Category) kernel.Quantity {
	switch category {
	case CategoryGenerated:
		return b.generated
	case CategoryInTransit:
		return b.inTransit
	case CategoryStored:
		return b.stored
	case CategoryDisposed:
		return b.disposed
	case CategoryTreated:
		return b.treated
	default:
		return kernel.ZeroQuantity()
	}
}

func (b *Balance) setBucket(category Category, quantity kernel.Quantity) {
	switch category {
	case CategoryGenerated:
		b.generated = quantity
	case CategoryInTransit:
		b.inTransit = quantity
	case CategoryStored:
		b.stored = quantity
	case CategoryDisposed:
		b.disposed = quantity
	case CategoryTreated:
		b.treated = quantity
	}
}

// Validate ensures the balance was properly constructed.
func (b *Balance) Validate() error {
	if b == nil {
		return ErrBalanceIsNotConstructed
	}
	return b.guard.Validate(ErrBalanceIsNotConstructed)
}

// ID returns the row's unique identifier.
func (b *Balance) ID() kernel.UUID { return b.id }

// Key returns the custody scope this row is kept for.
func (b *Balance) Key() Key { return b.key }

// Amount returns the current quantity of one bucket.
func (b *Balance) Amount(category Category) kernel.Quantity { return b.bucket(category) }

// Generated returns the cumulative generated quantity.
func (b *Balance) Generated() kernel.Quantity { return b.generated }

// InTransit returns the quantity currently moving between facilities.
func (b *Balance) InTransit() kernel.Quantity { return b.inTransit }

// Stored returns the quantity at rest in the facility.
func (b *Balance) Stored() kernel.Quantity { return b.stored }

// Disposed returns the quantity finalized through disposal.
func (b *Balance) Disposed() kernel.Quantity { return b.disposed }

// Treated returns the quantity that left custody through treatment or
// handover. Transform, Sell, Deliver and Reuse all credit this bucket: it
// collects every terminal outcome other than disposal, so the conservation
// inequality (Generated >= InTransit + Stored + Disposed + Treated) keeps
// holding without a bucket per terminal status.
func (b *Balance) Treated() kernel.Quantity { return b.treated }

// LastUpdated returns the time of the latest bucket adjustment.
func (b *Balance) LastUpdated() time.Time { return b.lastUpdated }

// Version returns the optimistic concurrency version of the row.
func (b *Balance) Version() int { return b.version }
