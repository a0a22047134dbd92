package sim

import (
	"time"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/order"
)

// CreateExecutor is the mutable runtime wrapper around one priced
// order. It consumes priced ticks, may produce fills, and supports
// cancel and update.
type CreateExecutor interface {
	// Order returns the underlying instruction.
	Order() order.Order

	// Asset returns the asset the executor needs a price for.
	Asset() asset.Asset

	// Status returns the current lifecycle status.
	Status() order.Status

	// Execute processes one priced tick and returns zero or more fills.
	Execute(pricing Pricing, t time.Time) []order.Execution

	// Cancel closes the executor. It returns false if the executor was
	// already closed; repeated cancels never change the status again.
	Cancel(t time.Time) bool

	// Update swaps the underlying order in place. It returns false if
	// the executor is closed, its time-in-force has already lapsed, or
	// the replacement changes the order's size.
	Update(o order.SingleOrder, t time.Time) bool
}

// ModifyExecutor acts on existing create-executors. Modify executors
// run on every tick regardless of prices, never produce fills, and are
// single-shot: they close on their first evaluation.
type ModifyExecutor interface {
	// Order returns the underlying modify instruction.
	Order() order.Order

	// Status returns the current lifecycle status.
	Status() order.Status

	// Execute resolves the modification against the open
	// create-executors, keyed by the id of their underlying order.
	Execute(open map[string]CreateExecutor, t time.Time)
}
