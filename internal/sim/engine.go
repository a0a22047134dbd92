package sim

import (
	"github.com/quantsim/simbroker/internal/feed"
	"github.com/quantsim/simbroker/internal/order"
)

// ExecutionEngine orchestrates all open executors for each tick. It is
// single-threaded and synchronous: one tick is fully processed before
// the next begins, and the engine owns every piece of mutable state it
// touches, so it needs no locking.
type ExecutionEngine struct {
	registry *Registry
	pricing  PricingEngine
	creates  []CreateExecutor
	modifies []ModifyExecutor
}

// NewExecutionEngine creates an engine with the given registry and
// pricing model.
func NewExecutionEngine(registry *Registry, pricing PricingEngine) *ExecutionEngine {
	return &ExecutionEngine{registry: registry, pricing: pricing}
}

// Add validates an order and appends its executor to the open
// collections. An unregistered order variant is a configuration error.
func (e *ExecutionEngine) Add(o order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	create, modify, err := e.registry.newExecutor(o)
	if err != nil {
		return err
	}
	if create != nil {
		e.creates = append(e.creates, create)
	} else {
		e.modifies = append(e.modifies, modify)
	}
	return nil
}

// Execute processes one event:
//
//  1. every open modify-executor runs against the current
//     create-executor set — always, independent of prices;
//  2. every open create-executor whose asset has a price observation
//     this tick is driven against the pricing model, in insertion
//     order. Assets without an observation are skipped entirely; there
//     are no fills at stale prices.
//
// Closed executors stay in the collections until RemoveClosed is
// called; compaction is kept out of the per-tick path.
func (e *ExecutionEngine) Execute(ev feed.Event) []order.Execution {
	open := make(map[string]CreateExecutor, len(e.creates))
	for _, c := range e.creates {
		if c.Status().IsOpen() {
			open[c.Order().ID()] = c
		}
	}

	for _, m := range e.modifies {
		if m.Status().IsOpen() {
			m.Execute(open, ev.Time)
		}
	}

	var execs []order.Execution
	for _, c := range e.creates {
		if c.Status().IsClosed() {
			continue
		}
		bar, ok := ev.Price(c.Asset())
		if !ok {
			continue
		}
		pricing := e.pricing.Price(bar, ev.Time)
		execs = append(execs, c.Execute(pricing, ev.Time)...)
	}
	return execs
}

// Statuses returns the current status of every known executor, keyed by
// order id. Used by the broker to sync account order state after a tick.
func (e *ExecutionEngine) Statuses() map[string]order.Status {
	out := make(map[string]order.Status, len(e.creates)+len(e.modifies))
	for _, c := range e.creates {
		out[c.Order().ID()] = c.Status()
	}
	for _, m := range e.modifies {
		out[m.Order().ID()] = m.Status()
	}
	return out
}

// RemoveClosed compacts the open collections, dropping executors whose
// orders have closed.
func (e *ExecutionEngine) RemoveClosed() {
	creates := e.creates[:0]
	for _, c := range e.creates {
		if c.Status().IsOpen() {
			creates = append(creates, c)
		}
	}
	e.creates = creates

	modifies := e.modifies[:0]
	for _, m := range e.modifies {
		if m.Status().IsOpen() {
			modifies = append(modifies, m)
		}
	}
	e.modifies = modifies
}

// Clear removes all pending orders and resets the pricing model. The
// registry is left untouched.
func (e *ExecutionEngine) Clear() {
	e.creates = nil
	e.modifies = nil
	e.pricing.Clear()
}
