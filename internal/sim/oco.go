package sim

import (
	"time"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/order"
)

// ocoExecutor drives a one-cancels-other pair. Until either child has
// filled, both are driven in order; the first child to produce any fill
// becomes the sole active child for the remainder of the order's life.
// The sibling is abandoned, not cancelled at the market — its status
// simply freezes at its pre-abandonment value and it is never driven
// again.
type ocoExecutor struct {
	o      order.OCOOrder
	first  *SingleExecutor
	second *SingleExecutor
	active *SingleExecutor // nil until a child fills
	status order.Status
}

// NewOCOExecutor wraps a one-cancels-other order.
func NewOCOExecutor(o order.OCOOrder) CreateExecutor {
	return &ocoExecutor{
		o:      o,
		first:  NewSingleExecutor(o.First),
		second: NewSingleExecutor(o.Second),
		status: order.Initial,
	}
}

func (e *ocoExecutor) Order() order.Order   { return e.o }
func (e *ocoExecutor) Asset() asset.Asset   { return e.o.First.Asset }
func (e *ocoExecutor) Status() order.Status { return e.status }

func (e *ocoExecutor) Execute(pricing Pricing, t time.Time) []order.Execution {
	if e.status.IsClosed() {
		return nil
	}
	if e.status == order.Initial {
		e.status = order.Accepted
	}

	var execs []order.Execution
	if e.active == nil {
		if e.first.Status().IsOpen() {
			execs = e.first.Execute(pricing, t)
			if len(execs) > 0 {
				e.active = e.first
			}
		}
		if e.active == nil && e.second.Status().IsOpen() {
			execs = e.second.Execute(pricing, t)
			if len(execs) > 0 {
				e.active = e.second
			}
		}
	} else {
		execs = e.active.Execute(pricing, t)
	}

	switch {
	case e.active != nil:
		if s := e.active.Status(); s.IsClosed() {
			e.status = s
		}
	case e.first.Status().IsClosed() && e.second.Status().IsClosed():
		// Neither child ever filled and both lapsed on their own.
		e.status = e.first.Status()
	}
	return execs
}

// Cancel cancels both children.
func (e *ocoExecutor) Cancel(t time.Time) bool {
	e.first.Cancel(t)
	e.second.Cancel(t)
	if e.status.IsClosed() {
		return false
	}
	e.status = order.Cancelled
	return true
}

// Update is not supported on composite orders.
func (e *ocoExecutor) Update(order.SingleOrder, time.Time) bool { return false }
