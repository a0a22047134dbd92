package sim

import (
	"time"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/order"
)

// otoExecutor drives a one-triggers-other pair: the secondary order
// starts being driven only once the primary reaches COMPLETED. If the
// primary aborts, the composite mirrors that abort and the secondary is
// never started.
type otoExecutor struct {
	o         order.OTOOrder
	primary   *SingleExecutor
	secondary *SingleExecutor
	status    order.Status
}

// NewOTOExecutor wraps a one-triggers-other order.
func NewOTOExecutor(o order.OTOOrder) CreateExecutor {
	return &otoExecutor{
		o:         o,
		primary:   NewSingleExecutor(o.Primary),
		secondary: NewSingleExecutor(o.Secondary),
		status:    order.Initial,
	}
}

func (e *otoExecutor) Order() order.Order   { return e.o }
func (e *otoExecutor) Asset() asset.Asset   { return e.o.Primary.Asset }
func (e *otoExecutor) Status() order.Status { return e.status }

func (e *otoExecutor) Execute(pricing Pricing, t time.Time) []order.Execution {
	if e.status.IsClosed() {
		return nil
	}
	if e.status == order.Initial {
		e.status = order.Accepted
	}

	var execs []order.Execution
	if e.primary.Status().IsOpen() {
		execs = append(execs, e.primary.Execute(pricing, t)...)
	}
	if e.primary.Status().IsAborted() {
		e.status = e.primary.Status()
		return execs
	}

	if e.primary.Status() == order.Completed {
		execs = append(execs, e.secondary.Execute(pricing, t)...)
		if s := e.secondary.Status(); s.IsClosed() {
			e.status = s
		}
	}
	return execs
}

// Cancel cancels both children unconditionally.
func (e *otoExecutor) Cancel(t time.Time) bool {
	e.primary.Cancel(t)
	e.secondary.Cancel(t)
	if e.status.IsClosed() {
		return false
	}
	e.status = order.Cancelled
	return true
}

// Update is not supported on composite orders.
func (e *otoExecutor) Update(order.SingleOrder, time.Time) bool { return false }
