package sim

import (
	"log/slog"
	"time"

	"github.com/quantsim/simbroker/internal/order"
)

// updateExecutor resolves an update order against the open
// create-executors. Single-shot: it closes on its first evaluation,
// COMPLETED if the target accepted the update, REJECTED otherwise.
// Rejection is a normal outcome of racing an update against a fill, so
// it is a status, never an error.
type updateExecutor struct {
	o      order.UpdateOrder
	status order.Status
}

// NewUpdateExecutor wraps an update order.
func NewUpdateExecutor(o order.UpdateOrder) ModifyExecutor {
	return &updateExecutor{o: o, status: order.Initial}
}

func (e *updateExecutor) Order() order.Order   { return e.o }
func (e *updateExecutor) Status() order.Status { return e.status }

func (e *updateExecutor) Execute(open map[string]CreateExecutor, t time.Time) {
	if e.status.IsClosed() {
		return
	}
	target, ok := open[e.o.Target]
	if ok && target.Update(e.o.Replacement, t) {
		e.status = order.Completed
		return
	}
	e.status = order.Rejected
	slog.Debug("update rejected", "target", e.o.Target, "found", ok)
}

// cancelExecutor resolves a cancel order against the open
// create-executors. Single-shot: COMPLETED if the target was open and
// is now cancelled, REJECTED otherwise.
type cancelExecutor struct {
	o      order.CancelOrder
	status order.Status
}

// NewCancelExecutor wraps a cancel order.
func NewCancelExecutor(o order.CancelOrder) ModifyExecutor {
	return &cancelExecutor{o: o, status: order.Initial}
}

func (e *cancelExecutor) Order() order.Order   { return e.o }
func (e *cancelExecutor) Status() order.Status { return e.status }

func (e *cancelExecutor) Execute(open map[string]CreateExecutor, t time.Time) {
	if e.status.IsClosed() {
		return
	}
	target, ok := open[e.o.Target]
	if ok && target.Cancel(t) {
		e.status = order.Completed
		return
	}
	e.status = order.Rejected
	slog.Debug("cancel rejected", "target", e.o.Target, "found", ok)
}
