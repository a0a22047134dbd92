package sim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/order"
)

// bracketExecutor drives an entry order and, once the entry fully
// completes, its take-profit and stop-loss exits. The take-profit is
// evaluated before the stop-loss on every tick, and the first exit to
// produce any fill becomes the only exit ever driven again. The bracket
// completes once the exits together close the entry's full size.
type bracketExecutor struct {
	o          order.BracketOrder
	entry      *SingleExecutor
	takeProfit *SingleExecutor
	stopLoss   *SingleExecutor
	chosen     *SingleExecutor // first exit to fill; nil until then
	exitFill   decimal.Decimal
	status     order.Status
}

// NewBracketExecutor wraps a bracket order.
func NewBracketExecutor(o order.BracketOrder) CreateExecutor {
	return &bracketExecutor{
		o:          o,
		entry:      NewSingleExecutor(o.Entry),
		takeProfit: NewSingleExecutor(o.TakeProfit),
		stopLoss:   NewSingleExecutor(o.StopLoss),
		status:     order.Initial,
	}
}

func (e *bracketExecutor) Order() order.Order   { return e.o }
func (e *bracketExecutor) Asset() asset.Asset   { return e.o.Entry.Asset }
func (e *bracketExecutor) Status() order.Status { return e.status }

func (e *bracketExecutor) Execute(pricing Pricing, t time.Time) []order.Execution {
	if e.status.IsClosed() {
		return nil
	}
	if e.status == order.Initial {
		e.status = order.Accepted
	}

	var execs []order.Execution
	if e.entry.Status().IsOpen() {
		execs = append(execs, e.entry.Execute(pricing, t)...)
	}
	if e.entry.Status().IsAborted() {
		e.status = e.entry.Status()
		return execs
	}

	if e.entry.Status() == order.Completed {
		execs = append(execs, e.executeExits(pricing, t)...)
	}

	if e.chosen != nil && e.chosen.Status().IsAborted() {
		e.status = e.chosen.Status()
		return execs
	}
	if e.exitFill.Equal(e.o.Entry.Size.Neg()) {
		e.status = order.Completed
	}
	return execs
}

// executeExits drives the exit legs. Until one has filled, take-profit
// runs first and the stop-loss only runs if the take-profit produced
// nothing this tick; afterwards only the chosen leg runs.
func (e *bracketExecutor) executeExits(pricing Pricing, t time.Time) []order.Execution {
	if e.chosen != nil {
		execs := e.chosen.Execute(pricing, t)
		e.accumulate(execs)
		return execs
	}

	execs := e.takeProfit.Execute(pricing, t)
	if len(execs) > 0 {
		e.chosen = e.takeProfit
		e.accumulate(execs)
		return execs
	}

	execs = e.stopLoss.Execute(pricing, t)
	if len(execs) > 0 {
		e.chosen = e.stopLoss
	}
	e.accumulate(execs)
	return execs
}

func (e *bracketExecutor) accumulate(execs []order.Execution) {
	for _, ex := range execs {
		e.exitFill = e.exitFill.Add(ex.Size)
	}
}

// Cancel cancels the bracket and all three children.
func (e *bracketExecutor) Cancel(t time.Time) bool {
	e.entry.Cancel(t)
	e.takeProfit.Cancel(t)
	e.stopLoss.Cancel(t)
	if e.status.IsClosed() {
		return false
	}
	e.status = order.Cancelled
	return true
}

// Update is not supported on composite orders.
func (e *bracketExecutor) Update(order.SingleOrder, time.Time) bool { return false }
