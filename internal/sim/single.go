package sim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/order"
)

// SingleExecutor drives one single order through its lifecycle:
// INITIAL → ACCEPTED on the first processed tick, then COMPLETED once
// the cumulative fill reaches the order size, or CANCELLED / REJECTED /
// EXPIRED. Fills are all-or-remaining: a tick either fills the whole
// remaining size or nothing.
type SingleExecutor struct {
	o        order.SingleOrder
	status   order.Status
	openedAt time.Time
	fill     decimal.Decimal // cumulative signed fill

	// Stop/trail trigger state.
	triggered bool
	trailStop decimal.Decimal
	hasTrail  bool
}

// NewSingleExecutor wraps a single order.
func NewSingleExecutor(o order.SingleOrder) *SingleExecutor {
	return &SingleExecutor{o: o, status: order.Initial}
}

// Order implements CreateExecutor.
func (e *SingleExecutor) Order() order.Order { return e.o }

// Asset implements CreateExecutor.
func (e *SingleExecutor) Asset() asset.Asset { return e.o.Asset }

// Status implements CreateExecutor.
func (e *SingleExecutor) Status() order.Status { return e.status }

// Remaining returns the unfilled signed size.
func (e *SingleExecutor) Remaining() decimal.Decimal {
	return e.o.Size.Sub(e.fill)
}

// Fill returns the cumulative signed fill so far.
func (e *SingleExecutor) Fill() decimal.Decimal {
	return e.fill
}

// Execute implements CreateExecutor.
//
// Time-in-force is evaluated after the fill attempt: an expiring policy
// sets EXPIRED and suppresses the tick's fill.
func (e *SingleExecutor) Execute(pricing Pricing, t time.Time) []order.Execution {
	if e.status.IsClosed() {
		return nil
	}
	if e.status == order.Initial {
		e.status = order.Accepted
		e.openedAt = t
	}

	fillSize, fillPrice, filled := e.tryFill(pricing)

	remaining := e.o.Size.Sub(e.fill)
	if filled {
		remaining = remaining.Sub(fillSize)
	}
	if e.o.TIF.Expired(e.o.Asset.TradingCalendar(), e.openedAt, t, remaining) {
		e.status = order.Expired
		return nil
	}

	if !filled {
		return nil
	}

	e.fill = e.fill.Add(fillSize)
	if e.Remaining().IsZero() {
		e.status = order.Completed
	}
	return []order.Execution{{
		OrderID: e.o.OrderID,
		Asset:   e.o.Asset,
		Size:    fillSize,
		Price:   fillPrice,
		Time:    t,
	}}
}

// tryFill evaluates trigger and limit conditions for the current tick
// and returns the fill, if any.
func (e *SingleExecutor) tryFill(pricing Pricing) (decimal.Decimal, decimal.Decimal, bool) {
	size := e.Remaining()
	if size.IsZero() {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}

	switch e.o.Kind {
	case order.Market:
		return size, pricing.MarketPrice(size), true

	case order.Limit:
		if e.limitArrived(pricing, size, e.o.LimitPrice) {
			return size, e.o.LimitPrice, true
		}

	case order.Stop:
		if e.stopArrived(pricing, size, e.o.StopPrice) {
			return size, pricing.MarketPrice(size), true
		}

	case order.StopLimit:
		if !e.triggered && e.stopArrived(pricing, size, e.o.StopPrice) {
			e.triggered = true
		}
		if e.triggered && e.limitArrived(pricing, size, e.o.LimitPrice) {
			return size, e.o.LimitPrice, true
		}

	case order.Trail:
		if e.trailArrived(pricing, size) {
			return size, pricing.MarketPrice(size), true
		}

	case order.TrailLimit:
		if !e.triggered && e.trailArrived(pricing, size) {
			e.triggered = true
		}
		if e.triggered {
			// The limit trails the triggered stop by a fixed offset.
			limit := e.trailStop.Add(e.o.LimitPrice)
			if e.limitArrived(pricing, size, limit) {
				return size, limit, true
			}
		}
	}
	return decimal.Decimal{}, decimal.Decimal{}, false
}

// limitArrived reports whether the tick offers the limit price or
// better: buys need the low at or under the limit, sells need the high
// at or over it.
func (e *SingleExecutor) limitArrived(pricing Pricing, size, limit decimal.Decimal) bool {
	if size.IsPositive() {
		return pricing.LowPrice(size).LessThanOrEqual(limit)
	}
	return pricing.HighPrice(size).GreaterThanOrEqual(limit)
}

// stopArrived reports whether the tick crossed the stop level: a
// sell-stop triggers on the low touching the stop from above, a
// buy-stop on the high touching it from below.
func (e *SingleExecutor) stopArrived(pricing Pricing, size, stop decimal.Decimal) bool {
	if size.IsPositive() {
		return pricing.HighPrice(size).GreaterThanOrEqual(stop)
	}
	return pricing.LowPrice(size).LessThanOrEqual(stop)
}

// trailArrived ratchets the trailing stop in the favorable direction
// only, then evaluates it like a plain stop. A buy-trail stop can only
// move down, a sell-trail stop only up — never reversing.
func (e *SingleExecutor) trailArrived(pricing Pricing, size decimal.Decimal) bool {
	one := decimal.NewFromInt(1)
	if size.IsPositive() {
		candidate := pricing.LowPrice(size).Mul(one.Add(e.o.TrailPct))
		if !e.hasTrail || candidate.LessThan(e.trailStop) {
			e.trailStop = candidate
			e.hasTrail = true
		}
	} else {
		candidate := pricing.HighPrice(size).Mul(one.Sub(e.o.TrailPct))
		if !e.hasTrail || candidate.GreaterThan(e.trailStop) {
			e.trailStop = candidate
			e.hasTrail = true
		}
	}
	return e.stopArrived(pricing, size, e.trailStop)
}

// Cancel implements CreateExecutor. Cancelling an already-closed
// executor is a no-op and reports false.
func (e *SingleExecutor) Cancel(_ time.Time) bool {
	if e.status.IsClosed() {
		return false
	}
	e.status = order.Cancelled
	return true
}

// Update implements CreateExecutor. The update is rejected if the
// executor is closed, if its time-in-force already lapsed (the executor
// is marked EXPIRED so a later tick cannot resurrect it), or if the
// replacement changes the order's size.
func (e *SingleExecutor) Update(o order.SingleOrder, t time.Time) bool {
	if e.status.IsClosed() {
		return false
	}
	if e.status != order.Initial &&
		e.o.TIF.Expired(e.o.Asset.TradingCalendar(), e.openedAt, t, e.Remaining()) {
		e.status = order.Expired
		return false
	}
	if !o.Size.Equal(e.o.Size) {
		return false
	}
	o.OrderID = e.o.OrderID // the instruction changes, the identity does not
	e.o = o
	e.triggered = false
	e.hasTrail = false
	return true
}
