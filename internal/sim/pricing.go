// Package sim implements the simulated brokerage: pricing models,
// per-order executors, the per-tick execution engine, and the broker
// that ties executions to account state.
//
// All monetary values use shopspring/decimal — never float64 for money.
package sim

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/feed"
)

// ErrInvalidSpread is returned when a spread is negative or at least
// 100% (10,000 basis points).
var ErrInvalidSpread = errors.New("sim: spread must lie in [0, 10000) basis points")

// Pricing exposes the prices applicable to a signed order size for one
// (asset, tick) pair. Side-awareness lets spread and slippage depend on
// the direction of the trade. Pricing objects are ephemeral and never
// persisted.
type Pricing interface {
	// MarketPrice is the executable price for a market fill of size.
	MarketPrice(size decimal.Decimal) decimal.Decimal

	// HighPrice is the highest price touched this tick, adjusted for size's side.
	HighPrice(size decimal.Decimal) decimal.Decimal

	// LowPrice is the lowest price touched this tick, adjusted for size's side.
	LowPrice(size decimal.Decimal) decimal.Decimal
}

// PricingEngine turns a raw price observation into side-aware prices.
// Implementations may accumulate state across ticks (e.g. volume-based
// slippage); Clear resets that state between runs.
type PricingEngine interface {
	Price(bar feed.PriceBar, t time.Time) Pricing
	Clear()
}

// barPricing serves bar prices unadjusted.
type barPricing struct {
	bar feed.PriceBar
}

func (p barPricing) MarketPrice(decimal.Decimal) decimal.Decimal { return p.bar.Close }
func (p barPricing) HighPrice(decimal.Decimal) decimal.Decimal   { return p.bar.High }
func (p barPricing) LowPrice(decimal.Decimal) decimal.Decimal    { return p.bar.Low }

// NoCostPricingEngine fills at the observed prices with no spread at
// all. Useful for tests and as a lower bound on trading cost.
type NoCostPricingEngine struct{}

// Price implements PricingEngine.
func (NoCostPricingEngine) Price(bar feed.PriceBar, _ time.Time) Pricing {
	return barPricing{bar: bar}
}

// Clear implements PricingEngine. The engine is stateless.
func (NoCostPricingEngine) Clear() {}

// SpreadPricingEngine applies a symmetric basis-point markup/markdown
// around the observed price: buys pay half the spread above, sells
// receive half the spread below. It is stateless — the bar is passed
// per call, nothing is stored.
type SpreadPricingEngine struct {
	half decimal.Decimal // fractional half-spread, e.g. 0.0005 for 10 bps
}

// NewSpreadPricingEngine creates a spread engine from a total spread in
// basis points (e.g. 10 = 0.1%).
func NewSpreadPricingEngine(spreadBps decimal.Decimal) (*SpreadPricingEngine, error) {
	if spreadBps.IsNegative() || spreadBps.GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		return nil, ErrInvalidSpread
	}
	half := spreadBps.Div(decimal.NewFromInt(20000))
	return &SpreadPricingEngine{half: half}, nil
}

// Price implements PricingEngine.
func (e *SpreadPricingEngine) Price(bar feed.PriceBar, _ time.Time) Pricing {
	return spreadPricing{bar: bar, half: e.half}
}

// Clear implements PricingEngine. The engine is stateless.
func (e *SpreadPricingEngine) Clear() {}

type spreadPricing struct {
	bar  feed.PriceBar
	half decimal.Decimal
}

// adjust moves price against the trade: up for buys, down for sells.
func (p spreadPricing) adjust(price, size decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if size.IsPositive() {
		return price.Mul(one.Add(p.half))
	}
	return price.Mul(one.Sub(p.half))
}

func (p spreadPricing) MarketPrice(size decimal.Decimal) decimal.Decimal {
	return p.adjust(p.bar.Close, size)
}

func (p spreadPricing) HighPrice(size decimal.Decimal) decimal.Decimal {
	return p.adjust(p.bar.High, size)
}

func (p spreadPricing) LowPrice(size decimal.Decimal) decimal.Decimal {
	return p.adjust(p.bar.Low, size)
}
