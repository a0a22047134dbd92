// Package account holds the broker-private mutable account state, the
// frozen snapshots handed to external consumers, and the position and
// buying-power arithmetic between them.
package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/currency"
	"github.com/quantsim/simbroker/internal/order"
)

// Position is the signed holding in one asset. AvgPrice is meaningful
// only while Size is non-zero; a position flipping through zero resets
// AvgPrice on the new side.
type Position struct {
	Asset      asset.Asset     `json:"asset"`
	Size       decimal.Decimal `json:"size"` // signed: positive = long
	AvgPrice   decimal.Decimal `json:"avg_price"`
	SpotPrice  decimal.Decimal `json:"spot_price"`
	LastUpdate time.Time       `json:"last_update"`
}

// IsLong reports whether the position is long.
func (p Position) IsLong() bool { return p.Size.IsPositive() }

// IsShort reports whether the position is short.
func (p Position) IsShort() bool { return p.Size.IsNegative() }

// IsFlat reports whether the position is empty.
func (p Position) IsFlat() bool { return p.Size.IsZero() }

// UnrealizedPnL is (spot − avg) × size × multiplier in the asset currency.
func (p Position) UnrealizedPnL() currency.Amount {
	v := p.SpotPrice.Sub(p.AvgPrice).Mul(p.Size).Mul(p.Asset.MultiplierDec())
	return currency.NewAmount(p.Asset.Currency, v)
}

// MarketValue is size × spot × multiplier; signed, negative for shorts.
func (p Position) MarketValue() currency.Amount {
	return p.Asset.Value(p.Size, p.SpotPrice)
}

// Exposure is |size| × multiplier × spot; always non-negative.
func (p Position) Exposure() currency.Amount {
	return p.Asset.Value(p.Size.Abs(), p.SpotPrice)
}

// apply folds a fill into the position and returns the realized PnL in
// the asset currency.
//
// Three cases, keyed on how the fill moves the signed size:
//   - direction flip through zero (including opening from flat and an
//     exact close): the old leg is realized at the fill price and the
//     average resets to the fill price on the new side;
//   - growth in the same direction: size-weighted average, nothing
//     realized;
//   - shrink in the same direction: the closed portion is realized,
//     average unchanged.
func (p *Position) apply(size, price decimal.Decimal, t time.Time) decimal.Decimal {
	mult := p.Asset.MultiplierDec()
	newSize := p.Size.Add(size)

	var realized decimal.Decimal
	switch {
	case p.Size.Sign() != newSize.Sign():
		realized = p.Size.Mul(price.Sub(p.AvgPrice)).Mul(mult)
		p.AvgPrice = price
	case newSize.Abs().GreaterThan(p.Size.Abs()):
		notional := p.Size.Mul(p.AvgPrice).Add(size.Mul(price))
		p.AvgPrice = notional.Div(newSize)
	default:
		realized = size.Mul(p.AvgPrice.Sub(price)).Mul(mult)
	}

	p.Size = newSize
	p.SpotPrice = price
	p.LastUpdate = t
	return realized
}

// Portfolio maps assets to open positions. A position whose size
// returns to exactly zero is removed, never retained as a zero entry.
type Portfolio map[asset.Asset]*Position

// Update folds a fill into the portfolio, creating the position on the
// first fill for an asset and removing it when the size returns to
// zero. It returns the realized PnL in the asset's currency.
func (pf Portfolio) Update(exec order.Execution) currency.Amount {
	pos, ok := pf[exec.Asset]
	if !ok {
		pos = &Position{Asset: exec.Asset}
		pf[exec.Asset] = pos
	}
	realized := pos.apply(exec.Size, exec.Price, exec.Time)
	if pos.Size.IsZero() {
		delete(pf, exec.Asset)
	}
	return currency.NewAmount(exec.Asset.Currency, realized)
}

// MarkToMarket refreshes the spot price of an open position. No-op for
// assets without a position.
func (pf Portfolio) MarkToMarket(a asset.Asset, spot decimal.Decimal, t time.Time) {
	if pos, ok := pf[a]; ok {
		pos.SpotPrice = spot
		pos.LastUpdate = t
	}
}

// Clone returns a deep copy of the portfolio.
func (pf Portfolio) Clone() Portfolio {
	out := make(Portfolio, len(pf))
	for a, p := range pf {
		cp := *p
		out[a] = &cp
	}
	return out
}
