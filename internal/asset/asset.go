// Package asset defines the tradable instruments the engine operates on
// and the exchange calendars that govern trading-day boundaries.
package asset

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/currency"
)

// ErrInvalidAsset is returned for assets without a symbol or with a
// non-positive contract multiplier.
var ErrInvalidAsset = errors.New("asset: symbol required and multiplier must be positive")

// Asset identifies a tradable instrument. Multiplier is the contract
// multiplier: 1 for stocks and crypto, e.g. 50 for an index future.
// Asset is a value type and is used as a map key throughout the engine.
type Asset struct {
	Symbol     string            `json:"symbol"`
	Currency   currency.Currency `json:"currency"`
	Multiplier float64           `json:"multiplier"`
	Exchange   string            `json:"exchange,omitempty"`
}

// New creates an asset with multiplier 1 denominated in the given currency.
func New(symbol string, c currency.Currency) Asset {
	return Asset{Symbol: symbol, Currency: c, Multiplier: 1}
}

// Validate reports whether the asset is well formed.
func (a Asset) Validate() error {
	if a.Symbol == "" || a.Multiplier <= 0 {
		return ErrInvalidAsset
	}
	return nil
}

// MultiplierDec returns the contract multiplier as a decimal.
func (a Asset) MultiplierDec() decimal.Decimal {
	return decimal.NewFromFloat(a.Multiplier)
}

// Value returns the monetary value of size contracts at price, in the
// asset's currency: size × price × multiplier. Sign follows size.
func (a Asset) Value(size, price decimal.Decimal) currency.Amount {
	v := size.Mul(price).Mul(a.MultiplierDec())
	return currency.NewAmount(a.Currency, v)
}

// TradingCalendar resolves the exchange calendar for this asset. Unknown
// exchange names fall back to a 24/7 UTC calendar.
func (a Asset) TradingCalendar() Exchange {
	return Lookup(a.Exchange)
}
