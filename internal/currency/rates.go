package currency

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoRatePath is returned when no conversion path exists between two
// currencies. This is a configuration error — the engine surfaces it
// immediately instead of silently defaulting a rate.
var ErrNoRatePath = errors.New("currency: no exchange rate between currencies")

// ExchangeRates converts amounts between currencies at a point in time.
type ExchangeRates interface {
	// Convert returns the value of amount expressed in the target
	// currency at time t.
	Convert(amount Amount, to Currency, t time.Time) (decimal.Decimal, error)
}

// SingleCurrencyRates is the degenerate ExchangeRates for single-currency
// setups: converting within one currency is the identity, converting
// across distinct currencies fails.
type SingleCurrencyRates struct{}

// Convert implements ExchangeRates.
func (SingleCurrencyRates) Convert(amount Amount, to Currency, _ time.Time) (decimal.Decimal, error) {
	if amount.Currency != to {
		return decimal.Decimal{}, fmt.Errorf("%w: %s -> %s", ErrNoRatePath, amount.Currency, to)
	}
	return amount.Value, nil
}

type ratePoint struct {
	time time.Time
	rate decimal.Decimal
}

type pair struct {
	from, to Currency
}

// TimeRates is an ExchangeRates backed by historical FX observations.
// Lookups use the nearest rate at or before the requested time. The
// inverse of every registered pair is derived automatically.
type TimeRates struct {
	rates map[pair][]ratePoint // sorted by time, ascending
}

// NewTimeRates creates an empty time-indexed rate table.
func NewTimeRates() *TimeRates {
	return &TimeRates{rates: make(map[pair][]ratePoint)}
}

// Register records that one unit of from was worth rate units of to at
// time t. Observations may arrive out of order; the series stays sorted.
func (r *TimeRates) Register(from, to Currency, t time.Time, rate decimal.Decimal) {
	r.insert(pair{from, to}, t, rate)
	if !rate.IsZero() {
		r.insert(pair{to, from}, t, decimal.NewFromInt(1).Div(rate))
	}
}

func (r *TimeRates) insert(p pair, t time.Time, rate decimal.Decimal) {
	series := r.rates[p]
	idx := sort.Search(len(series), func(i int) bool { return series[i].time.After(t) })
	series = append(series, ratePoint{})
	copy(series[idx+1:], series[idx:])
	series[idx] = ratePoint{time: t, rate: rate}
	r.rates[p] = series
}

// Convert implements ExchangeRates using the nearest-prior observation.
func (r *TimeRates) Convert(amount Amount, to Currency, t time.Time) (decimal.Decimal, error) {
	if amount.Currency == to {
		return amount.Value, nil
	}
	series := r.rates[pair{amount.Currency, to}]
	// Last observation at or before t.
	idx := sort.Search(len(series), func(i int) bool { return series[i].time.After(t) })
	if idx == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %s -> %s at %s",
			ErrNoRatePath, amount.Currency, to, t.Format(time.RFC3339))
	}
	return amount.Value.Mul(series[idx-1].rate), nil
}
