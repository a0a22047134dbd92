package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
)

// HistoricFeed replays an in-memory series of events. Events must be
// added in nondecreasing time order.
type HistoricFeed struct {
	events []Event
}

// NewHistoricFeed creates an empty historic feed.
func NewHistoricFeed() *HistoricFeed {
	return &HistoricFeed{}
}

// Add appends an event, enforcing the nondecreasing-time contract.
func (f *HistoricFeed) Add(e Event) error {
	if n := len(f.events); n > 0 && e.Time.Before(f.events[n-1].Time) {
		return ErrOutOfOrder
	}
	f.events = append(f.events, e)
	return nil
}

// AddPrice is a convenience that appends a single-asset, single-price
// event at time t.
func (f *HistoricFeed) AddPrice(t time.Time, a asset.Asset, price decimal.Decimal) error {
	e := NewEvent(t)
	e.Prices[a] = NewPriceBar(price)
	return f.Add(e)
}

// Len returns the number of events in the feed.
func (f *HistoricFeed) Len() int {
	return len(f.events)
}

// Play implements Feed.
func (f *HistoricFeed) Play(ctx context.Context, ch chan<- Event) error {
	for _, e := range f.events {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- e:
		}
	}
	return nil
}

// RandomWalkFeed generates a geometric random walk per asset, used by
// the demo driver and benchmarks. Prices never drop below 1% of start.
type RandomWalkFeed struct {
	Assets     []asset.Asset
	Start      time.Time
	Interval   time.Duration
	Steps      int
	StartPrice decimal.Decimal
	Volatility float64 // per-step fractional move, e.g. 0.01
	Seed       int64
}

// Play implements Feed.
func (f *RandomWalkFeed) Play(ctx context.Context, ch chan<- Event) error {
	rng := rand.New(rand.NewSource(f.Seed))
	start := f.StartPrice
	if start.IsZero() {
		start = decimal.NewFromInt(100)
	}
	floor := start.Div(decimal.NewFromInt(100))

	prices := make(map[asset.Asset]decimal.Decimal, len(f.Assets))
	for _, a := range f.Assets {
		prices[a] = start
	}

	t := f.Start
	for i := 0; i < f.Steps; i++ {
		e := NewEvent(t)
		for _, a := range f.Assets {
			p := prices[a]
			move := decimal.NewFromFloat(1 + (rng.Float64()*2-1)*f.Volatility)
			next := p.Mul(move)
			if next.LessThan(floor) {
				next = floor
			}
			prices[a] = next

			high := decimal.Max(p, next)
			low := decimal.Min(p, next)
			e.Prices[a] = PriceBar{Open: p, High: high, Low: low, Close: next}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- e:
		}
		t = t.Add(f.Interval)
	}
	return nil
}
