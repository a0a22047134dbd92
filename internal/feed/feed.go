// Package feed delivers market events to the engine over a bounded
// channel. The producer blocks when the channel is full and the consumer
// blocks when it is empty; closing the channel (or cancelling the
// context) ends a run after the in-flight event is fully processed.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
)

// ErrOutOfOrder is returned when an event would violate the feed's
// nondecreasing-time contract.
var ErrOutOfOrder = errors.New("feed: event time precedes the previous event")

// PriceBar is one price observation for an asset: an OHLCV bar. For
// single-price ticks set Open=High=Low=Close.
type PriceBar struct {
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// NewPriceBar builds a single-price bar.
func NewPriceBar(price decimal.Decimal) PriceBar {
	return PriceBar{Open: price, High: price, Low: price, Close: price}
}

// Event is one tick: a timestamp plus the price observations available
// at that moment. Assets without an observation are simply absent.
type Event struct {
	Time   time.Time               `json:"time"`
	Prices map[asset.Asset]PriceBar `json:"-"`
}

// NewEvent creates an event with an empty price set.
func NewEvent(t time.Time) Event {
	return Event{Time: t, Prices: make(map[asset.Asset]PriceBar)}
}

// Price returns the bar for an asset and whether one is present.
func (e Event) Price(a asset.Asset) (PriceBar, bool) {
	bar, ok := e.Prices[a]
	return bar, ok
}

// Feed produces a time-ordered sequence of events.
type Feed interface {
	// Play sends events to ch in nondecreasing time order, blocking when
	// the channel buffer is full. It returns when the feed is exhausted
	// or ctx is cancelled. Play does not close ch; the caller owns it.
	Play(ctx context.Context, ch chan<- Event) error
}

// Run drives a feed through a buffered channel and closes the channel
// when the feed finishes, so a single consumer can range over it.
func Run(ctx context.Context, f Feed, buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	go func() {
		defer close(ch)
		_ = f.Play(ctx, ch)
	}()
	return ch
}
